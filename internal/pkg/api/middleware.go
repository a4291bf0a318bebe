package api

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const internalSecretHeader = "X-Internal-Secret"

// internalAuth gates every /api/v1/duel/* route behind a shared secret,
// compared in constant time — the source this spec is drawn from used a
// naive equality check (spec §9); this reimplementation closes that gap.
func internalAuth(apiKey string) echo.MiddlewareFunc {
	key := []byte(apiKey)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			supplied := []byte(c.Request().Header.Get(internalSecretHeader))

			if len(supplied) != len(key) || subtle.ConstantTimeCompare(supplied, key) != 1 {
				return c.JSON(http.StatusUnauthorized, errorResponse{
					responseEnvelope: fail(),
					Error:            "invalid or missing internal secret",
				})
			}

			return next(c)
		}
	}
}

// clientLimiters hands out one token-bucket limiter per remote address,
// approximating the spec's fixed 100-requests-per-minute window. Entries
// are never evicted here — client identities churn slowly enough in this
// deployment shape that unbounded growth over a process lifetime is an
// accepted tradeoff, same as critSection's per-duel mutexes.
type clientLimiters struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func newClientLimiters() *clientLimiters {
	return &clientLimiters{limiters: make(map[string]*rate.Limiter)}
}

const (
	rateLimitPerMinute = 100
	rateLimitWindow    = time.Minute
)

func (c *clientLimiters) get(identity string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, ok := c.limiters[identity]
	if !ok {
		l = rate.NewLimiter(rate.Every(rateLimitWindow/rateLimitPerMinute), rateLimitPerMinute)
		c.limiters[identity] = l
	}

	return l
}

func rateLimit(limiters *clientLimiters) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := c.RealIP()

			limiter := limiters.get(identity)
			if !limiter.Allow() {
				retryAfter := int(rateLimitWindow.Seconds() / rateLimitPerMinute)

				c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))

				return c.JSON(http.StatusTooManyRequests, errorResponse{
					responseEnvelope: fail(),
					Error:            "rate limit exceeded",
				})
			}

			return next(c)
		}
	}
}
