// Package api is the inbound HTTP surface (C6): request validation,
// authentication, route dispatch, and response shaping over the escrow
// engine. It holds no domain logic of its own — every handler is a thin
// translation between the wire shapes in spec §6.1 and engine calls.
package api

import (
	"net/http"

	"github.com/duelvault/escrow-core/internal/pkg/common"
	"github.com/duelvault/escrow-core/internal/pkg/escrow"
	"github.com/labstack/echo/v4"
	"github.com/samber/do/v2"
	"go.uber.org/zap"
)

type Service struct {
	Engine      *escrow.Engine      `do:""`
	EchoService *common.EchoService `do:""`

	apiKey   string
	limiters *clientLimiters
	log      *zap.Logger
}

func NewService(i do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*common.Config](i)
	log := do.MustInvoke[*zap.Logger](i)

	svc, err := do.InvokeStruct[Service](i)
	if err != nil {
		return nil, err
	}

	svc.apiKey = cfg.InternalAPIKey
	svc.limiters = newClientLimiters()
	svc.log = log

	svc.EchoService.Register(svc.registerRoutes)

	return svc, nil
}

// WireForTest builds a Service outside the samber/do graph and registers its
// routes directly on e, for tests that want a real echo.Echo with an
// in-process escrow engine but no process-wide DI container.
func WireForTest(e *echo.Echo, engine *escrow.Engine, apiKey string, log *zap.Logger) *Service {
	svc := &Service{
		Engine:   engine,
		apiKey:   apiKey,
		limiters: newClientLimiters(),
		log:      log,
	}

	svc.registerRoutes(e)

	return svc
}

func (s *Service) registerRoutes(e *echo.Echo) {
	e.GET("/health", healthHandler)
	e.GET("/health/live", healthHandler)
	e.GET("/health/ready", healthHandler)

	g := e.Group("/api/v1/duel", internalAuth(s.apiKey), rateLimit(s.limiters))

	g.POST("/create", s.handleCreate)
	g.POST("/lock-stake", s.handleLockStake)
	g.POST("/settle", s.handleSettle)
	g.POST("/refund", s.handleRefund)
	g.GET("/recovery/status", s.handleRecoveryStatus)
	g.POST("/recovery/emergency-refund", s.handleEmergencyRefund)
	g.GET("/dust-status", s.handleDustStatus)
	g.POST("/sweep-dust", s.handleSweepDust)
	g.GET("/verify/:duelId", s.handleVerify)
	g.GET("/:duelId", s.handleGetDuel)
}

func healthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
