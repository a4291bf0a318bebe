package api

import (
	"errors"
	"net/http"

	"github.com/duelvault/escrow-core/internal/pkg/escrow"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// writeEngineError maps an engine error's Kind to an HTTP status per spec
// §7. Precondition and external-failure kinds are not HTTP errors — they
// come back as 200 with success=false and a human string, since the
// request itself was well-formed.
func (s *Service) writeEngineError(c echo.Context, err error) error {
	var engineErr *escrow.Error
	if !errors.As(err, &engineErr) {
		s.log.Error("unclassified engine error", zap.Error(err))

		return c.JSON(http.StatusInternalServerError, errorResponse{fail(), "internal error"})
	}

	switch engineErr.Kind {
	case escrow.KindValidation:
		return c.JSON(http.StatusBadRequest, errorResponse{fail(), engineErr.Message})
	case escrow.KindNotFound:
		return c.JSON(http.StatusNotFound, errorResponse{fail(), engineErr.Message})
	case escrow.KindInternal:
		s.log.Error("internal engine error", zap.String("message", engineErr.Message))

		return c.JSON(http.StatusInternalServerError, errorResponse{fail(), "internal error"})
	default:
		// precondition, external-transient, external-permanent: the request
		// was well-formed, the operation just couldn't complete.
		return c.JSON(http.StatusOK, errorResponse{fail(), engineErr.Message})
	}
}
