package api

import (
	"net/http"
	"strconv"

	"github.com/duelvault/escrow-core/internal/pkg/escrow"
	"github.com/labstack/echo/v4"
)

func (s *Service) handleRecoveryStatus(c echo.Context) error {
	pending, failed := s.Engine.RecoveryStatus()

	return c.JSON(http.StatusOK, recoveryStatusResponse{
		responseEnvelope:   ok(),
		FailedDuels:        failed,
		PendingSettlements: pending,
	})
}

func (s *Service) handleEmergencyRefund(c echo.Context) error {
	var req emergencyRefundRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{fail(), "malformed request body"})
	}

	if err := validateDuelID(req.DuelID); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{fail(), err.Error()})
	}

	if err := validateWallet(req.Player1Wallet); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{fail(), err.Error()})
	}

	if err := validateWallet(req.Player2Wallet); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{fail(), err.Error()})
	}

	token, err := validateToken(req.Token)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{fail(), err.Error()})
	}

	stake, err := strconv.ParseUint(req.StakePerPlayerAmount, 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{fail(), "stakePerPlayerLamports must be an integer string"})
	}

	outcomes := s.Engine.EmergencyRefund(c.Request().Context(), escrow.EmergencyRefundParams{
		DuelID:         req.DuelID,
		Player1Wallet:  req.Player1Wallet,
		Player2Wallet:  req.Player2Wallet,
		StakePerPlayer: stake,
		Token:          token,
	})

	views := make([]emergencyRefundLegView, 0, len(outcomes))
	for _, o := range outcomes {
		views = append(views, emergencyRefundLegView{
			Player:      o.Player,
			Success:     o.Success,
			TxSignature: o.TxID,
			Error:       o.ErrorText,
		})
	}

	return c.JSON(http.StatusOK, emergencyRefundResponse{
		responseEnvelope: ok(),
		Refunds:          views,
	})
}

func (s *Service) handleDustStatus(c echo.Context) error {
	token, err := validateToken(c.QueryParam("token"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{fail(), err.Error()})
	}

	status, err := s.Engine.DustStatus(token)
	if err != nil {
		return s.writeEngineError(c, err)
	}

	return c.JSON(http.StatusOK, dustStatusResponse{
		responseEnvelope: ok(),
		DustLamports:     strconv.FormatUint(status.DustAmount, 10),
		CanSweep:         status.CanSweep,
		MinimumToSweep:   strconv.FormatUint(status.MinimumToSweep, 10),
	})
}

func (s *Service) handleSweepDust(c echo.Context) error {
	var req sweepDustRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{fail(), "malformed request body"})
	}

	token, err := validateToken(req.Token)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{fail(), err.Error()})
	}

	swept, txID, err := s.Engine.SweepDust(c.Request().Context(), token)
	if err != nil {
		return s.writeEngineError(c, err)
	}

	return c.JSON(http.StatusOK, sweepDustResponse{
		responseEnvelope: ok(),
		SweptLamports:    strconv.FormatUint(swept, 10),
		TxSignature:      txID,
	})
}
