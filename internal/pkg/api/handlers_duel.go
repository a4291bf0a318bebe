package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/duelvault/escrow-core/internal/pkg/accountability"
	"github.com/duelvault/escrow-core/internal/pkg/escrow"
	"github.com/labstack/echo/v4"
)

func (s *Service) handleCreate(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{fail(), "malformed request body"})
	}

	if err := validateCreateRequest(req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{fail(), err.Error()})
	}

	token, err := validateToken(req.Token)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{fail(), err.Error()})
	}

	rules := escrow.Rules{}
	if req.Rules != nil {
		rules.Flags = make(map[string]bool)

		for k, v := range req.Rules {
			if b, ok := v.(bool); ok {
				rules.Flags[k] = b
			}

			if k == "timeLimitSeconds" {
				if f, ok := v.(float64); ok {
					rules.TimeLimitSeconds = int(f)
				}
			}
		}
	}

	result, err := s.Engine.CreateDuel(escrow.CreateParams{
		Player1Wallet:      req.Player1Wallet,
		Player2Wallet:      req.Player2Wallet,
		Player1CharacterID: req.Player1CharacterID,
		Player2CharacterID: req.Player2CharacterID,
		Player1Name:        req.Player1Name,
		Player2Name:        req.Player2Name,
		StakeAmount:        req.StakeAmount,
		Token:              token,
		Rules:              rules,
	})
	if err != nil {
		return s.writeEngineError(c, err)
	}

	return c.JSON(http.StatusOK, createResponse{
		responseEnvelope:    ok(),
		DuelID:              result.DuelID,
		Player1StealthID:    result.Player1StealthID,
		Player2StealthID:    result.Player2StealthID,
		StakeAmountLamports: strconv.FormatUint(result.StakeAmount, 10),
		ExpiresAt:           result.ExpiresAt.Unix(),
	})
}

func (s *Service) handleLockStake(c echo.Context) error {
	var req lockRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{fail(), "malformed request body"})
	}

	if err := validateDuelID(req.DuelID); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{fail(), err.Error()})
	}

	if err := validateWallet(req.PlayerWallet); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{fail(), err.Error()})
	}

	result, err := s.Engine.LockStake(escrow.LockParams{
		DuelID:       req.DuelID,
		PlayerWallet: req.PlayerWallet,
		PaymentProof: req.PaymentProof,
	})
	if err != nil {
		return s.writeEngineError(c, err)
	}

	return c.JSON(http.StatusOK, lockResponse{
		responseEnvelope: ok(),
		TxSignature:      result.TxID,
		DuelStatus:       string(result.DuelStatus),
		BothLocked:       result.BothLocked,
	})
}

func (s *Service) handleSettle(c echo.Context) error {
	var req settleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{fail(), "malformed request body"})
	}

	if err := validateDuelID(req.DuelID); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{fail(), err.Error()})
	}

	if err := validateWallet(req.WinnerWallet); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{fail(), err.Error()})
	}

	result, err := s.Engine.Settle(c.Request().Context(), escrow.SettleParams{
		DuelID:            req.DuelID,
		WinnerWallet:      req.WinnerWallet,
		WinnerCharacterID: req.WinnerCharacterID,
		ServerSignature:   req.ServerSignature,
		CombatSummary:     req.CombatSummary,
	})
	if err != nil {
		return s.writeEngineError(c, err)
	}

	return c.JSON(http.StatusOK, settleResponse{
		responseEnvelope:      ok(),
		WinnerTxSignature:     result.WinnerTxID,
		TreasuryTxSignature:   result.TreasuryTxID,
		WinnerPayoutLamports:  strconv.FormatUint(result.WinnerPayout, 10),
		TreasuryFeeLamports:   strconv.FormatUint(result.HouseFee, 10),
		CommitmentHash:        result.CommitmentHash,
		CommitmentTxSignature: result.CommitmentTxID,
	})
}

func (s *Service) handleRefund(c echo.Context) error {
	var req refundRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{fail(), "malformed request body"})
	}

	if err := validateDuelID(req.DuelID); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{fail(), err.Error()})
	}

	txIDs, err := s.Engine.Refund(c.Request().Context(), escrow.RefundParams{
		DuelID:          req.DuelID,
		Reason:          req.Reason,
		ServerSignature: req.ServerSignature,
	})
	if err != nil {
		return s.writeEngineError(c, err)
	}

	return c.JSON(http.StatusOK, refundResponse{
		responseEnvelope:   ok(),
		RefundTxSignatures: txIDs,
	})
}

func (s *Service) handleGetDuel(c echo.Context) error {
	duelID := c.Param("duelId")

	record, found := s.Engine.Get(duelID)
	if !found {
		return c.JSON(http.StatusNotFound, errorResponse{fail(), "duel not found"})
	}

	return c.JSON(http.StatusOK, getDuelResponse{
		responseEnvelope: ok(),
		Duel: duelView{
			DuelID:           record.DuelID,
			Status:           string(record.Status),
			Player1Name:      record.Player1.Name,
			Player2Name:      record.Player2.Name,
			Player1StealthID: record.Player1.StealthID,
			Player2StealthID: record.Player2.StealthID,
			Player1Locked:    record.Player1.StakeLocked,
			Player2Locked:    record.Player2.StakeLocked,
			StakeLamports:    strconv.FormatUint(record.Player1.StakeAmount, 10),
			Token:            string(record.Token),
			ExpiresAt:        record.ExpiresAt.Unix(),
			WinnerStealthID:  record.WinnerStealthID,
			CombatSummary:    record.CombatSummary,
		},
	})
}

func (s *Service) handleVerify(c echo.Context) error {
	duelID := c.Param("duelId")

	commitRecord, found := s.Engine.CommitmentRecord(duelID)
	if !found {
		return c.JSON(http.StatusNotFound, errorResponse{fail(), "no commitment record for this duel"})
	}

	rawData, err := json.Marshal(commitRecord.Commitment)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{fail(), "failed to serialise commitment"})
	}

	recomputedHash, hashMatches, err := accountability.VerifyCommitment(commitRecord.Commitment, commitRecord.CommitmentHash)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{fail(), "failed to recompute commitment hash"})
	}

	return c.JSON(http.StatusOK, verifyResponse{
		responseEnvelope: ok(),
		Verification: verificationView{
			DuelID:          duelID,
			WinnerStealthID: commitRecord.Commitment.WinnerStealthID,
		},
		Commitment: commitmentView{
			RawData:        string(rawData),
			Hash:           commitRecord.CommitmentHash,
			RecomputedHash: recomputedHash,
			HashMatches:    hashMatches,
		},
		OnChain: onChainView{
			Posted:      commitRecord.OnChainSuccess,
			TxSignature: commitRecord.OnChainTxID,
		},
	})
}
