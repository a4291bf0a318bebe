package escrow

import (
	"context"
	"time"

	"github.com/duelvault/escrow-core/internal/pkg/common"
	"github.com/duelvault/escrow-core/internal/pkg/transfer"
	"go.uber.org/zap"
)

type RefundParams struct {
	DuelID          string
	Reason          string
	ServerSignature string
}

// Refund implements spec §4.5.5. Refunds pay the nominal stake S, not the
// after-deposit-fee amount A — a deliberate policy that makes players whole
// at the house's expense, not a bug to "fix".
func (e *Engine) Refund(ctx context.Context, p RefundParams) ([]string, error) {
	unlock := e.crit.lock(p.DuelID)
	defer unlock()

	record, ok := e.records.Get(p.DuelID)
	if !ok {
		return nil, newError(KindNotFound, "duel not found")
	}

	if record.Status == StatusSettled || record.Status == StatusRefunded {
		return nil, newError(KindPrecondition, "duel is already finalised")
	}

	txIDs := make([]string, 0, 2)

	for _, participant := range []*Participant{&record.Player1, &record.Player2} {
		if !participant.StakeLocked {
			continue
		}

		wallet, ok := e.stealth.Resolve(participant.StealthID)
		if !ok {
			e.log.Warn("cannot resolve wallet for refund, stealth id unknown",
				zap.String("duel_id", p.DuelID), zap.String("stealth_id", participant.StealthID))

			continue
		}

		nonce, err := transfer.NewNonce()
		if err != nil {
			e.log.Error("failed to mint refund nonce", zap.String("duel_id", p.DuelID), zap.Error(err))

			continue
		}

		txID, err := e.transferClient.InternalTransfer(ctx, transfer.InternalTransferParams{
			SenderWallet:    e.escrowWallet,
			RecipientWallet: wallet,
			Token:           string(record.Token),
			AmountLamports:  participant.StakeAmount,
			Nonce:           nonce,
			TransferType:    "refund",
			Signer:          e.transferClient.Escrow,
		})
		if err != nil {
			e.log.Error("refund transfer failed",
				zap.String("duel_id", p.DuelID), zap.String("reason", p.Reason), zap.Error(err))

			continue
		}

		txIDs = append(txIDs, txID)
	}

	record.Status = StatusRefunded
	record.UpdatedAt = time.Now()
	e.records.Set(p.DuelID, record, recoveryTTL)

	e.stealth.Unregister(record.Player1.StealthID)
	e.stealth.Unregister(record.Player2.StealthID)

	return txIDs, nil
}

type EmergencyRefundParams struct {
	DuelID         string
	Player1Wallet  string
	Player2Wallet  string
	StakePerPlayer uint64
	Token          common.Token
}

type EmergencyRefundOutcome struct {
	Player    string
	Success   bool
	TxID      string
	ErrorText string
}

// EmergencyRefund implements spec §4.5.7 — the operator-invoked recovery
// path for duels whose reverse-map entries are gone (e.g. after a restart)
// because it takes wallets as explicit inputs instead of resolving them.
func (e *Engine) EmergencyRefund(ctx context.Context, p EmergencyRefundParams) []EmergencyRefundOutcome {
	info, ok := common.TokenTable[p.Token]
	if !ok {
		return []EmergencyRefundOutcome{
			{Player: "player1", Success: false, ErrorText: "unsupported token"},
			{Player: "player2", Success: false, ErrorText: "unsupported token"},
		}
	}

	amount := floorPercentOf(p.StakePerPlayer, 100-info.DepositFeePercent)

	outcomes := make([]EmergencyRefundOutcome, 0, 2)
	allSucceeded := true

	for _, leg := range []struct {
		player string
		wallet string
	}{
		{"player1", p.Player1Wallet},
		{"player2", p.Player2Wallet},
	} {
		outcome := e.emergencyRefundLeg(ctx, leg.player, leg.wallet, p.Token, amount)
		outcomes = append(outcomes, outcome)

		if !outcome.Success {
			allSucceeded = false
		}
	}

	if allSucceeded {
		e.pendingRecovery.Remove(p.DuelID)
		e.failedRecovery.Remove(p.DuelID)

		if record, ok := e.records.Get(p.DuelID); ok && record.Status != StatusSettled {
			record.Status = StatusRefunded
			record.UpdatedAt = time.Now()
			e.records.Set(p.DuelID, record, recoveryTTL)

			e.stealth.Unregister(record.Player1.StealthID)
			e.stealth.Unregister(record.Player2.StealthID)
		}
	}

	return outcomes
}

func (e *Engine) emergencyRefundLeg(ctx context.Context, player, wallet string, token common.Token, amount uint64) EmergencyRefundOutcome {
	nonce, err := transfer.NewNonce()
	if err != nil {
		return EmergencyRefundOutcome{Player: player, Success: false, ErrorText: err.Error()}
	}

	txID, err := e.transferClient.InternalTransfer(ctx, transfer.InternalTransferParams{
		SenderWallet:    e.escrowWallet,
		RecipientWallet: wallet,
		Token:           string(token),
		AmountLamports:  amount,
		Nonce:           nonce,
		TransferType:    "emergency-refund",
		Signer:          e.transferClient.Escrow,
	})
	if err != nil {
		return EmergencyRefundOutcome{Player: player, Success: false, ErrorText: err.Error()}
	}

	return EmergencyRefundOutcome{Player: player, Success: true, TxID: txID}
}
