package escrow

import (
	"context"
	"fmt"
	"time"

	"github.com/duelvault/escrow-core/internal/pkg/common"
	"github.com/duelvault/escrow-core/internal/pkg/transfer"
	"go.uber.org/zap"
)

type SettleParams struct {
	DuelID            string
	WinnerWallet      string
	WinnerCharacterID string
	ServerSignature   string
	CombatSummary     map[string]any
}

type SettleResult struct {
	WinnerTxID     string
	TreasuryTxID   string
	WinnerPayout   uint64
	HouseFee       uint64
	CommitmentHash string
	CommitmentTxID string
}

// Settle implements spec §4.5.4. The entire procedure, including the
// winner-payout retry loop and its inter-attempt sleeps, runs inside the
// duel's critical section — no other mutation of this duel id can interleave,
// which is what makes a duplicate settle call resolve to a precondition
// error rather than a double payout.
func (e *Engine) Settle(ctx context.Context, p SettleParams) (*SettleResult, error) {
	unlock := e.crit.lock(p.DuelID)
	defer unlock()

	record, ok := e.records.Get(p.DuelID)
	if !ok {
		return nil, newError(KindNotFound, "duel not found")
	}

	if record.Status != StatusActive && record.Status != StatusPendingSettlement {
		return nil, newError(KindPrecondition, "duel is not settleable in its current state")
	}

	winner := e.findParticipantByWallet(record, p.WinnerWallet)
	if winner == nil {
		return nil, newError(KindPrecondition, "winner wallet is not a participant in this duel")
	}

	loser := record.otherParticipant(winner.StealthID)

	info, ok := common.TokenTable[record.Token]
	if !ok {
		return nil, newError(KindInternal, "unknown token %q on duel record", record.Token)
	}

	commitRecord, err := e.accountability.CommitToSettlement(ctx, p.DuelID, winner.StealthID, loser.StealthID, p.ServerSignature)
	if err != nil {
		e.log.Error("commitment build failed, continuing settlement", zap.String("duel_id", p.DuelID), zap.Error(err))
	}

	now := time.Now()
	record.Status = StatusPendingSettlement
	record.UpdatedAt = now
	e.records.Set(p.DuelID, record, recoveryTTL)
	e.failedRecovery.Remove(p.DuelID)
	e.pendingRecovery.Add(p.DuelID)

	payout := computePayout(winner.StakeAmount, info.DepositFeePercent, record.HouseFeePercent)

	winnerTx, err := e.payWinnerWithRetry(ctx, p.DuelID, p.WinnerWallet, record.Token, payout.WinnerPayout)
	if err != nil {
		record.Status = StatusActive
		record.UpdatedAt = time.Now()
		e.records.Set(p.DuelID, record, recoveryTTL)
		e.pendingRecovery.Remove(p.DuelID)
		e.failedRecovery.Add(p.DuelID)

		return nil, newError(KindExternalTransient, "winner payout failed %v", err)
	}

	e.pendingRecovery.Remove(p.DuelID)

	var treasuryTx string

	if payout.HouseFee >= info.MinimumTransferOut {
		treasuryTx, err = e.payTreasuryOnce(ctx, p.DuelID, record.Token, payout.HouseFee)
		if err != nil {
			e.log.Warn("treasury payout failed, accumulating dust",
				zap.String("duel_id", p.DuelID), zap.Error(err))
			e.dust.Add(string(record.Token), payout.HouseFee)
		}
	} else {
		e.dust.Add(string(record.Token), payout.HouseFee)
	}

	record.Status = StatusSettled
	record.WinnerStealthID = winner.StealthID
	record.SettlementTxIDs = nonEmpty(winnerTx, treasuryTx)
	record.CommitmentHash = commitRecord.CommitmentHash
	record.CommitmentTxID = commitRecord.OnChainTxID
	record.CombatSummary = p.CombatSummary
	record.UpdatedAt = time.Now()

	e.records.Set(p.DuelID, record, recoveryTTL)

	e.stealth.Unregister(record.Player1.StealthID)
	e.stealth.Unregister(record.Player2.StealthID)

	return &SettleResult{
		WinnerTxID:     winnerTx,
		TreasuryTxID:   treasuryTx,
		WinnerPayout:   payout.WinnerPayout,
		HouseFee:       payout.HouseFee,
		CommitmentHash: commitRecord.CommitmentHash,
		CommitmentTxID: commitRecord.OnChainTxID,
	}, nil
}

// payWinnerWithRetry carries a single nonce across all attempts so the
// transfer backend can deduplicate if a prior attempt actually succeeded
// but its response was lost — the idempotency fix spec §9 flags as an open
// question the source code never addressed.
func (e *Engine) payWinnerWithRetry(ctx context.Context, duelID, winnerWallet string, token common.Token, amount uint64) (string, error) {
	nonce, err := transfer.NewNonce()
	if err != nil {
		return "", fmt.Errorf("failed to mint settlement nonce: %w", err)
	}

	var lastErr error

	attempts := 0

	for attempt := 1; attempt <= settlementRetryAttempts; attempt++ {
		attempts = attempt

		txID, err := e.transferClient.InternalTransfer(ctx, transfer.InternalTransferParams{
			SenderWallet:    e.escrowWallet,
			RecipientWallet: winnerWallet,
			Token:           string(token),
			AmountLamports:  amount,
			Nonce:           nonce,
			TransferType:    "settlement",
			Signer:          e.transferClient.Escrow,
		})
		if err == nil {
			return txID, nil
		}

		lastErr = err

		e.log.Warn("winner payout attempt failed",
			zap.String("duel_id", duelID), zap.Int("attempt", attempt), zap.Error(err))

		var transferErr *transfer.TransferError
		if isTransferError(err, &transferErr) && !transferErr.Transient() {
			break
		}

		if attempt < settlementRetryAttempts {
			time.Sleep(settlementRetryBackoff)
		}
	}

	return "", fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}

func (e *Engine) payTreasuryOnce(ctx context.Context, duelID string, token common.Token, amount uint64) (string, error) {
	nonce, err := transfer.NewNonce()
	if err != nil {
		return "", fmt.Errorf("failed to mint treasury nonce: %w", err)
	}

	return e.transferClient.InternalTransfer(ctx, transfer.InternalTransferParams{
		SenderWallet:    e.escrowWallet,
		RecipientWallet: e.treasuryWallet,
		Token:           string(token),
		AmountLamports:  amount,
		Nonce:           nonce,
		TransferType:    "treasury",
		Signer:          e.transferClient.Escrow,
	})
}

func isTransferError(err error, target **transfer.TransferError) bool {
	te, ok := err.(*transfer.TransferError)
	if !ok {
		return false
	}

	*target = te

	return true
}

func nonEmpty(ids ...string) []string {
	out := make([]string, 0, len(ids))

	for _, id := range ids {
		if id != "" {
			out = append(out, id)
		}
	}

	return out
}
