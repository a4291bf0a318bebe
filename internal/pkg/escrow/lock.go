package escrow

import (
	"encoding/json"
	"time"
)

type LockParams struct {
	DuelID       string
	PlayerWallet string
	PaymentProof string
}

type LockResult struct {
	TxID       string
	DuelStatus Status
	BothLocked bool
}

// LockStake implements spec §4.5.3.
func (e *Engine) LockStake(p LockParams) (*LockResult, error) {
	unlock := e.crit.lock(p.DuelID)
	defer unlock()

	record, ok := e.records.Get(p.DuelID)
	if !ok {
		return nil, newError(KindNotFound, "duel not found")
	}

	now := time.Now()

	if record.Status != StatusPendingStakes || now.After(record.ExpiresAt) {
		return nil, newError(KindPrecondition, "duel is not accepting stakes")
	}

	participant := e.findParticipantByWallet(record, p.PlayerWallet)
	if participant == nil {
		return nil, newError(KindPrecondition, "wallet is not a participant in this duel")
	}

	if participant.StakeLocked {
		return nil, newError(KindPrecondition, "already-locked")
	}

	txID := extractTxID(p.PaymentProof)

	participant.StakeLocked = true
	participant.LockTxID = txID
	lockedAt := now
	participant.LockedAt = &lockedAt
	record.UpdatedAt = now

	if record.bothLocked() {
		record.Status = StatusActive
	}

	e.records.Set(p.DuelID, record, remainingTTL(record.ExpiresAt, now))

	return &LockResult{
		TxID:       txID,
		DuelStatus: record.Status,
		BothLocked: record.bothLocked(),
	}, nil
}

func (e *Engine) findParticipantByWallet(r *Record, wallet string) *Participant {
	switch {
	case e.stealth.Verify(wallet, r.Player1.StealthID):
		return &r.Player1
	case e.stealth.Verify(wallet, r.Player2.StealthID):
		return &r.Player2
	default:
		return nil
	}
}

// extractTxID tries to parse proof as JSON and read any of txSignature,
// signature, tx; otherwise the whole string is treated as the tx id.
func extractTxID(proof string) string {
	var asObject map[string]any
	if err := json.Unmarshal([]byte(proof), &asObject); err != nil {
		return proof
	}

	for _, key := range []string{"txSignature", "signature", "tx"} {
		if v, ok := asObject[key].(string); ok && v != "" {
			return v
		}
	}

	return proof
}
