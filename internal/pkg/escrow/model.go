// Package escrow is the duel lifecycle and settlement engine (C5): the
// heart of the core. It owns the duel state machine, payout math under two
// nested fee layers, retry-with-backoff on transient transfer failures,
// dust accumulation, refund, and recovery bookkeeping.
package escrow

import (
	"time"

	"github.com/duelvault/escrow-core/internal/pkg/common"
)

// Status is a duel's position in the lifecycle state machine. Transitions
// not explicitly wired in the engine's operations (create.go, lock.go,
// settle.go, refund.go) are unreachable by construction.
type Status string

const (
	StatusPendingStakes     Status = "PENDING_STAKES"
	StatusActive            Status = "ACTIVE"
	StatusPendingSettlement Status = "PENDING_SETTLEMENT"
	StatusSettled           Status = "SETTLED"
	StatusRefunded          Status = "REFUNDED"

	// StatusFailed is reserved for duels that exhausted settlement retries
	// and whose subsequent recovery also failed. No code path in this
	// engine enters it yet — settle exhaustion reverts to StatusActive and
	// surfaces via the failed-recovery set instead, per the open question
	// this lifecycle carries forward unresolved rather than guessed at.
	StatusFailed Status = "FAILED"
)

// Rules is an opaque bag passed through unchanged from creation to the
// stored record and back out on read.
type Rules struct {
	Flags            map[string]bool `json:"flags,omitempty"`
	TimeLimitSeconds int             `json:"timeLimitSeconds,omitempty"`
}

// Participant never stores a wallet address — only the stealth id. Wallet
// resolution, where needed (refund), goes through the stealth component's
// reverse map, which is exactly the back-edge the data model is built
// around.
type Participant struct {
	StealthID   string
	CharacterID string
	Name        string
	StakeAmount uint64

	StakeLocked bool
	LockTxID    string
	LockedAt    *time.Time
}

// Record is the central aggregate, exclusively owned by the engine and
// mutated only under the owning duel's critical section.
type Record struct {
	DuelID string
	Status Status

	Player1 Participant
	Player2 Participant

	Token           common.Token
	HouseFeePercent int
	Rules           Rules

	CreatedAt time.Time
	UpdatedAt time.Time
	ExpiresAt time.Time

	WinnerStealthID string
	SettlementTxIDs []string
	CombatSummary   map[string]any

	CommitmentHash string
	CommitmentTxID string
}

func (r *Record) otherParticipant(stealthID string) *Participant {
	switch {
	case r.Player1.StealthID == stealthID:
		return &r.Player2
	case r.Player2.StealthID == stealthID:
		return &r.Player1
	default:
		return nil
	}
}

func (r *Record) bothLocked() bool {
	return r.Player1.StakeLocked && r.Player2.StakeLocked
}
