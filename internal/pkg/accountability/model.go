package accountability

import "time"

const ProtocolVersion = 1

// Commitment is the canonical record committed to the ledger before any
// settlement transfer moves. Field order is declaration order — Go's
// encoding/json marshals struct fields in the order they're declared, which
// is the "natural JSON order of insertion" the spec's §4.4 canonicalisation
// rule calls for. Never reorder these fields without bumping
// ProtocolVersion, per spec §4.4 step 2.
type Commitment struct {
	DuelID              string `json:"duel_id"`
	WinnerStealthID     string `json:"winner_stealth_id"`
	LoserStealthID      string `json:"loser_stealth_id"`
	GameServerSignature string `json:"game_server_signature"`
	Timestamp           int64  `json:"timestamp"`
	Version             int    `json:"version"`
}

// Record is what the audit log stores: the commitment by value, its hash,
// and the outcome of trying to publish that hash to the ledger.
type Record struct {
	Commitment     Commitment
	CommitmentHash string
	OnChainTxID    string
	OnChainSuccess bool
	RecordedAt     time.Time
}
