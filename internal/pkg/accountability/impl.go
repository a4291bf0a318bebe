// Package accountability is the commit-then-settle layer (C4): before any
// payout moves, the core hashes the outcome, signs it with the server
// authority keypair, and publishes the hash to an external ledger-anchor
// service. Publication failures are logged and recorded but never block
// settlement — the audit trail is best-effort, per spec §4.4/§7.
package accountability

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/duelvault/escrow-core/internal/pkg/transfer"
	"go.uber.org/zap"
)

// Service owns the in-memory audit log and the ledger-anchor publisher.
// Grounded on the teacher's scorer package shape (map guarded by a mutex,
// no persistence) — the audit log never survives a restart, same as the
// escrow records it accompanies.
type Service struct {
	authority *transfer.Keypair
	anchor    *AnchorClient
	log       *zap.Logger

	mu       sync.Mutex
	auditLog map[string]Record
}

func New(authority *transfer.Keypair, anchor *AnchorClient, log *zap.Logger) *Service {
	return &Service{
		authority: authority,
		anchor:    anchor,
		log:       log,
		auditLog:  make(map[string]Record),
	}
}

// CommitToSettlement builds the commitment for a duel outcome, hashes it,
// signs the hash with the server authority key, and attempts to publish it
// to the ledger anchor. It always returns a Record, even when publication
// fails — the caller (the escrow engine) proceeds with settlement either
// way, per spec §4.4.
func (s *Service) CommitToSettlement(ctx context.Context, duelID, winnerStealthID, loserStealthID, gameServerSignature string) (Record, error) {
	commitment := Commitment{
		DuelID:              duelID,
		WinnerStealthID:     winnerStealthID,
		LoserStealthID:      loserStealthID,
		GameServerSignature: gameServerSignature,
		Timestamp:           time.Now().Unix(),
		Version:             ProtocolVersion,
	}

	hash, err := hashCommitment(commitment)
	if err != nil {
		return Record{}, fmt.Errorf("failed to hash commitment for duel %s: %w", duelID, err)
	}

	record := Record{
		Commitment:     commitment,
		CommitmentHash: hash,
		RecordedAt:     time.Now(),
	}

	signature := s.authority.Sign([]byte(hash))

	txID, err := s.anchor.Publish(ctx, hash, signature)
	if err != nil {
		s.log.Warn("ledger anchor publish failed, continuing settlement",
			zap.String("duel_id", duelID),
			zap.String("commitment_hash", hash),
			zap.Error(err),
		)

		record.OnChainSuccess = false
	} else {
		record.OnChainSuccess = true
		record.OnChainTxID = txID
	}

	s.mu.Lock()
	s.auditLog[duelID] = record
	s.mu.Unlock()

	return record, nil
}

// VerifyCommitment recomputes the hash of commitment and reports both the
// recomputed hash and whether it matches expectedHash, using a plain
// comparison — commitment hashes are not secrets, unlike the stealth-id
// pepper.
func VerifyCommitment(commitment Commitment, expectedHash string) (recomputedHash string, matches bool, err error) {
	hash, err := hashCommitment(commitment)
	if err != nil {
		return "", false, fmt.Errorf("failed to hash commitment: %w", err)
	}

	return hash, hash == expectedHash, nil
}

// GetCommitmentRecord returns the audit-log entry for duelID, if any.
func (s *Service) GetCommitmentRecord(duelID string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.auditLog[duelID]

	return record, ok
}

// hashCommitment canonically serialises commitment (declaration-order JSON,
// per the Commitment doc comment) and SHA-256 hashes the result.
func hashCommitment(commitment Commitment) (string, error) {
	payload, err := json.Marshal(commitment)
	if err != nil {
		return "", fmt.Errorf("failed to marshal commitment: %w", err)
	}

	sum := sha256.Sum256(payload)

	return hex.EncodeToString(sum[:]), nil
}
