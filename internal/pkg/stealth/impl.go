// Package stealth derives stable, non-invertible stealth ids from wallet
// addresses and holds the process-lifetime reverse map needed to pay the
// real wallet back out at settlement or refund time.
//
// The hashing scheme follows the teacher's matchmaker.CreateMatchUp/VerifyProof
// pair: HMAC-SHA256 over a canonical byte representation, hex-encoded.
package stealth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
)

const MinPepperLen = 32

// Service is the stealth identity component (C1). It is safe for concurrent
// use; resolve/unregister are called from inside the escrow engine's
// per-duel critical section and register from duel creation, but the map
// itself still needs its own lock because calls for different duels run
// concurrently.
type Service struct {
	pepper []byte

	mu      sync.RWMutex
	reverse map[string]ReverseEntry
}

func New(pepper []byte) *Service {
	return &Service{
		pepper:  pepper,
		reverse: make(map[string]ReverseEntry),
	}
}

func normalise(wallet string) string {
	return strings.TrimSpace(wallet)
}

// Generate derives the stealth id for a wallet: HMAC-SHA256(pepper,
// normalise(wallet)), lowercase hex of the 32-byte output. Deterministic,
// non-invertible without the pepper.
func (s *Service) Generate(wallet string) string {
	h := hmac.New(sha256.New, s.pepper)
	h.Write([]byte(normalise(wallet)))

	return hex.EncodeToString(h.Sum(nil))
}

// Verify recomputes the stealth id for wallet and compares it against
// stealthID in constant time.
func (s *Service) Verify(wallet, stealthID string) bool {
	computed := s.Generate(wallet)

	return hmac.Equal([]byte(computed), []byte(stealthID))
}

// Register derives and records a reverse-map entry for wallet, scoped to
// duelID. Returns the derived stealth id.
func (s *Service) Register(wallet, duelID string) string {
	id := s.Generate(wallet)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.reverse[id] = ReverseEntry{Wallet: wallet, DuelID: duelID}

	return id
}

// Resolve returns the wallet registered for stealthID, if any.
func (s *Service) Resolve(stealthID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.reverse[stealthID]
	if !ok {
		return "", false
	}

	return entry.Wallet, true
}

// Unregister erases the reverse-map entry for stealthID. Called on any
// terminal duel transition (SETTLED, REFUNDED) so invariant 2 in spec.md §3
// holds: no reverse entry survives for a terminal duel's participants.
func (s *Service) Unregister(stealthID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.reverse, stealthID)
}

// Mask returns a display-safe truncation of a wallet address. Never returns
// the raw value.
func Mask(wallet string) string {
	w := normalise(wallet)
	if len(w) <= 8 {
		return strings.Repeat("*", len(w))
	}

	return w[:4] + "..." + w[len(w)-4:]
}
