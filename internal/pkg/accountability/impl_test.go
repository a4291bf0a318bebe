package accountability_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/duelvault/escrow-core/internal/pkg/accountability"
	"github.com/duelvault/escrow-core/internal/pkg/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestAuthority(t *testing.T) *transfer.Keypair {
	t.Helper()

	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = byte(i + 7)
	}

	kp, err := transfer.NewKeypair(seed)
	require.NoError(t, err)

	return kp
}

func referenceHash(t *testing.T, commitment accountability.Commitment) string {
	t.Helper()

	payload, err := json.Marshal(commitment)
	require.NoError(t, err)

	sum := sha256.Sum256(payload)

	return hex.EncodeToString(sum[:])
}

func TestCommitToSettlementPublishSuccess(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"tx_id":   "anchor-tx-1",
		})
	}))
	defer server.Close()

	anchor := accountability.NewAnchorClient(server.URL, time.Second)
	svc := accountability.New(newTestAuthority(t), anchor, zap.NewNop())

	record, err := svc.CommitToSettlement(context.Background(), "duel-1", "stealth-winner", "stealth-loser", "game-server-sig")
	require.NoError(t, err)

	assert.True(t, record.OnChainSuccess)
	assert.Equal(t, "anchor-tx-1", record.OnChainTxID)
	assert.NotEmpty(t, record.CommitmentHash)
	assert.Equal(t, "duel-1", record.Commitment.DuelID)

	stored, ok := svc.GetCommitmentRecord("duel-1")
	require.True(t, ok)
	assert.Equal(t, record.CommitmentHash, stored.CommitmentHash)
}

func TestCommitToSettlementPublishFailureIsNonFatal(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"error":   "anchor-unavailable",
		})
	}))
	defer server.Close()

	anchor := accountability.NewAnchorClient(server.URL, time.Second)
	svc := accountability.New(newTestAuthority(t), anchor, zap.NewNop())

	record, err := svc.CommitToSettlement(context.Background(), "duel-2", "stealth-winner", "stealth-loser", "game-server-sig")
	require.NoError(t, err)

	assert.False(t, record.OnChainSuccess)
	assert.Empty(t, record.OnChainTxID)
	assert.NotEmpty(t, record.CommitmentHash)

	stored, ok := svc.GetCommitmentRecord("duel-2")
	require.True(t, ok)
	assert.False(t, stored.OnChainSuccess)
}

func TestVerifyCommitmentRoundTrip(t *testing.T) {
	t.Parallel()

	commitment := accountability.Commitment{
		DuelID:              "duel-3",
		WinnerStealthID:     "stealth-winner",
		LoserStealthID:      "stealth-loser",
		GameServerSignature: "game-server-sig",
		Timestamp:           1700000000,
		Version:             accountability.ProtocolVersion,
	}

	hash1, ok1, err := accountability.VerifyCommitment(commitment, referenceHash(t, commitment))
	require.NoError(t, err)
	assert.True(t, ok1)
	assert.Equal(t, referenceHash(t, commitment), hash1)

	_, ok2, err := accountability.VerifyCommitment(commitment, "not-the-right-hash")
	require.NoError(t, err)
	assert.False(t, ok2)
}

func TestGetCommitmentRecordUnknown(t *testing.T) {
	t.Parallel()

	svc := accountability.New(newTestAuthority(t), accountability.NewAnchorClient("http://127.0.0.1:0", time.Second), zap.NewNop())

	_, ok := svc.GetCommitmentRecord("never-committed")
	assert.False(t, ok)
}
