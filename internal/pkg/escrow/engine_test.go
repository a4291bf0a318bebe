package escrow_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/duelvault/escrow-core/internal/pkg/accountability"
	"github.com/duelvault/escrow-core/internal/pkg/common"
	"github.com/duelvault/escrow-core/internal/pkg/escrow"
	"github.com/duelvault/escrow-core/internal/pkg/stealth"
	"github.com/duelvault/escrow-core/internal/pkg/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type harness struct {
	engine      *escrow.Engine
	transientN  *atomic.Int32
	failForever *atomic.Bool
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{transientN: &atomic.Int32{}, failForever: &atomic.Bool{}}

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/zk/internal-transfer":
			if h.failForever.Load() {
				w.WriteHeader(http.StatusServiceUnavailable)
				_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "network"})

				return
			}

			h.transientN.Add(1)

			_ = json.NewEncoder(w).Encode(map[string]any{
				"success":      true,
				"tx_signature": fmt.Sprintf("tx-%d", h.transientN.Load()),
			})
		case "/anchor/publish":
			_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "tx_id": "anchor-tx-1"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(backend.Close)

	seed1 := make([]byte, 32)
	seed2 := make([]byte, 32)
	seed3 := make([]byte, 32)

	for i := range seed1 {
		seed1[i] = byte(i + 1)
		seed2[i] = byte(i + 2)
		seed3[i] = byte(i + 3)
	}

	escrowKP, err := transfer.NewKeypair(seed1)
	require.NoError(t, err)

	treasuryKP, err := transfer.NewKeypair(seed2)
	require.NoError(t, err)

	authorityKP, err := transfer.NewKeypair(seed3)
	require.NoError(t, err)

	transferClient := transfer.NewClient(backend.URL, time.Second, escrowKP, treasuryKP)
	anchorClient := accountability.NewAnchorClient(backend.URL, time.Second)
	accountabilitySvc := accountability.New(authorityKP, anchorClient, zap.NewNop())
	stealthSvc := stealth.New([]byte("0123456789abcdef0123456789abcdef"))

	cfg := &common.Config{
		HouseFeePercent:     2,
		EscrowTimeoutSecond: 1800,
	}

	h.engine = escrow.New(stealthSvc, transferClient, accountabilitySvc, cfg, zap.NewNop())

	return h
}

func TestHappyPathSettlement(t *testing.T) {
	t.Parallel()

	h := newHarness(t)

	created, err := h.engine.CreateDuel(escrow.CreateParams{
		Player1Wallet:       "11111111111111111111111111111p1",
		Player2Wallet:       "22222222222222222222222222222p2",
		Player1CharacterID:  "char-1",
		Player2CharacterID:  "char-2",
		Player1Name:         "Alice",
		Player2Name:         "Bob",
		StakeAmount:         0.1,
		Token:               common.TokenSOL,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(100_000_000), created.StakeAmount)

	_, err = h.engine.LockStake(escrow.LockParams{
		DuelID:       created.DuelID,
		PlayerWallet: "11111111111111111111111111111p1",
		PaymentProof: "tx_p1",
	})
	require.NoError(t, err)

	lockResult2, err := h.engine.LockStake(escrow.LockParams{
		DuelID:       created.DuelID,
		PlayerWallet: "22222222222222222222222222222p2",
		PaymentProof: "tx_p2",
	})
	require.NoError(t, err)
	assert.True(t, lockResult2.BothLocked)
	assert.Equal(t, escrow.StatusActive, lockResult2.DuelStatus)

	settleResult, err := h.engine.Settle(context.Background(), escrow.SettleParams{
		DuelID:          created.DuelID,
		WinnerWallet:    "11111111111111111111111111111p1",
		ServerSignature: "game-server-sig",
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(195_020_000), settleResult.WinnerPayout)
	assert.Equal(t, uint64(3_980_000), settleResult.HouseFee)
	assert.NotEmpty(t, settleResult.CommitmentHash)

	record, ok := h.engine.Get(created.DuelID)
	require.True(t, ok)
	assert.Equal(t, escrow.StatusSettled, record.Status)
}

func TestTimeoutRefundWithNoLocks(t *testing.T) {
	t.Parallel()

	h := newHarness(t)

	created, err := h.engine.CreateDuel(escrow.CreateParams{
		Player1Wallet: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaap1",
		Player2Wallet: "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbp2",
		StakeAmount:   0.1,
		Token:         common.TokenSOL,
	})
	require.NoError(t, err)

	txIDs, err := h.engine.Refund(context.Background(), escrow.RefundParams{
		DuelID: created.DuelID,
		Reason: "timeout",
	})
	require.NoError(t, err)
	assert.Empty(t, txIDs)

	record, ok := h.engine.Get(created.DuelID)
	require.True(t, ok)
	assert.Equal(t, escrow.StatusRefunded, record.Status)
}

func TestOneSidedLockThenRefund(t *testing.T) {
	t.Parallel()

	h := newHarness(t)

	created, err := h.engine.CreateDuel(escrow.CreateParams{
		Player1Wallet: "ccccccccccccccccccccccccccccccp1",
		Player2Wallet: "ddddddddddddddddddddddddddddddp2",
		StakeAmount:   0.1,
		Token:         common.TokenSOL,
	})
	require.NoError(t, err)

	_, err = h.engine.LockStake(escrow.LockParams{
		DuelID:       created.DuelID,
		PlayerWallet: "ccccccccccccccccccccccccccccccp1",
		PaymentProof: "tx_p1",
	})
	require.NoError(t, err)

	txIDs, err := h.engine.Refund(context.Background(), escrow.RefundParams{
		DuelID: created.DuelID,
		Reason: "cancelled",
	})
	require.NoError(t, err)
	assert.Len(t, txIDs, 1)

	record, ok := h.engine.Get(created.DuelID)
	require.True(t, ok)
	assert.Equal(t, escrow.StatusRefunded, record.Status)
}

func TestSettleRetryExhaustionRevertsToActive(t *testing.T) {
	h := newHarness(t)
	h.failForever.Store(true)

	created, err := h.engine.CreateDuel(escrow.CreateParams{
		Player1Wallet: "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeep1",
		Player2Wallet: "fffffffffffffffffffffffffffffp2",
		StakeAmount:   0.1,
		Token:         common.TokenSOL,
	})
	require.NoError(t, err)

	_, err = h.engine.LockStake(escrow.LockParams{
		DuelID:       created.DuelID,
		PlayerWallet: "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeep1",
		PaymentProof: "tx_p1",
	})
	require.NoError(t, err)

	_, err = h.engine.LockStake(escrow.LockParams{
		DuelID:       created.DuelID,
		PlayerWallet: "fffffffffffffffffffffffffffffp2",
		PaymentProof: "tx_p2",
	})
	require.NoError(t, err)

	_, err = h.engine.Settle(context.Background(), escrow.SettleParams{
		DuelID:          created.DuelID,
		WinnerWallet:    "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeep1",
		ServerSignature: "game-server-sig",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 attempts")

	record, ok := h.engine.Get(created.DuelID)
	require.True(t, ok)
	assert.Equal(t, escrow.StatusActive, record.Status)

	_, failed := h.engine.RecoveryStatus()
	assert.Contains(t, failed, created.DuelID)
}

func TestDustAccumulationBelowMinimum(t *testing.T) {
	h := newHarness(t)

	created, err := h.engine.CreateDuel(escrow.CreateParams{
		Player1Wallet: "11100000000000000000000000000p1",
		Player2Wallet: "22200000000000000000000000000p2",
		StakeAmount:   0.11,
		Token:         common.TokenSOL,
	})
	require.NoError(t, err)

	_, err = h.engine.LockStake(escrow.LockParams{DuelID: created.DuelID, PlayerWallet: "11100000000000000000000000000p1", PaymentProof: "tx_p1"})
	require.NoError(t, err)

	_, err = h.engine.LockStake(escrow.LockParams{DuelID: created.DuelID, PlayerWallet: "22200000000000000000000000000p2", PaymentProof: "tx_p2"})
	require.NoError(t, err)

	settleResult, err := h.engine.Settle(context.Background(), escrow.SettleParams{
		DuelID:          created.DuelID,
		WinnerWallet:    "11100000000000000000000000000p1",
		ServerSignature: "sig",
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(4_378_000), settleResult.HouseFee)
	assert.Empty(t, settleResult.TreasuryTxID)

	status, err := h.engine.DustStatus(common.TokenSOL)
	require.NoError(t, err)
	assert.Equal(t, uint64(4_378_000), status.DustAmount)
	assert.False(t, status.CanSweep)
}
