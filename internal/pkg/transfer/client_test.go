package transfer_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/duelvault/escrow-core/internal/pkg/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKeypair(t *testing.T) *transfer.Keypair {
	t.Helper()

	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = byte(i)
	}

	kp, err := transfer.NewKeypair(seed)
	require.NoError(t, err)

	return kp
}

func TestInternalTransferSuccess(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success":      true,
			"tx_signature": "tx-abc123",
		})
	}))
	defer server.Close()

	escrow := newTestKeypair(t)
	treasury := newTestKeypair(t)
	client := transfer.NewClient(server.URL, time.Second, escrow, treasury)

	nonce, err := transfer.NewNonce()
	require.NoError(t, err)

	tx, err := client.InternalTransfer(context.Background(), transfer.InternalTransferParams{
		SenderWallet:    "escrow-wallet",
		RecipientWallet: "winner-wallet",
		Token:           "SOL",
		AmountLamports:  100_000,
		Nonce:           nonce,
		TransferType:    "settlement",
		Signer:          escrow,
	})

	require.NoError(t, err)
	assert.Equal(t, "tx-abc123", tx)
}

func TestInternalTransferBelowMinimum(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"error":   "below-minimum",
		})
	}))
	defer server.Close()

	escrow := newTestKeypair(t)
	treasury := newTestKeypair(t)
	client := transfer.NewClient(server.URL, time.Second, escrow, treasury)

	nonce, err := transfer.NewNonce()
	require.NoError(t, err)

	_, err = client.InternalTransfer(context.Background(), transfer.InternalTransferParams{
		SenderWallet:    "escrow-wallet",
		RecipientWallet: "treasury-wallet",
		Token:           "SOL",
		AmountLamports:  10,
		Nonce:           nonce,
		TransferType:    "treasury",
		Signer:          treasury,
	})

	require.Error(t, err)

	var transferErr *transfer.TransferError
	require.ErrorAs(t, err, &transferErr)
	assert.Equal(t, transfer.ErrKindBelowMinimum, transferErr.Kind)
	assert.False(t, transferErr.Transient())
}

func TestGetBalance(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		available := uint64(500_000)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"available": available,
		})
	}))
	defer server.Close()

	escrow := newTestKeypair(t)
	treasury := newTestKeypair(t)
	client := transfer.NewClient(server.URL, time.Second, escrow, treasury)

	balance, err := client.GetBalance(context.Background(), "some-wallet", "SOL")
	require.NoError(t, err)
	assert.Equal(t, uint64(500_000), balance)
}
