package escrow

import (
	"context"

	"github.com/duelvault/escrow-core/internal/pkg/common"
	"github.com/duelvault/escrow-core/internal/pkg/transfer"
)

type DustStatus struct {
	DustAmount     uint64
	CanSweep       bool
	MinimumToSweep uint64
}

// DustStatus reports the accumulated sub-minimum house fees for token.
func (e *Engine) DustStatus(token common.Token) (*DustStatus, error) {
	info, ok := common.TokenTable[token]
	if !ok {
		return nil, newError(KindValidation, "unsupported token %q", token)
	}

	balance := e.dust.Read(string(token))

	return &DustStatus{
		DustAmount:     balance,
		CanSweep:       balance >= info.MinimumTransferOut,
		MinimumToSweep: info.MinimumTransferOut,
	}, nil
}

// SweepDust implements spec §4.5.6. No retry — a single attempt, and the
// counter is only reset after the transfer actually succeeds.
func (e *Engine) SweepDust(ctx context.Context, token common.Token) (uint64, string, error) {
	info, ok := common.TokenTable[token]
	if !ok {
		return 0, "", newError(KindValidation, "unsupported token %q", token)
	}

	balance := e.dust.Read(string(token))
	if balance < info.MinimumTransferOut {
		return 0, "", newError(KindPrecondition, "dust balance below minimum sweepable amount")
	}

	nonce, err := transfer.NewNonce()
	if err != nil {
		return 0, "", newError(KindInternal, "failed to mint dust-sweep nonce: %v", err)
	}

	txID, err := e.transferClient.InternalTransfer(ctx, transfer.InternalTransferParams{
		SenderWallet:    e.escrowWallet,
		RecipientWallet: e.treasuryWallet,
		Token:           string(token),
		AmountLamports:  balance,
		Nonce:           nonce,
		TransferType:    "dust-sweep",
		Signer:          e.transferClient.Escrow,
	})
	if err != nil {
		return 0, "", newError(KindExternalTransient, "dust sweep transfer failed: %v", err)
	}

	e.dust.Reset(string(token))

	return balance, txID, nil
}
