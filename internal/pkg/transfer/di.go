package transfer

import (
	"fmt"
	"time"

	"github.com/duelvault/escrow-core/internal/pkg/common"
	"github.com/samber/do/v2"
)

const requestTimeout = 10 * time.Second

// NewService is the samber/do constructor: it loads the escrow and treasury
// signing keys from their configured base58 seeds and rejects start-up on
// any decoding failure, per spec §4.3.
func NewService(i do.Injector) (*Client, error) {
	cfg := do.MustInvoke[*common.Config](i)

	escrowKP, err := NewKeypair(cfg.EscrowWalletSeed)
	if err != nil {
		return nil, fmt.Errorf("failed to load escrow keypair: %w", err)
	}

	treasuryKP, err := NewKeypair(cfg.TreasuryWalletSeed)
	if err != nil {
		return nil, fmt.Errorf("failed to load treasury keypair: %w", err)
	}

	return NewClient(cfg.TransferBackendBaseURL, requestTimeout, escrowKP, treasuryKP), nil
}
