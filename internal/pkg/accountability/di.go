package accountability

import (
	"fmt"
	"time"

	"github.com/duelvault/escrow-core/internal/pkg/common"
	"github.com/duelvault/escrow-core/internal/pkg/transfer"
	"github.com/samber/do/v2"
	"go.uber.org/zap"
)

const requestTimeout = 10 * time.Second

// NewService is the samber/do constructor: it loads the server-authority
// signing key and points the anchor client at the configured ledger-anchor
// base URL.
func NewService(i do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*common.Config](i)
	log := do.MustInvoke[*zap.Logger](i)

	authorityKP, err := transfer.NewKeypair(cfg.ServerAuthoritySeed)
	if err != nil {
		return nil, fmt.Errorf("failed to load server authority keypair: %w", err)
	}

	anchor := NewAnchorClient(cfg.LedgerAnchorBaseURL, requestTimeout)

	return New(authorityKP, anchor, log), nil
}
