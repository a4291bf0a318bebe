package escrow

import (
	"github.com/duelvault/escrow-core/internal/pkg/accountability"
	"github.com/duelvault/escrow-core/internal/pkg/common"
	"github.com/duelvault/escrow-core/internal/pkg/stealth"
	"github.com/duelvault/escrow-core/internal/pkg/transfer"
	"github.com/samber/do/v2"
	"go.uber.org/zap"
)

// NewService is the samber/do constructor assembling the engine from its
// four injected collaborators.
func NewService(i do.Injector) (*Engine, error) {
	stealthSvc := do.MustInvoke[*stealth.Service](i)
	transferClient := do.MustInvoke[*transfer.Client](i)
	accountabilitySvc := do.MustInvoke[*accountability.Service](i)
	cfg := do.MustInvoke[*common.Config](i)
	log := do.MustInvoke[*zap.Logger](i)

	return New(stealthSvc, transferClient, accountabilitySvc, cfg, log), nil
}
