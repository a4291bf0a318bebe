package escrow

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/duelvault/escrow-core/internal/pkg/accountability"
	"github.com/duelvault/escrow-core/internal/pkg/common"
	"github.com/duelvault/escrow-core/internal/pkg/stealth"
	"github.com/duelvault/escrow-core/internal/pkg/store"
	"github.com/duelvault/escrow-core/internal/pkg/transfer"
	"go.uber.org/zap"
)

const (
	// recoveryTTL is applied once a duel enters PENDING_SETTLEMENT, is
	// SETTLED/REFUNDED, or reverts to ACTIVE after exhausted retries — the
	// 24h audit/recovery retention window from spec §4.2.
	recoveryTTL = 24 * time.Hour

	settlementRetryAttempts = 3
	settlementRetryBackoff  = 2 * time.Second
)

// Engine is the escrow settlement engine (C5). It holds no long-lived
// connections itself — store, transfer client, accountability service, and
// stealth identity service are all injected and process-wide.
type Engine struct {
	records *store.Store[*Record]
	reaper  *store.Reaper
	crit    *critSection

	stealth        *stealth.Service
	transferClient *transfer.Client
	accountability *accountability.Service

	dust            *store.DustLedger
	pendingRecovery *store.RecoverySet
	failedRecovery  *store.RecoverySet

	escrowWallet   string
	treasuryWallet string

	escrowTimeout   time.Duration
	houseFeePercent int

	log *zap.Logger
}

func New(
	stealthSvc *stealth.Service,
	transferClient *transfer.Client,
	accountabilitySvc *accountability.Service,
	cfg *common.Config,
	log *zap.Logger,
) *Engine {
	records := store.New[*Record]()

	e := &Engine{
		records:         records,
		crit:            newCritSection(),
		stealth:         stealthSvc,
		transferClient:  transferClient,
		accountability:  accountabilitySvc,
		dust:            store.NewDustLedger(),
		pendingRecovery: store.NewRecoverySet(),
		failedRecovery:  store.NewRecoverySet(),
		escrowWallet:    transferClient.Escrow.WalletAddress(),
		treasuryWallet:  transferClient.Treasury.WalletAddress(),
		escrowTimeout:   time.Duration(cfg.EscrowTimeoutSecond) * time.Second,
		houseFeePercent: cfg.HouseFeePercent,
		log:             log,
	}

	e.reaper = store.NewReaper(records, store.DefaultReaperInterval, func(swept int) {
		log.Info("duel store reaper swept expired records", zap.Int("count", swept))
	})

	return e
}

// Start begins the background reaper that evicts expired duel records,
// mirroring the teacher's pattern of starting a component's background
// loop explicitly from main before the HTTP server blocks.
func (e *Engine) Start() {
	e.reaper.Start()
}

// Shutdown stops the background reaper. It does not touch in-flight
// settlements — those are expected to run to completion or land in the
// failed-recovery set per §5's best-effort drain policy.
func (e *Engine) Shutdown() {
	e.reaper.Stop()
}

// Get returns the duel record for duelID, or (nil, false).
func (e *Engine) Get(duelID string) (*Record, bool) {
	return e.records.Get(duelID)
}

// RecoveryStatus returns the duel ids currently in flight and exhausted.
func (e *Engine) RecoveryStatus() (pending, failed []string) {
	return e.pendingRecovery.List(), e.failedRecovery.List()
}

// DustLedger returns the engine's per-token dust accumulator. The engine's
// own dust operations and the API layer's dust handlers do not go through
// it; they use DustStatus and SweepDust.
func (e *Engine) DustLedger() *store.DustLedger {
	return e.dust
}

// CommitmentRecord exposes the accountability audit log for the API
// surface's /verify/:duelId handler.
func (e *Engine) CommitmentRecord(duelID string) (accountability.Record, bool) {
	return e.accountability.GetCommitmentRecord(duelID)
}

func newDuelID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate duel id: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

func remainingTTL(expiresAt time.Time, now time.Time) time.Duration {
	d := expiresAt.Sub(now)
	if d < time.Second {
		return time.Second
	}

	return d
}
