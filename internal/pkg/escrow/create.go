package escrow

import (
	"math"
	"time"

	"github.com/duelvault/escrow-core/internal/pkg/common"
)

type CreateParams struct {
	Player1Wallet string
	Player2Wallet string

	Player1CharacterID string
	Player2CharacterID string
	Player1Name        string
	Player2Name        string

	StakeAmount float64 // human units, e.g. 0.1 SOL
	Token       common.Token
	Rules       Rules
}

type CreateResult struct {
	DuelID           string
	Player1StealthID string
	Player2StealthID string
	StakeAmount      uint64
	ExpiresAt        time.Time
}

// CreateDuel implements spec §4.5.2. Balance pre-checks are intentionally
// omitted — clients verify funds before generating a range proof.
func (e *Engine) CreateDuel(p CreateParams) (*CreateResult, error) {
	if p.Player1Wallet == p.Player2Wallet {
		return nil, newError(KindValidation, "players must use different wallets")
	}

	info, ok := common.TokenTable[p.Token]
	if !ok {
		return nil, newError(KindValidation, "unsupported token %q", p.Token)
	}

	stake := uint64(math.Round(p.StakeAmount * math.Pow10(info.Decimals)))
	if stake < info.MinimumStake {
		return nil, newError(KindValidation, "Stake too low")
	}

	duelID, err := newDuelID()
	if err != nil {
		return nil, newError(KindInternal, "failed to allocate duel id: %v", err)
	}

	stealth1 := e.stealth.Register(p.Player1Wallet, duelID)
	stealth2 := e.stealth.Register(p.Player2Wallet, duelID)

	now := time.Now()
	expiresAt := now.Add(e.escrowTimeout)

	record := &Record{
		DuelID: duelID,
		Status: StatusPendingStakes,
		Player1: Participant{
			StealthID:   stealth1,
			CharacterID: p.Player1CharacterID,
			Name:        p.Player1Name,
			StakeAmount: stake,
		},
		Player2: Participant{
			StealthID:   stealth2,
			CharacterID: p.Player2CharacterID,
			Name:        p.Player2Name,
			StakeAmount: stake,
		},
		Token:           p.Token,
		HouseFeePercent: e.houseFeePercent,
		Rules:           p.Rules,
		CreatedAt:       now,
		UpdatedAt:       now,
		ExpiresAt:       expiresAt,
	}

	e.records.Set(duelID, record, e.escrowTimeout)

	return &CreateResult{
		DuelID:           duelID,
		Player1StealthID: stealth1,
		Player2StealthID: stealth2,
		StakeAmount:      stake,
		ExpiresAt:        expiresAt,
	}, nil
}
