package api

import (
	"fmt"

	"github.com/duelvault/escrow-core/internal/pkg/common"
)

// Validation rules enumerated in spec §6.1.
const (
	minWalletLen = 32
	maxWalletLen = 44
	duelIDLen    = 32
	maxNameLen   = 32
)

func validateWallet(wallet string) error {
	if len(wallet) < minWalletLen || len(wallet) > maxWalletLen {
		return fmt.Errorf("wallet must be between %d and %d characters", minWalletLen, maxWalletLen)
	}

	return nil
}

func validateDuelID(duelID string) error {
	if len(duelID) != duelIDLen {
		return fmt.Errorf("duel id must be exactly %d characters", duelIDLen)
	}

	return nil
}

func validateCharacterID(characterID string) error {
	if characterID == "" {
		return fmt.Errorf("character id must not be empty")
	}

	return nil
}

func validateName(name string) error {
	if len(name) < 1 || len(name) > maxNameLen {
		return fmt.Errorf("name must be between 1 and %d characters", maxNameLen)
	}

	return nil
}

func validateToken(raw string) (common.Token, error) {
	token, err := common.ResolveToken(raw)
	if err != nil {
		return "", fmt.Errorf("unsupported token: %w", err)
	}

	return token, nil
}

func validateCreateRequest(req createRequest) error {
	if err := validateWallet(req.Player1Wallet); err != nil {
		return fmt.Errorf("player1Wallet: %w", err)
	}

	if err := validateWallet(req.Player2Wallet); err != nil {
		return fmt.Errorf("player2Wallet: %w", err)
	}

	if err := validateCharacterID(req.Player1CharacterID); err != nil {
		return fmt.Errorf("player1CharacterId: %w", err)
	}

	if err := validateCharacterID(req.Player2CharacterID); err != nil {
		return fmt.Errorf("player2CharacterId: %w", err)
	}

	if err := validateName(req.Player1Name); err != nil {
		return fmt.Errorf("player1Name: %w", err)
	}

	if err := validateName(req.Player2Name); err != nil {
		return fmt.Errorf("player2Name: %w", err)
	}

	if req.StakeAmount <= 0 {
		return fmt.Errorf("stakeAmount must be positive")
	}

	return nil
}
