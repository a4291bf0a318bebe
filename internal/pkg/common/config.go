package common

import (
	"errors"
	"fmt"

	"github.com/duelvault/escrow-core/internal/pkg/base58"
	"github.com/samber/do/v2"
)

var (
	ErrSecretTooShort  = errors.New("secret does not meet minimum length")
	ErrInvalidSeedSize = errors.New("decoded seed is not 32 bytes")
	ErrHousefeeRange   = errors.New("house fee percent out of range")
)

const (
	MinPepperLen    = 32
	MinAPIKeyLen    = 32
	Ed25519SeedSize = 32
)

// Token is a closed-set token symbol tracked by the escrow.
type Token string

const (
	TokenSOL  Token = "SOL"
	TokenUSD1 Token = "USD1"
	TokenRADR Token = "RADR"
)

// TokenInfo holds the static per-token configuration described in spec §6.4:
// decimals, minimum stake, minimum sweepable transfer, and the transfer
// backend's deposit-fee percentage for that token.
type TokenInfo struct {
	Decimals           int
	MinimumStake       uint64
	MinimumTransferOut uint64
	DepositFeePercent  float64
}

// TokenTable is the static configuration table for the three supported
// tokens. It is not derived from process config; it mirrors the fixed table
// the spec describes in §6.4.
var TokenTable = map[Token]TokenInfo{
	TokenSOL: {
		Decimals:           9,
		MinimumStake:       10_000_000,  // 0.01 SOL
		MinimumTransferOut: 100_000_000, // 0.1 SOL
		DepositFeePercent:  0.5,
	},
	TokenUSD1: {
		Decimals:           6,
		MinimumStake:       1_000_000,  // 1 USD1
		MinimumTransferOut: 5_000_000,  // 5 USD1
		DepositFeePercent:  0.25,
	},
	TokenRADR: {
		Decimals:           9,
		MinimumStake:       1_000_000_000, // 1 RADR
		MinimumTransferOut: 5_000_000_000, // 5 RADR
		DepositFeePercent:  1.0,
	},
}

func ResolveToken(raw string) (Token, error) {
	if raw == "" {
		return TokenSOL, nil
	}

	t := Token(raw)
	if _, ok := TokenTable[t]; !ok {
		return "", fmt.Errorf("unsupported token %q", raw)
	}

	return t, nil
}

// Config is the immutable, validated, process-wide configuration loaded
// once at start-up, following the teacher's "one flag per option, EnvVars
// source" pattern in main.go.
type Config struct {
	Port   int
	TmpDir string

	EscrowWalletSeed    []byte
	TreasuryWalletSeed  []byte
	ServerAuthoritySeed []byte

	WalletPepper   []byte
	InternalAPIKey string

	HouseFeePercent     int
	EscrowTimeoutSecond int

	TransferBackendBaseURL string
	LedgerAnchorBaseURL    string

	NetworkTag string
}

// LoadEd25519Seed decodes a base58-encoded Ed25519 seed, matching the
// encoding the spec's §6.4 configuration surface specifies for the three
// signing secrets.
func LoadEd25519Seed(raw string) ([]byte, error) {
	decoded, err := base58.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base58 seed: %w", err)
	}

	if len(decoded) != Ed25519SeedSize {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidSeedSize, len(decoded))
	}

	return decoded, nil
}

func ValidateConfig(c *Config) error {
	if len(c.WalletPepper) < MinPepperLen {
		return fmt.Errorf("%w: WALLET_PEPPER", ErrSecretTooShort)
	}

	if len(c.InternalAPIKey) < MinAPIKeyLen {
		return fmt.Errorf("%w: INTERNAL_API_KEY", ErrSecretTooShort)
	}

	if c.HouseFeePercent < 0 || c.HouseFeePercent > 10 {
		return fmt.Errorf("%w: %d", ErrHousefeeRange, c.HouseFeePercent)
	}

	return nil
}

// NewConfig is the samber/do constructor: it pulls every named CLI value out
// of the injector, decodes the three Ed25519 secrets, validates, and fails
// fast on any problem — per spec §6.4, "all values loaded once at start-up,
// validated, and treated as immutable."
func NewConfig(i do.Injector) (*Config, error) {
	escrowSeed, err := LoadEd25519Seed(do.MustInvokeNamed[string](i, "escrow-wallet-secret"))
	if err != nil {
		return nil, fmt.Errorf("ESCROW_WALLET_SECRET: %w", err)
	}

	treasurySeed, err := LoadEd25519Seed(do.MustInvokeNamed[string](i, "treasury-wallet-secret"))
	if err != nil {
		return nil, fmt.Errorf("TREASURY_WALLET_SECRET: %w", err)
	}

	authoritySeed, err := LoadEd25519Seed(do.MustInvokeNamed[string](i, "server-authority-secret"))
	if err != nil {
		return nil, fmt.Errorf("SERVER_AUTHORITY_SECRET: %w", err)
	}

	cfg := &Config{
		Port:                   do.MustInvokeNamed[int](i, "port"),
		TmpDir:                 do.MustInvokeNamed[string](i, "tmp-dir"),
		EscrowWalletSeed:       escrowSeed,
		TreasuryWalletSeed:     treasurySeed,
		ServerAuthoritySeed:    authoritySeed,
		WalletPepper:           []byte(do.MustInvokeNamed[string](i, "wallet-pepper")),
		InternalAPIKey:         do.MustInvokeNamed[string](i, "internal-api-key"),
		HouseFeePercent:        do.MustInvokeNamed[int](i, "house-fee-percent"),
		EscrowTimeoutSecond:    do.MustInvokeNamed[int](i, "escrow-timeout-seconds"),
		TransferBackendBaseURL: do.MustInvokeNamed[string](i, "transfer-backend-base-url"),
		LedgerAnchorBaseURL:    do.MustInvokeNamed[string](i, "ledger-anchor-base-url"),
		NetworkTag:             do.MustInvokeNamed[string](i, "network-tag"),
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
