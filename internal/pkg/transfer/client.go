// Package transfer is the outbound client to the ZK transfer backend (C3):
// balance query, internal transfer with proof, and intent signing. The core
// never verifies proofs itself — it is a client of an external service, per
// spec §1.
package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

const signatureScheme = "zkshielded-v1"

// Client wraps a resty.Client pointed at the ZK transfer backend base URL,
// grounded on the go-resty/resty/v2 dependency the teacher's sibling
// storage-worker/metadata-worker services declare for exactly this kind of
// outbound call.
type Client struct {
	http *resty.Client

	Escrow   *Keypair
	Treasury *Keypair

	Proofs ProofGenerator
}

func NewClient(baseURL string, requestTimeout time.Duration, escrow, treasury *Keypair) *Client {
	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(requestTimeout).
		SetRetryCount(0) // retry policy belongs to the escrow engine, not the client

	return &Client{
		http:     http,
		Escrow:   escrow,
		Treasury: treasury,
		Proofs:   NewLocalProofGenerator(),
	}
}

// GetBalance queries the shielded pool balance for wallet/token.
func (c *Client) GetBalance(ctx context.Context, wallet, token string) (uint64, error) {
	var body balanceResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&body).
		Get(fmt.Sprintf("/pool/balance/%s?token=%s", wallet, token))
	if err != nil {
		return 0, &TransferError{Kind: ErrKindNetwork, Message: err.Error()}
	}

	if resp.IsError() {
		return 0, &TransferError{Kind: ErrKindUnknownWallet, Message: resp.String()}
	}

	switch {
	case body.Available != nil:
		return *body.Available, nil
	case body.Balance != nil:
		return *body.Balance, nil
	default:
		return 0, &TransferError{Kind: ErrKindUnknownWallet, Message: "no balance field in response"}
	}
}

// InternalTransferParams bundles the inputs to InternalTransfer. Nonce is
// threaded in (rather than generated per-call) so the same nonce can be
// reused across the escrow engine's retry attempts, letting the backend
// deduplicate — the idempotency fix called for as an open question in
// spec §9.
type InternalTransferParams struct {
	SenderWallet    string
	RecipientWallet string
	Token           string
	AmountLamports  uint64
	Nonce           string // UUID, carried across retries by the caller
	TransferType    string // "settlement", "refund", "treasury", "dust-sweep", "emergency-refund"
	Signer          *Keypair
}

// InternalTransfer moves value inside the shielded pool. It never retries —
// retry policy is the escrow engine's (spec §4.3).
func (c *Client) InternalTransfer(ctx context.Context, p InternalTransferParams) (string, error) {
	proof, err := c.Proofs.Generate(p.AmountLamports, RangeProofBits)
	if err != nil {
		return "", fmt.Errorf("failed to generate range proof: %w", err)
	}

	signature := p.Signer.SignIntent(signatureScheme, p.TransferType, p.Nonce, time.Now())

	nonce32 := nonceToUint32(p.Nonce)

	reqBody := InternalTransferRequest{
		SenderWallet:    p.SenderWallet,
		RecipientWallet: p.RecipientWallet,
		Token:           p.Token,
		Nonce:           nonce32,
		AmountLamports:  p.AmountLamports,
		ProofBytesHex:   proof.ProofHex,
		CommitmentHex:   proof.CommitmentHex,
		SenderSigB58:    signature,
	}

	var body internalTransferResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&body).
		Post("/zk/internal-transfer")
	if err != nil {
		return "", &TransferError{Kind: ErrKindNetwork, Message: err.Error()}
	}

	if resp.StatusCode() == 429 {
		return "", &TransferError{Kind: ErrKindRateLimit, Message: "rate limited by transfer backend"}
	}

	if resp.IsError() || !body.Success {
		return "", classifyFailure(body)
	}

	return body.TxSignature, nil
}

func classifyFailure(body internalTransferResponse) *TransferError {
	msg := body.Error
	if msg == "" {
		msg = body.Message
	}

	switch msg {
	case "insufficient-balance":
		return &TransferError{Kind: ErrKindInsufficientFunds, Message: msg}
	case "below-minimum":
		return &TransferError{Kind: ErrKindBelowMinimum, Message: msg}
	case "invalid-proof":
		return &TransferError{Kind: ErrKindInvalidProof, Message: msg}
	default:
		return &TransferError{Kind: ErrKindNetwork, Message: msg}
	}
}

// NewNonce mints the per-settle-call idempotency nonce.
func NewNonce() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	return id.String(), nil
}

// nonceToUint32 folds a UUID-string nonce into the 32-bit wire nonce the
// transfer backend expects, deterministically, so the same logical nonce
// always produces the same wire value across retries.
func nonceToUint32(nonce string) uint32 {
	return fnv32(nonce)
}

func fnv32(s string) uint32 {
	const (
		offset32 = 2166136261
		prime32  = 16777619
	)

	hash := uint32(offset32)
	for i := 0; i < len(s); i++ {
		hash ^= uint32(s[i])
		hash *= prime32
	}

	return hash
}
