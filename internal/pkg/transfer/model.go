package transfer

// ErrorKind tags the failure modes the transfer backend can return, per
// spec §4.3.
type ErrorKind string

const (
	ErrKindNetwork           ErrorKind = "network"
	ErrKindUnknownWallet     ErrorKind = "unknown-wallet"
	ErrKindInsufficientFunds ErrorKind = "insufficient-balance"
	ErrKindBelowMinimum      ErrorKind = "below-minimum"
	ErrKindInvalidProof      ErrorKind = "invalid-proof"
	ErrKindRateLimit         ErrorKind = "rate-limit"
)

// TransferError is the tagged failure result the client returns instead of
// retrying internally — retry policy belongs to the escrow engine.
type TransferError struct {
	Kind    ErrorKind
	Message string
}

func (e *TransferError) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// Transient reports whether the engine's retry loop should treat this
// error as external-transient (network/rate-limit) per spec §7.
func (e *TransferError) Transient() bool {
	return e.Kind == ErrKindNetwork || e.Kind == ErrKindRateLimit
}

// RangeProof is the opaque output of the local proof generator: amount and
// bit-length go in, a proof blob, commitment blob, and blinding factor come
// out, all hex-encoded. The core never inspects their contents.
type RangeProof struct {
	ProofHex      string
	CommitmentHex string
	BlindingHex   string
}

// InternalTransferRequest is the wire body for POST /zk/internal-transfer.
type InternalTransferRequest struct {
	SenderWallet    string `json:"sender_wallet"`
	RecipientWallet string `json:"recipient_wallet"`
	Token           string `json:"token"`
	Nonce           uint32 `json:"nonce"`
	AmountLamports  uint64 `json:"amount"`
	ProofBytesHex   string `json:"proof_bytes"`
	CommitmentHex   string `json:"commitment"`
	SenderSigB58    string `json:"sender_signature"`
}

type internalTransferResponse struct {
	Success     bool   `json:"success"`
	TxSignature string `json:"tx_signature,omitempty"`
	Error       string `json:"error,omitempty"`
	Message     string `json:"message,omitempty"`
}

type balanceResponse struct {
	Available *uint64 `json:"available,omitempty"`
	Balance   *uint64 `json:"balance,omitempty"`
}
