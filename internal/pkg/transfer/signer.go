package transfer

import (
	"crypto/ed25519"
	"fmt"
	"time"

	"github.com/duelvault/escrow-core/internal/pkg/base58"
)

// Keypair wraps an Ed25519 signing key loaded from a base58 seed at
// process start-up. The core owns two of these (escrow, treasury); the
// accountability component owns a third (server authority).
type Keypair struct {
	public  ed25519.PublicKey
	private ed25519.PrivateKey
}

func NewKeypair(seed []byte) (*Keypair, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("invalid ed25519 seed size %d", len(seed))
	}

	priv := ed25519.NewKeyFromSeed(seed)

	return &Keypair{
		public:  priv.Public().(ed25519.PublicKey),
		private: priv,
	}, nil
}

func (k *Keypair) WalletAddress() string {
	return base58.Encode(k.public)
}

// SignIntent signs the detached intent string
// "<scheme>:<transfer-type>:<uuid-nonce>:<unix-seconds>" per spec §4.3 and
// returns the base58-encoded signature.
func (k *Keypair) SignIntent(scheme, transferType, nonce string, at time.Time) string {
	message := fmt.Sprintf("%s:%s:%s:%d", scheme, transferType, nonce, at.Unix())
	sig := ed25519.Sign(k.private, []byte(message))

	return base58.Encode(sig)
}

// Sign signs an arbitrary payload (used by the accountability component to
// sign the ledger-anchor memo instruction) and returns base58.
func (k *Keypair) Sign(payload []byte) string {
	sig := ed25519.Sign(k.private, payload)

	return base58.Encode(sig)
}
