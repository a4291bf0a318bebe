package stealth_test

import (
	"strings"
	"testing"

	"github.com/duelvault/escrow-core/internal/pkg/stealth"
	"github.com/stretchr/testify/assert"
)

const testPepper = "0123456789abcdef0123456789abcdef"

func TestGenerateDeterministic(t *testing.T) {
	t.Parallel()

	svc := stealth.New([]byte(testPepper))

	a := svc.Generate("wallet-one")
	b := svc.Generate("wallet-one")

	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	svc := stealth.New([]byte(testPepper))

	id := svc.Generate("wallet-one")

	assert.True(t, svc.Verify("wallet-one", id))
	assert.False(t, svc.Verify("wallet-two", id))
}

func TestRegisterResolveUnregister(t *testing.T) {
	t.Parallel()

	svc := stealth.New([]byte(testPepper))

	id := svc.Register("wallet-one", "duel-1")

	wallet, ok := svc.Resolve(id)
	assert.True(t, ok)
	assert.Equal(t, "wallet-one", wallet)

	svc.Unregister(id)

	_, ok = svc.Resolve(id)
	assert.False(t, ok)
}

func TestResolveUnknown(t *testing.T) {
	t.Parallel()

	svc := stealth.New([]byte(testPepper))

	_, ok := svc.Resolve("deadbeef")
	assert.False(t, ok)
}

func TestMask(t *testing.T) {
	t.Parallel()

	masked := stealth.Mask("Abcdefghijklmnopqrstuvwxyz")
	assert.True(t, strings.HasPrefix(masked, "Abcd"))
	assert.True(t, strings.HasSuffix(masked, "wxyz"))
	assert.Contains(t, masked, "...")
}
