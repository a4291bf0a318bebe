package store_test

import (
	"testing"
	"time"

	"github.com/duelvault/escrow-core/internal/pkg/store"
	"github.com/stretchr/testify/assert"
)

func TestSetGetRoundTrip(t *testing.T) {
	t.Parallel()

	s := store.New[string]()
	s.Set("k1", "v1", time.Minute)

	v, ok := s.Get("k1")
	assert.True(t, ok)
	assert.Equal(t, "v1", v)
}

func TestGetExpired(t *testing.T) {
	t.Parallel()

	s := store.New[string]()
	s.Set("k1", "v1", -time.Second)

	_, ok := s.Get("k1")
	assert.False(t, ok)
	assert.Equal(t, int64(1), s.Stats().Expired)
}

func TestSweepRemovesExpiredOnly(t *testing.T) {
	t.Parallel()

	s := store.New[int]()
	s.Set("fresh", 1, time.Minute)
	s.Set("stale", 2, -time.Second)

	swept := s.Sweep()
	assert.Equal(t, 1, swept)
	assert.Equal(t, 1, s.Len())

	_, ok := s.Get("fresh")
	assert.True(t, ok)
}

func TestDustLedgerAccumulatesAndResets(t *testing.T) {
	t.Parallel()

	d := store.NewDustLedger()
	d.Add("SOL", 100)
	d.Add("SOL", 50)

	assert.Equal(t, uint64(150), d.Read("SOL"))

	prev := d.Reset("SOL")
	assert.Equal(t, uint64(150), prev)
	assert.Equal(t, uint64(0), d.Read("SOL"))
}

func TestRecoverySetAddRemoveList(t *testing.T) {
	t.Parallel()

	r := store.NewRecoverySet()
	r.Add("duel-1")
	r.Add("duel-2")

	assert.True(t, r.Contains("duel-1"))
	assert.ElementsMatch(t, []string{"duel-1", "duel-2"}, r.List())

	r.Remove("duel-1")
	assert.False(t, r.Contains("duel-1"))
}

func TestReaperSweepsOnInterval(t *testing.T) {
	t.Parallel()

	s := store.New[int]()
	s.Set("stale", 1, -time.Second)

	sweptCh := make(chan int, 1)
	r := store.NewReaper(s, 10*time.Millisecond, func(swept int) {
		sweptCh <- swept
	})

	r.Start()
	defer r.Stop()

	select {
	case swept := <-sweptCh:
		assert.Equal(t, 1, swept)
	case <-time.After(time.Second):
		t.Fatal("reaper did not sweep in time")
	}
}
