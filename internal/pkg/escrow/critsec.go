package escrow

import "sync"

// critSection gives every duel id its own lock, lazily created, so distinct
// duels never contend while a single duel id is fully serialised — the
// concurrency discipline spec §4.5.8 calls for. Grounded on the same
// map-guarded-by-a-mutex shape as store.Store, specialised here to hand out
// *sync.Mutex instead of values.
type critSection struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newCritSection() *critSection {
	return &critSection{locks: make(map[string]*sync.Mutex)}
}

// lock blocks until duelID's section is free, then returns an unlock func.
// The per-duel mutex is never removed from the map, not even after the
// store evicts the duel, so the map keeps one mutex per duel id ever
// created for the process lifetime — an accepted tradeoff for not needing
// reference counting.
func (c *critSection) lock(duelID string) func() {
	c.mu.Lock()
	m, ok := c.locks[duelID]
	if !ok {
		m = &sync.Mutex{}
		c.locks[duelID] = m
	}
	c.mu.Unlock()

	m.Lock()

	return m.Unlock
}
