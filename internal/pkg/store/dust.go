package store

import "sync"

// DustLedger accumulates per-token sub-minimum house fees until they clear
// the transfer backend's minimum-transfer threshold and can be swept.
type DustLedger struct {
	mu      sync.Mutex
	balance map[string]uint64
}

func NewDustLedger() *DustLedger {
	return &DustLedger{
		balance: make(map[string]uint64),
	}
}

func (d *DustLedger) Add(token string, delta uint64) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.balance[token] += delta

	return d.balance[token]
}

func (d *DustLedger) Read(token string) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.balance[token]
}

// Reset zeroes the counter for token and returns the balance it held
// immediately before the reset, for use as the swept amount.
func (d *DustLedger) Reset(token string) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	prev := d.balance[token]
	d.balance[token] = 0

	return prev
}
