package service

import "sync"

// LedgerLock serializes every mutation and its derived-state updates.
// All services performing writes share one instance so a transaction
// write and its budget reconciliation are never interleaved with
// another mutation.
type LedgerLock struct {
	mu sync.Mutex
}

// NewLedgerLock creates a new LedgerLock
func NewLedgerLock() *LedgerLock {
	return &LedgerLock{}
}

// Lock acquires the ledger lock
func (l *LedgerLock) Lock() {
	l.mu.Lock()
}

// Unlock releases the ledger lock
func (l *LedgerLock) Unlock() {
	l.mu.Unlock()
}
