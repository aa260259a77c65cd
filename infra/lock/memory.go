package lock

import (
	"context"
	"sync"
)

// MemoryAdvisory is an in-process Advisory for tests and single-instance runs.
type MemoryAdvisory struct {
	mu   sync.Mutex
	held bool
}

// NewMemoryAdvisory creates an unheld in-process lock.
func NewMemoryAdvisory() *MemoryAdvisory {
	return &MemoryAdvisory{}
}

func (l *MemoryAdvisory) TryAcquire(_ context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held {
		return false, nil
	}
	l.held = true
	return true, nil
}

func (l *MemoryAdvisory) Release(_ context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.held = false
	return nil
}
