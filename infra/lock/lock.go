// Package lock provides the cross-process mutex guarding the recurring sweep
// so multiple server instances do not materialize the same occurrences twice.
package lock

import "context"

// Advisory is a non-blocking, cross-process try-lock.
type Advisory interface {
	// TryAcquire attempts to take the lock without waiting. It returns false
	// when another holder has it.
	TryAcquire(ctx context.Context) (bool, error)

	// Release gives the lock back. Releasing an unheld lock is a no-op.
	Release(ctx context.Context) error
}
