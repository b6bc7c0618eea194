// Package lock guards a working directory against concurrent server
// instances. Individual file operations are not locked; a second server
// pointed at the same directory is refused at startup instead.
package lock

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// ErrLockTimeout is returned when the guard could not be acquired before
// the timeout, usually because another instance holds it.
var ErrLockTimeout = fmt.Errorf("timeout acquiring working directory lock")

const (
	lockFileName = ".text-editor.lock"

	// pollInterval is how often acquisition is retried while waiting.
	pollInterval = 10 * time.Millisecond
)

// Guard is an exclusive OS-level lock on a working directory, held for the
// lifetime of the server process.
type Guard struct {
	flock *flock.Flock
}

// Acquire takes the working directory guard for dir, waiting up to timeout
// for a competing instance to release it.
func Acquire(dir string, timeout time.Duration) (*Guard, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	fl := flock.New(filepath.Join(dir, lockFileName))
	locked, err := fl.TryLockContext(ctx, pollInterval)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrLockTimeout
		}
		return nil, fmt.Errorf("error acquiring working directory lock for %s: %w", dir, err)
	}
	if !locked {
		return nil, ErrLockTimeout
	}
	return &Guard{flock: fl}, nil
}

// Path returns the location of the lock file.
func (g *Guard) Path() string {
	return g.flock.Path()
}

// Release gives up the guard. Safe to call once at shutdown.
func (g *Guard) Release() error {
	if g == nil || g.flock == nil {
		return nil
	}
	return g.flock.Unlock()
}
