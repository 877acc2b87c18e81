// Package runlock serializes prep operations on a data directory. Two
// concurrent invocations would race on the same output files; the lock turns
// the second one into an immediate, explicit failure.
package runlock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrHeld indicates another ocrprep process holds the lock.
var ErrHeld = errors.New("another ocrprep run is already in progress")

// Lock guards a data directory against concurrent prep runs.
type Lock struct {
	flock *flock.Flock
	path  string
}

// Acquire takes a non-blocking exclusive lock inside dataDir.
func Acquire(dataDir string) (*Lock, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	path := filepath.Join(dataDir, ".ocrprep.lock")
	fl := flock.New(path)

	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock: %s)", ErrHeld, path)
	}
	return &Lock{flock: fl, path: path}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// Release drops the lock. Safe to call on a nil lock.
func (l *Lock) Release() error {
	if l == nil || l.flock == nil {
		return nil
	}
	return l.flock.Unlock()
}
