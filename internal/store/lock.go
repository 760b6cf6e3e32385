package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// bundleLock provides cross-process exclusive locking around a named
// bundle directory, preventing two build processes from writing the same
// bundle concurrently. The lock file lives beside the bundle directory,
// at <dir>.lock, so replacing the directory never removes a held lock.
type bundleLock struct {
	path   string
	flock  *flock.Flock
	locked bool
}

func newBundleLock(dir string) *bundleLock {
	lockPath := dir + ".lock"
	return &bundleLock{path: lockPath, flock: flock.New(lockPath)}
}

// Lock acquires an exclusive lock, blocking until it is available.
func (l *bundleLock) Lock() error {
	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}

	if err := l.flock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire bundle lock: %w", err)
	}
	l.locked = true
	return nil
}

// Unlock releases the lock. Safe to call on an unlocked lock.
func (l *bundleLock) Unlock() error {
	if !l.locked {
		return nil
	}
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release bundle lock: %w", err)
	}
	l.locked = false
	return nil
}
