// ABOUTME: Exclusive run lock scoped to the cache directory.
// ABOUTME: Prevents overlapping scheduled invocations from racing on shared state.
package cache

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked means another invocation currently holds the run lock. Callers
// treat this as a benign no-op, not a failure.
var ErrLocked = errors.New("another run holds the cache lock")

// TryLock acquires the cache directory's run lock without blocking. On
// success it returns a release function; if the lock is already held it
// returns ErrLocked.
func (s *Store) TryLock() (func(), error) {
	fl := flock.New(filepath.Join(s.dir, lockFile))
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire run lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}
	return func() { _ = fl.Unlock() }, nil
}
