// Package storage provides the advisory lock that makes the
// one-session-at-a-time assumption explicit. The store itself has no
// locking primitive; a second interactive session is refused up front
// instead of silently racing on last-write-wins.
package storage

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another session already holds the data
// directory lock.
var ErrLocked = errors.New("data directory is locked by another session")

// DirLock is a whole-data-directory advisory lock, held for the lifetime
// of a session.
type DirLock struct {
	fl *flock.Flock
}

// Acquire takes the lock on dataDir without blocking. It fails with
// ErrLocked when another process holds it.
func Acquire(dataDir string) (*DirLock, error) {
	fl := flock.New(filepath.Join(dataDir, ".taskboard.lock"))
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire data directory lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}
	return &DirLock{fl: fl}, nil
}

// Release drops the lock. Safe to call on a nil receiver.
func (l *DirLock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}
