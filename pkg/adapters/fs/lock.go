package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// ErrLockTimeout is returned when another writer holds the lock file for longer than the timeout.
var ErrLockTimeout = errors.New("timed out waiting for notes lock")

const lockRetryInterval = 10 * time.Millisecond

// fileLock is a cross-process mutex backed by an O_EXCL lock file.
// Two floatnote processes sharing a notes file serialize their
// read-modify-write cycles through it.
type fileLock struct {
	path    string
	timeout time.Duration // zero waits until ctx is done
	stale   time.Duration // zero never breaks a lock
}

// acquire blocks until the lock file is created by us. It returns the unlock function.
func (l fileLock) acquire(ctx context.Context) (func(), error) {
	var deadline time.Time
	if l.timeout > 0 {
		deadline = time.Now().Add(l.timeout)
	}

	for {
		f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if err == nil {
			_, _ = f.WriteString(strconv.Itoa(os.Getpid()) + "\n")
			f.Close()
			return func() {
				os.Remove(l.path)
			}, nil
		}

		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to acquire lock: %w", err)
		}

		// A crashed writer leaves its lock file behind.
		if l.isStale() {
			os.Remove(l.path)
			continue
		}

		if !deadline.IsZero() && time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryInterval):
		}
	}
}

func (l fileLock) isStale() bool {
	if l.stale <= 0 {
		return false
	}
	info, err := os.Stat(l.path)
	if err != nil {
		return false
	}
	return time.Since(info.ModTime()) > l.stale
}
