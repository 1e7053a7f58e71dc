package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// ErrLockTimeout is returned when another writer holds the config lock for
// longer than lockWait.
var ErrLockTimeout = errors.New("config: lock timeout")

const (
	lockWait  = 5 * time.Second
	lockPoll  = 50 * time.Millisecond
	lockStale = 30 * time.Second
)

// fileLock is an advisory lock held by creating path exclusively. A lock
// file older than lockStale is assumed to belong to a crashed writer.
type fileLock struct {
	path string
}

func lockFor(configPath string) fileLock {
	return fileLock{path: configPath + ".lock"}
}

func (l fileLock) acquire(ctx context.Context) (func(), error) {
	ticker := time.NewTicker(lockPoll)
	defer ticker.Stop()

	for {
		f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
		if err == nil {
			_, _ = f.WriteString(strconv.Itoa(os.Getpid()))
			_ = f.Close()
			return func() { _ = os.Remove(l.path) }, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, err
		}
		if info, statErr := os.Stat(l.path); statErr == nil && time.Since(info.ModTime()) > lockStale {
			_ = os.Remove(l.path)
			continue
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, l.path)
		case <-ticker.C:
		}
	}
}
