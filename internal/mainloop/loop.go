// Package mainloop runs state-mutating work on one goroutine, one job at a
// time.
package mainloop

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/footprint-tools/switchboard/internal/domain"
	"github.com/footprint-tools/switchboard/internal/log"
)

// ErrStopped is returned by Do once the loop has stopped.
var ErrStopped = errors.New("mainloop: stopped")

type job struct {
	fn   func()
	done chan error
}

// Loop is the main execution context. Jobs must not call Do themselves.
type Loop struct {
	jobs    chan job
	stopped chan struct{}
	logger  domain.Logger
}

// New creates a loop with room for backlog queued jobs.
func New(backlog int, logger domain.Logger) *Loop {
	if logger == nil {
		logger = log.NopLogger{}
	}
	return &Loop{
		jobs:    make(chan job, backlog),
		stopped: make(chan struct{}),
		logger:  logger,
	}
}

// Run processes jobs until ctx is done. Queued jobs that never ran fail
// with ErrStopped.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.stopped)
	for {
		select {
		case <-ctx.Done():
			l.drain()
			return
		case j := <-l.jobs:
			j.done <- l.run(j.fn)
		}
	}
}

func (l *Loop) drain() {
	for {
		select {
		case j := <-l.jobs:
			j.done <- ErrStopped
		default:
			return
		}
	}
}

func (l *Loop) run(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("mainloop: job panicked: %v\n%s", r, debug.Stack())
			err = fmt.Errorf("mainloop: job panicked: %v", r)
		}
	}()
	fn()
	return nil
}

// Do queues fn and waits until it has run. It gives up when ctx is done
// before fn starts; a started fn always runs to completion.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	j := job{fn: fn, done: make(chan error, 1)}

	select {
	case <-l.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	case l.jobs <- j:
	}

	select {
	case err := <-j.done:
		return err
	case <-l.stopped:
		// Run may have finished j just before stopping.
		select {
		case err := <-j.done:
			return err
		default:
			return ErrStopped
		}
	}
}

var _ domain.MainExecutor = (*Loop)(nil)
