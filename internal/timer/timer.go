// Package timer arms the one-shot timers behind wait-task timeouts.
package timer

import (
	"sync/atomic"
	"time"

	"github.com/footprint-tools/switchboard/internal/domain"
)

// Factory arms timers on the runtime's timer heap and counts the ones still
// pending.
type Factory struct {
	pending atomic.Int64
}

// New creates a Factory.
func New() *Factory {
	return &Factory{}
}

// AfterFunc runs fn in its own goroutine once d has elapsed, unless the
// returned timer is stopped first.
func (f *Factory) AfterFunc(d time.Duration, fn func()) domain.Timer {
	t := &armed{factory: f}
	f.pending.Add(1)
	t.timer = time.AfterFunc(d, func() {
		if t.settle() {
			fn()
		}
	})
	return t
}

// Pending returns how many timers have neither fired nor been stopped.
func (f *Factory) Pending() int {
	return int(f.pending.Load())
}

type armed struct {
	factory *Factory
	timer   *time.Timer
	done    atomic.Bool
}

// settle marks the timer finished exactly once.
func (t *armed) settle() bool {
	if !t.done.CompareAndSwap(false, true) {
		return false
	}
	t.factory.pending.Add(-1)
	return true
}

func (t *armed) Stop() bool {
	if !t.timer.Stop() {
		return false
	}
	return t.settle()
}

var _ domain.TimerFactory = (*Factory)(nil)
