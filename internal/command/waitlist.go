package command

import (
	"sync"

	"github.com/footprint-tools/switchboard/internal/domain"
)

// Waiter is a pending wait task registered on a descriptor.
type Waiter interface {
	// Target returns the caller the waiter is restricted to, if any.
	Target() (domain.CallerID, bool)
	BlockOriginal() bool
	AbortOnOtherCommand() bool

	// Execute completes the waiter as executed. invocation lazily yields
	// the context of the command that satisfied it.
	Execute(invocation func() *Context) bool
	Abort() bool
	Disconnect() bool
}

// WaiterMatches reports whether w is satisfied by caller running its command.
// Waiters without a target match anyone.
func WaiterMatches(w Waiter, caller domain.CallerID) bool {
	target, ok := w.Target()
	return !ok || target == caller
}

// WaitList is the lock-guarded list of waiters pending on one descriptor.
type WaitList struct {
	mu    sync.Mutex
	items []Waiter
}

// Add registers w.
func (l *WaitList) Add(w Waiter) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, w)
}

// Remove deregisters w and reports whether it was present.
func (l *WaitList) Remove(w Waiter) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, item := range l.items {
		if item == w {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of pending waiters.
func (l *WaitList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Contains reports whether w is pending.
func (l *WaitList) Contains(w Waiter) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, item := range l.items {
		if item == w {
			return true
		}
	}
	return false
}

// Extract removes and returns every waiter for which match is true. Callers
// complete the returned waiters after the lock is released.
func (l *WaitList) Extract(match func(Waiter) bool) []Waiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []Waiter
	kept := l.items[:0]
	for _, item := range l.items {
		if match(item) {
			out = append(out, item)
		} else {
			kept = append(kept, item)
		}
	}
	for i := len(kept); i < len(l.items); i++ {
		l.items[i] = nil
	}
	l.items = kept
	return out
}
