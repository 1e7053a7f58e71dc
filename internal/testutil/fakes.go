package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/footprint-tools/switchboard/internal/domain"
)

// CountingChecker grants the leaves in Allowed and counts every lookup.
type CountingChecker struct {
	mu      sync.Mutex
	Allowed map[domain.PermissionLeaf]bool
	Checked []domain.PermissionLeaf
}

// NewCountingChecker grants the given leaves.
func NewCountingChecker(allowed ...domain.PermissionLeaf) *CountingChecker {
	c := &CountingChecker{Allowed: make(map[domain.PermissionLeaf]bool)}
	for _, l := range allowed {
		c.Allowed[l] = true
	}
	return c
}

// HasPermission records the lookup.
func (c *CountingChecker) HasPermission(_ context.Context, _ domain.Caller, leaf domain.PermissionLeaf) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Checked = append(c.Checked, leaf)
	return c.Allowed[leaf], nil
}

// Count returns the number of lookups.
func (c *CountingChecker) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Checked)
}

// ManualTimers is a TimerFactory whose timers fire only when told to.
type ManualTimers struct {
	mu     sync.Mutex
	timers []*ManualTimer
}

// ManualTimer is a timer armed by ManualTimers.
type ManualTimer struct {
	D       time.Duration
	fn      func()
	mu      sync.Mutex
	stopped bool
	fired   bool
}

// AfterFunc arms a timer that never fires on its own.
func (m *ManualTimers) AfterFunc(d time.Duration, fn func()) domain.Timer {
	t := &ManualTimer{D: d, fn: fn}
	m.mu.Lock()
	m.timers = append(m.timers, t)
	m.mu.Unlock()
	return t
}

// Armed returns every timer created so far.
func (m *ManualTimers) Armed() []*ManualTimer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*ManualTimer(nil), m.timers...)
}

// FireAll fires every timer that is still armed.
func (m *ManualTimers) FireAll() {
	for _, t := range m.Armed() {
		t.Fire()
	}
}

// Stop disarms the timer.
func (t *ManualTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Stopped reports whether Stop disarmed the timer.
func (t *ManualTimer) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// Fire runs the callback unless the timer was stopped or already fired.
func (t *ManualTimer) Fire() {
	t.mu.Lock()
	if t.stopped || t.fired {
		t.mu.Unlock()
		return
	}
	t.fired = true
	t.mu.Unlock()
	t.fn()
}

// RecordingLogger keeps formatted log lines.
type RecordingLogger struct {
	mu    sync.Mutex
	Lines []string
}

func (l *RecordingLogger) record(level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Lines = append(l.Lines, level+": "+fmt.Sprintf(format, args...))
}

func (l *RecordingLogger) Debug(format string, args ...any) { l.record("DEBUG", format, args...) }
func (l *RecordingLogger) Info(format string, args ...any)  { l.record("INFO", format, args...) }
func (l *RecordingLogger) Warn(format string, args ...any)  { l.record("WARN", format, args...) }
func (l *RecordingLogger) Error(format string, args ...any) { l.record("ERROR", format, args...) }
func (l *RecordingLogger) Close() error                     { return nil }

// Snapshot returns a copy of the recorded lines.
func (l *RecordingLogger) Snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.Lines...)
}

// Sessions is an in-memory SessionDirectory.
type Sessions struct {
	mu        sync.Mutex
	online    map[domain.CallerID]domain.Caller
	listeners map[int]func(domain.CallerID)
	next      int
}

// NewSessions creates a directory with the given callers online.
func NewSessions(callers ...domain.Caller) *Sessions {
	s := &Sessions{
		online:    make(map[domain.CallerID]domain.Caller),
		listeners: make(map[int]func(domain.CallerID)),
	}
	for _, c := range callers {
		s.online[c.ID()] = c
	}
	return s
}

func (s *Sessions) Online(id domain.CallerID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.online[id]
	return ok
}

func (s *Sessions) Lookup(id domain.CallerID) (domain.Caller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.online[id]
	return c, ok
}

func (s *Sessions) All() []domain.Caller {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Caller, 0, len(s.online))
	for _, c := range s.online {
		out = append(out, c)
	}
	return out
}

func (s *Sessions) OnDisconnect(fn func(domain.CallerID)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Connect marks c online.
func (s *Sessions) Connect(c domain.Caller) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.online[c.ID()] = c
}

// Disconnect marks id offline and notifies listeners.
func (s *Sessions) Disconnect(id domain.CallerID) {
	s.mu.Lock()
	delete(s.online, id)
	fns := make([]func(domain.CallerID), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(id)
	}
}

var (
	_ domain.TimerFactory      = (*ManualTimers)(nil)
	_ domain.PermissionChecker = (*CountingChecker)(nil)
	_ domain.Logger            = (*RecordingLogger)(nil)
	_ domain.SessionDirectory  = (*Sessions)(nil)
)
