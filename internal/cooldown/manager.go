// Package cooldown tracks general and isolated per-command cooldowns.
//
// A general cooldown always lasts its policy's duration. An isolated
// cooldown compounds: retriggering it before its window closes (one more
// duration past expiry) multiplies the previous duration, capped at the
// policy maximum. Outside the window it starts over at the base duration.
package cooldown

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/footprint-tools/switchboard/internal/domain"
	"github.com/footprint-tools/switchboard/internal/log"
	"github.com/footprint-tools/switchboard/internal/store"
)

// DefaultMultiplier applies when an isolated policy leaves Multiplier unset.
const DefaultMultiplier = 2.0

// Persister stores cooldowns across restarts.
type Persister interface {
	Save(ctx context.Context, r store.CooldownRow) error
	DeleteCaller(ctx context.Context, caller domain.CallerID) (int64, error)
	DeleteStale(ctx context.Context, cutoff time.Time) (int64, error)
	Load(ctx context.Context, cutoff time.Time) ([]store.CooldownRow, error)
}

type key struct {
	kind    domain.CooldownKind
	command string
	caller  domain.CallerID
}

type entry struct {
	started  time.Time
	duration time.Duration
}

func (e entry) expires() time.Time   { return e.started.Add(e.duration) }
func (e entry) windowEnd() time.Time { return e.started.Add(2 * e.duration) }

// Manager is an in-memory domain.CooldownService with optional persistence.
type Manager struct {
	mu      sync.Mutex
	entries map[key]entry

	persist Persister
	now     func() time.Time
	logger  domain.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithPersister writes every start and reset through p.
func WithPersister(p Persister) Option {
	return func(m *Manager) { m.persist = p }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithLogger sets the logger.
func WithLogger(l domain.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// New creates a Manager.
func New(opts ...Option) *Manager {
	m := &Manager{
		entries: make(map[key]entry),
		now:     time.Now,
		logger:  log.NopLogger{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Restore loads persisted cooldowns whose window is still open.
func (m *Manager) Restore(ctx context.Context) (int, error) {
	if m.persist == nil {
		return 0, nil
	}
	rows, err := m.persist.Load(ctx, m.now())
	if err != nil {
		return 0, fmt.Errorf("load cooldowns: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range rows {
		m.entries[key{r.Kind, r.Command, r.Caller}] = entry{started: r.Started, duration: r.Duration}
	}
	m.logger.Debug("cooldown: restored %d entries", len(rows))
	return len(rows), nil
}

// Remaining returns how long caller must still wait, zero if none.
func (m *Manager) Remaining(_ context.Context, kind domain.CooldownKind, command string, caller domain.CallerID) (time.Duration, error) {
	m.mu.Lock()
	e, ok := m.entries[key{kind, command, caller}]
	m.mu.Unlock()
	if !ok {
		return 0, nil
	}
	if left := e.expires().Sub(m.now()); left > 0 {
		return left, nil
	}
	return 0, nil
}

// Start begins the cooldown, compounding isolated ones retriggered inside
// their window. A disabled policy is a no-op.
func (m *Manager) Start(ctx context.Context, kind domain.CooldownKind, command string, caller domain.CallerID, policy domain.CooldownPolicy) error {
	if !policy.Enabled() {
		return nil
	}
	now := m.now()
	k := key{kind, command, caller}

	m.mu.Lock()
	d := policy.Duration
	if prev, ok := m.entries[k]; ok && kind == domain.CooldownIsolated && now.Before(prev.windowEnd()) {
		d = Compound(prev.duration, policy)
	}
	e := entry{started: now, duration: d}
	m.entries[k] = e
	m.mu.Unlock()

	m.logger.Debug("cooldown: %s %q for %s: %s", kind, command, caller, d)

	if m.persist == nil {
		return nil
	}
	err := m.persist.Save(ctx, store.CooldownRow{
		Kind: kind, Command: command, Caller: caller,
		Started: e.started, Duration: e.duration,
	})
	if err != nil {
		return fmt.Errorf("persist cooldown: %w", err)
	}
	return nil
}

// Compound returns the duration following prev for an isolated policy:
// prev times the multiplier, never below the base duration nor above Max
// (when set).
func Compound(prev time.Duration, policy domain.CooldownPolicy) time.Duration {
	mult := policy.Multiplier
	if mult <= 0 {
		mult = DefaultMultiplier
	}
	next := time.Duration(float64(prev) * mult)
	if next < policy.Duration {
		next = policy.Duration
	}
	if policy.Max > 0 && next > policy.Max {
		next = policy.Max
	}
	return next
}

// Reset clears every cooldown of caller and reports how many were active.
func (m *Manager) Reset(ctx context.Context, caller domain.CallerID) (int, error) {
	now := m.now()

	m.mu.Lock()
	active := 0
	for k, e := range m.entries {
		if k.caller != caller {
			continue
		}
		if e.expires().After(now) {
			active++
		}
		delete(m.entries, k)
	}
	m.mu.Unlock()

	if m.persist != nil {
		if _, err := m.persist.DeleteCaller(ctx, caller); err != nil {
			return active, fmt.Errorf("delete cooldowns: %w", err)
		}
	}
	return active, nil
}

// Sweep drops entries whose window has closed and returns how many.
func (m *Manager) Sweep(ctx context.Context) int {
	now := m.now()

	m.mu.Lock()
	n := 0
	for k, e := range m.entries {
		if !now.Before(e.windowEnd()) {
			delete(m.entries, k)
			n++
		}
	}
	m.mu.Unlock()

	if m.persist != nil {
		if _, err := m.persist.DeleteStale(ctx, now); err != nil {
			m.logger.Warn("cooldown: sweep persisted entries: %v", err)
		}
	}
	return n
}

// Len returns the number of tracked entries.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Run sweeps every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(ctx); n > 0 {
				m.logger.Debug("cooldown: swept %d entries", n)
			}
		}
	}
}

var _ domain.CooldownService = (*Manager)(nil)
