package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/footprint-tools/switchboard/internal/domain"
)

// CooldownStart is one call to Cooldowns.Start.
type CooldownStart struct {
	Kind    domain.CooldownKind
	Command string
	Caller  domain.CallerID
	Policy  domain.CooldownPolicy
}

// Cooldowns is a CooldownService answering from a fixed table.
type Cooldowns struct {
	mu        sync.Mutex
	remaining map[string]time.Duration
	started   []CooldownStart
}

// NewCooldowns creates an empty cooldown table.
func NewCooldowns() *Cooldowns {
	return &Cooldowns{remaining: make(map[string]time.Duration)}
}

func cooldownKey(kind domain.CooldownKind, command string, caller domain.CallerID) string {
	return kind.String() + "|" + command + "|" + string(caller)
}

// Set makes Remaining report d.
func (c *Cooldowns) Set(kind domain.CooldownKind, command string, caller domain.CallerID, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remaining[cooldownKey(kind, command, caller)] = d
}

func (c *Cooldowns) Remaining(_ context.Context, kind domain.CooldownKind, command string, caller domain.CallerID) (time.Duration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining[cooldownKey(kind, command, caller)], nil
}

func (c *Cooldowns) Start(_ context.Context, kind domain.CooldownKind, command string, caller domain.CallerID, policy domain.CooldownPolicy) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.started = append(c.started, CooldownStart{Kind: kind, Command: command, Caller: caller, Policy: policy})
	return nil
}

func (c *Cooldowns) Reset(_ context.Context, caller domain.CallerID) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	suffix := "|" + string(caller)
	for k := range c.remaining {
		if len(k) >= len(suffix) && k[len(k)-len(suffix):] == suffix {
			delete(c.remaining, k)
			n++
		}
	}
	return n, nil
}

// Started returns every Start call.
func (c *Cooldowns) Started() []CooldownStart {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]CooldownStart(nil), c.started...)
}

// Recorder keeps command records in memory.
type Recorder struct {
	mu      sync.Mutex
	records []domain.CommandRecord
}

func (r *Recorder) Record(_ context.Context, rec domain.CommandRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return nil
}

// Records returns a copy of the records.
func (r *Recorder) Records() []domain.CommandRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.CommandRecord(nil), r.records...)
}

var (
	_ domain.CooldownService = (*Cooldowns)(nil)
	_ domain.CommandRecorder = (*Recorder)(nil)
)
