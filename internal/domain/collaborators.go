package domain

import (
	"context"
	"time"

	"golang.org/x/text/language"
)

// PermissionLeaf is an atomic named permission, such as "kit.give".
type PermissionLeaf string

// PermissionChecker answers whether a caller holds a leaf.
type PermissionChecker interface {
	HasPermission(ctx context.Context, caller Caller, leaf PermissionLeaf) (bool, error)
}

// PermissionStore manages stored grants.
type PermissionStore interface {
	PermissionChecker

	// Grant gives leaf to subject. Granting twice is not an error.
	Grant(ctx context.Context, subject CallerID, leaf PermissionLeaf) error

	// Revoke removes leaf from subject and reports whether it was present.
	Revoke(ctx context.Context, subject CallerID, leaf PermissionLeaf) (bool, error)

	// List returns the leaves granted to subject, sorted.
	List(ctx context.Context, subject CallerID) ([]PermissionLeaf, error)
}

// CooldownKind selects which cooldown a query or start applies to.
type CooldownKind int

const (
	// CooldownGeneral is the fixed per-command cooldown.
	CooldownGeneral CooldownKind = iota
	// CooldownIsolated compounds by a multiplier when retriggered early.
	CooldownIsolated
)

// String returns the storage name of the kind.
func (k CooldownKind) String() string {
	if k == CooldownIsolated {
		return "isolated"
	}
	return "general"
}

// CooldownPolicy configures a cooldown. A zero Duration disables it.
// Multiplier and Max apply to isolated cooldowns only.
type CooldownPolicy struct {
	Duration   time.Duration
	Multiplier float64
	Max        time.Duration
}

// Enabled reports whether the policy imposes any cooldown.
func (p CooldownPolicy) Enabled() bool {
	return p.Duration > 0
}

// CooldownService queries and starts cooldowns by kind, command key and caller.
type CooldownService interface {
	// Remaining returns how long the caller must still wait, zero if none.
	Remaining(ctx context.Context, kind CooldownKind, command string, caller CallerID) (time.Duration, error)

	// Start begins (or compounds) the cooldown.
	Start(ctx context.Context, kind CooldownKind, command string, caller CallerID, policy CooldownPolicy) error

	// Reset clears every cooldown for the caller and reports how many were removed.
	Reset(ctx context.Context, caller CallerID) (int, error)
}

// Culture is the language and numeric conventions of one invocation.
type Culture struct {
	Tag     language.Tag
	Decimal string
	Group   string
}

// LocaleResolver picks the culture for an invocation.
type LocaleResolver interface {
	Resolve(caller Caller) Culture
}

// Translator renders a response for a culture.
type Translator interface {
	Render(tag language.Tag, msg Message) (string, Color)
}

// Timer is an armed callback.
type Timer interface {
	// Stop prevents the callback from firing and reports whether it did so.
	Stop() bool
}

// TimerFactory arms one-shot timers for wait-task timeouts.
type TimerFactory interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// SessionDirectory tracks connected callers.
type SessionDirectory interface {
	// Online reports whether the caller is connected.
	Online(id CallerID) bool

	// Lookup returns a connected caller by id.
	Lookup(id CallerID) (Caller, bool)

	// All returns every connected caller, sorted by name.
	All() []Caller

	// OnDisconnect registers fn to run after a caller leaves. The returned
	// function unregisters it.
	OnDisconnect(fn func(CallerID)) func()
}

// MainExecutor runs state-mutating work on the single main execution context.
type MainExecutor interface {
	// Do runs fn on the main context and waits for it to finish.
	Do(ctx context.Context, fn func()) error
}

// CommandRecord is one entry of the command log.
type CommandRecord struct {
	Caller   CallerID
	Command  string
	Input    string
	Outcome  string
	Duration time.Duration
	At       time.Time
}

// CommandRecorder persists executed commands.
type CommandRecorder interface {
	Record(ctx context.Context, rec CommandRecord) error
}
