package actions

import (
	"context"
	"math/rand"
	"time"

	"github.com/footprint-tools/switchboard/internal/domain"
	"github.com/footprint-tools/switchboard/internal/waittask"
)

// Directory is the session directory as the built-ins see it.
type Directory interface {
	domain.SessionDirectory
	Find(name string) (domain.Caller, bool)
}

// Dispatch is the part of the dispatcher the built-ins call back into.
type Dispatch interface {
	NewWaitTask(opts waittask.Options) *waittask.Task
	WaitTimeout() time.Duration
	Tell(caller domain.Caller, msg domain.Message)
}

// Operator is a caller who can go off duty. Off duty, an operator is
// privileged.
type Operator interface {
	domain.Caller
	Operator() bool
	OnDuty() bool
	SetOnDuty(on bool)
}

// Env carries the collaborators of the built-in commands. Dispatch is set
// once the dispatcher exists, before any command runs.
type Env struct {
	Sessions    Directory
	Permissions domain.PermissionStore
	Cooldowns   domain.CooldownService
	Dispatch    Dispatch
	Board       *Board
	Logger      domain.Logger

	Version func() string
	// Roll returns a number in [1, n].
	Roll func(n int) int
	// Background scopes work that outlives an invocation, such as a duel
	// waiting for its answer.
	Background context.Context
}

func (e *Env) version() string {
	if e.Version == nil {
		return "dev"
	}
	return e.Version()
}

func (e *Env) roll(n int) int {
	if e.Roll == nil {
		return rand.Intn(n) + 1
	}
	return e.Roll(n)
}

func (e *Env) background() context.Context {
	if e.Background == nil {
		return context.Background()
	}
	return e.Background
}
