// Package dispatchers resolves parsed commands against the registry and runs
// them: rate limiting, permissions, cooldowns, synchronized families, wait
// task notification, switches and fallback responses.
package dispatchers

import (
	"context"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/footprint-tools/switchboard/internal/command"
	"github.com/footprint-tools/switchboard/internal/domain"
	"github.com/footprint-tools/switchboard/internal/log"
	"github.com/footprint-tools/switchboard/internal/waittask"
)

// maxSwitches bounds how many times one dispatch may switch commands.
const maxSwitches = 8

// Deps are the collaborators of a Dispatcher. Only Logger is defaulted; a nil
// Permissions denies every leaf and a nil Cooldowns disables cooldowns.
type Deps struct {
	Permissions domain.PermissionChecker
	Cooldowns   domain.CooldownService
	Locale      domain.LocaleResolver
	Translator  domain.Translator
	Timers      domain.TimerFactory
	Sessions    domain.SessionDirectory
	Main        domain.MainExecutor
	Recorder    domain.CommandRecorder
	Logger      domain.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithRequirePrefix makes ExecuteText ignore text without a command prefix.
func WithRequirePrefix(require bool) Option {
	return func(d *Dispatcher) { d.requirePrefix = require }
}

// WithRateLimit allows each caller limit commands per second with the
// given burst. A zero limit disables rate limiting.
func WithRateLimit(limit float64, burst int) Option {
	return func(d *Dispatcher) {
		if limit <= 0 {
			d.limiter = nil
			return
		}
		d.limiter = newCallerLimiter(rate.Limit(limit), burst)
	}
}

// WithHelpAliases adds spellings that ask for help besides "help" and "?".
func WithHelpAliases(aliases ...string) Option {
	return func(d *Dispatcher) {
		for _, a := range aliases {
			if a = strings.TrimSpace(a); a != "" {
				d.helpTokens[strings.ToLower(a)] = true
			}
		}
	}
}

// WithWaitTimeout sets the timeout NewWaitTask uses when none is given.
func WithWaitTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) { d.waitTimeout = timeout }
}

// Dispatcher executes commands from a Registry.
type Dispatcher struct {
	reg  *command.Registry
	deps Deps

	requirePrefix bool
	helpTokens    map[string]bool
	limiter       *callerLimiter
	waitTimeout   time.Duration

	ctx         context.Context
	cancel      context.CancelFunc
	unsubscribe func()
}

// New creates a dispatcher for reg. Disconnect events of deps.Sessions
// tear down the leaving caller's wait tasks.
func New(reg *command.Registry, deps Deps, opts ...Option) *Dispatcher {
	if deps.Logger == nil {
		deps.Logger = log.NopLogger{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		reg:         reg,
		deps:        deps,
		helpTokens:  map[string]bool{"help": true, "?": true},
		waitTimeout: 30 * time.Second,
		ctx:         ctx,
		cancel:      cancel,
	}
	for _, opt := range opts {
		opt(d)
	}
	if deps.Sessions != nil {
		d.unsubscribe = deps.Sessions.OnDisconnect(d.Disconnected)
	}
	if d.limiter != nil {
		go d.limiter.janitor(ctx, time.Minute, 10*time.Minute)
	}
	return d
}

// Registry returns the registry commands are resolved against.
func (d *Dispatcher) Registry() *command.Registry {
	return d.reg
}

// Shutdown cancels every running invocation and stops background work.
func (d *Dispatcher) Shutdown() {
	d.cancel()
	if d.unsubscribe != nil {
		d.unsubscribe()
	}
}

// Disconnected completes every wait task targeting caller as Disconnected.
func (d *Dispatcher) Disconnected(caller domain.CallerID) {
	n := 0
	for _, desc := range d.reg.Descriptors() {
		for _, w := range desc.Waits().Extract(func(w command.Waiter) bool {
			target, ok := w.Target()
			return ok && target == caller
		}) {
			if w.Disconnect() {
				n++
			}
		}
	}
	if n > 0 {
		d.deps.Logger.Debug("dispatch: %s left, %d wait task(s) disconnected", caller, n)
	}
}

// NewWaitTask creates a wait task using the dispatcher's timers and session
// directory. A nil Ctx ties the task to the dispatcher's lifetime; a zero
// Timeout is kept as is and completes the task immediately.
func (d *Dispatcher) NewWaitTask(opts waittask.Options) *waittask.Task {
	if opts.Ctx == nil {
		opts.Ctx = d.ctx
	}
	return waittask.New(opts, waittask.Deps{
		Timers:   d.deps.Timers,
		Sessions: d.deps.Sessions,
		Logger:   d.deps.Logger,
	})
}

// WaitTimeout is the configured default timeout for wait tasks.
func (d *Dispatcher) WaitTimeout() time.Duration {
	return d.waitTimeout
}

func (d *Dispatcher) isHelpToken(tok string) bool {
	return d.helpTokens[strings.ToLower(tok)]
}
