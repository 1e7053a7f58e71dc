package command

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/footprint-tools/switchboard/internal/domain"
	"github.com/footprint-tools/switchboard/internal/tokenizer"
)

// CooldownSnapshot is the remaining cooldown seen when the invocation was
// admitted. Both are zero for callers that bypass cooldowns.
type CooldownSnapshot struct {
	General  time.Duration
	Isolated time.Duration
}

// Options carries what NewContext needs. The dispatcher fills it in.
type Options struct {
	Ctx         context.Context
	Registry    *Registry
	Descriptor  *Descriptor
	Caller      domain.Caller
	Parsed      tokenizer.ParsedCommand
	Offset      int
	Culture     domain.Culture
	Permissions domain.PermissionChecker
	Translator  domain.Translator
	Main        domain.MainExecutor
	Logger      domain.Logger
}

// Context is the state of one invocation: the matched descriptor, the
// caller, the parsed input and a window over its arguments that hides the
// tokens consumed while resolving sub-commands.
type Context struct {
	ctx    context.Context
	reg    *Registry
	desc   *Descriptor
	caller domain.Caller
	parsed tokenizer.ParsedCommand

	offset int
	args   []string

	culture    domain.Culture
	perms      domain.PermissionChecker
	translator domain.Translator
	main       domain.MainExecutor
	logger     domain.Logger

	permMu     sync.Mutex
	permCache  map[domain.PermissionLeaf]bool
	permChecks int

	responded atomic.Bool
	skipCD    atomic.Bool
	cooldown  CooldownSnapshot
	started   time.Time
}

// NewContext builds an invocation context.
func NewContext(o Options) *Context {
	ctx := o.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	c := &Context{
		ctx:        ctx,
		reg:        o.Registry,
		desc:       o.Descriptor,
		caller:     o.Caller,
		parsed:     o.Parsed,
		culture:    o.Culture,
		perms:      o.Permissions,
		translator: o.Translator,
		main:       o.Main,
		logger:     o.Logger,
		permCache:  make(map[domain.PermissionLeaf]bool),
		started:    time.Now(),
	}
	c.SetOffset(o.Offset)
	return c
}

// Context returns the invocation's cancellation scope.
func (c *Context) Context() context.Context { return c.ctx }

// Descriptor returns the command being executed.
func (c *Context) Descriptor() *Descriptor { return c.desc }

// Registry returns the registry the descriptor belongs to.
func (c *Context) Registry() *Registry { return c.reg }

// Caller returns who issued the command.
func (c *Context) Caller() domain.Caller { return c.caller }

// Parsed returns the full parsed input, including consumed arguments.
func (c *Context) Parsed() tokenizer.ParsedCommand { return c.parsed }

// Culture returns the invocation's language and number format.
func (c *Context) Culture() domain.Culture { return c.culture }

// Cooldown returns the cooldown state seen at admission.
func (c *Context) Cooldown() CooldownSnapshot { return c.cooldown }

// SetCooldown records the cooldown state seen at admission.
func (c *Context) SetCooldown(s CooldownSnapshot) { c.cooldown = s }

// Started returns when the context was created.
func (c *Context) Started() time.Time { return c.started }

// Input reconstructs the typed command.
func (c *Context) Input() string {
	return tokenizer.Serialize(c.parsed, '/')
}

// Offset returns how many leading arguments are hidden.
func (c *Context) Offset() int { return c.offset }

// SetOffset hides the first n arguments, clamped to the argument count.
func (c *Context) SetOffset(n int) {
	if n < 0 {
		n = 0
	}
	if n > len(c.parsed.Args) {
		n = len(c.parsed.Args)
	}
	c.offset = n
	c.args = c.parsed.Args[n:]
}

// Args returns the visible arguments.
func (c *Context) Args() []string {
	return c.args
}

// ArgCount returns the number of visible arguments.
func (c *Context) ArgCount() int {
	return len(c.args)
}

// HasArgs reports whether at least n arguments are visible.
func (c *Context) HasArgs(n int) bool {
	return len(c.args) >= n
}

// Arg returns visible argument i.
func (c *Context) Arg(i int) (string, bool) {
	if i < 0 || i >= len(c.args) {
		return "", false
	}
	return c.args[i], true
}

// ArgsFrom returns the visible arguments from i on.
func (c *Context) ArgsFrom(i int) []string {
	if i < 0 || i >= len(c.args) {
		return nil
	}
	return c.args[i:]
}

// Rest joins the visible arguments from i on with single spaces.
func (c *Context) Rest(i int) string {
	if i < 0 || i >= len(c.args) {
		return ""
	}
	return strings.Join(c.args[i:], " ")
}

// Responded reports whether any response was sent.
func (c *Context) Responded() bool {
	return c.responded.Load()
}

// SkipCooldown keeps the dispatcher from starting cooldowns for this
// invocation, for handlers that rejected their input.
func (c *Context) SkipCooldown() {
	c.skipCD.Store(true)
}

// CooldownSkipped reports whether SkipCooldown was called.
func (c *Context) CooldownSkipped() bool {
	return c.skipCD.Load()
}

// OnMain runs fn on the main execution context and waits for it.
func (c *Context) OnMain(fn func()) error {
	if c.main == nil {
		fn()
		return nil
	}
	return c.main.Do(c.ctx, fn)
}

// Logger returns the dispatcher's logger.
func (c *Context) Logger() domain.Logger {
	return c.logger
}
