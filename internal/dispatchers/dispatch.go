package dispatchers

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"golang.org/x/text/language"

	"github.com/footprint-tools/switchboard/internal/command"
	"github.com/footprint-tools/switchboard/internal/domain"
	"github.com/footprint-tools/switchboard/internal/tokenizer"
	"github.com/footprint-tools/switchboard/internal/usage"
)

// Fallback responses, also used as catalog keys.
const (
	MsgDone    = "Done."
	MsgAborted = "The command was aborted."
	MsgFault   = "Something went wrong while running '%s'."
)

// Report summarizes one dispatch.
type Report struct {
	// Handled is false when the text was not a command at all.
	Handled bool
	// Command is the last descriptor that was run, nil when none resolved.
	Command *command.Descriptor
	Status  command.Status
	Err     error
}

type resolution struct {
	desc   *command.Descriptor
	offset int
	helpAt int
}

type invocation struct {
	desc   *command.Descriptor
	parsed tokenizer.ParsedCommand
	offset int
	input  string
}

// ExecuteText parses text and executes it. Text that is not a command is
// reported with Handled false and nothing is sent to the caller.
func (d *Dispatcher) ExecuteText(ctx context.Context, caller domain.Caller, text string) Report {
	parsed := tokenizer.Parse(text, d.requirePrefix)
	if !parsed.IsCommand() {
		return Report{Status: command.StatusAborted, Err: usage.NotCommand()}
	}
	return d.ExecuteParsed(ctx, caller, parsed)
}

// ExecuteParsed resolves parsed against the registry and executes it.
func (d *Dispatcher) ExecuteParsed(ctx context.Context, caller domain.Caller, parsed tokenizer.ParsedCommand) Report {
	input := tokenizer.Serialize(parsed, '/')

	res, uerr := d.resolve(parsed)
	if uerr != nil {
		d.Tell(caller, command.UsageMessage(uerr))
		d.deps.Logger.Debug("dispatch: %s: %s", caller.ID(), uerr.Message)
		return Report{Handled: true, Status: command.StatusAborted, Err: uerr}
	}

	if res.helpAt >= 0 {
		help := d.reg.Help()
		args, flags := HelpArguments(parsed.Name, parsed.Args, parsed.Flags, res.helpAt)
		p, offset := rebase(d.reg, tokenizer.ParsedCommand{Args: args, Flags: flags}, 0, help)
		return d.run(ctx, caller, invocation{desc: help, parsed: p, offset: offset, input: input})
	}
	return d.run(ctx, caller, invocation{desc: res.desc, parsed: parsed, offset: res.offset, input: input})
}

// ExecuteDirect runs the command registered under key with args, as if the
// caller had typed its full path followed by args. Flag positions are
// relative to args.
func (d *Dispatcher) ExecuteDirect(ctx context.Context, caller domain.Caller, key string, args []string, flags []tokenizer.Flag) Report {
	desc, ok := d.reg.ByKey(key)
	if !ok {
		err := usage.UnknownCommand(key, nil)
		d.Tell(caller, command.UsageMessage(err))
		return Report{Handled: true, Status: command.StatusAborted, Err: err}
	}
	p, offset := rebase(d.reg, tokenizer.ParsedCommand{Args: args, Flags: flags}, 0, desc)
	return d.run(ctx, caller, invocation{desc: desc, parsed: p, offset: offset, input: tokenizer.Serialize(p, '/')})
}

// resolve walks the tree from the top-level command, consuming one argument
// per matched sub-command.
func (d *Dispatcher) resolve(p tokenizer.ParsedCommand) (resolution, *usage.Error) {
	root, ok := d.reg.Find(p.Name)
	if !ok {
		if help := d.reg.Help(); help != nil && d.isHelpToken(p.Name) {
			return resolution{desc: help, helpAt: -1}, nil
		}
		return resolution{}, usage.UnknownCommand(p.Name, FindSimilarCommands(p.Name, d.reg.Roots(), defaultSuggestionsCount))
	}

	r := resolution{desc: root, helpAt: -1}
	for r.offset < len(p.Args) {
		child, ok := d.reg.FindChild(r.desc, p.Args[r.offset])
		if !ok {
			break
		}
		r.desc = child
		r.offset++
	}

	if r.offset < len(p.Args) {
		tok := p.Args[r.offset]
		if d.reg.Help() != nil && !r.desc.IsHelp() && d.isHelpToken(tok) {
			r.helpAt = r.offset
			return r, nil
		}
		if !r.desc.Executable() && r.desc.Redirect() == command.NoID && len(r.desc.Children()) > 0 {
			suggestions := FindSimilarCommands(tok, d.reg.Children(r.desc), defaultSuggestionsCount)
			return resolution{}, usage.UnknownSubcommand(d.reg.Path(r.desc), tok, suggestions)
		}
	}
	return r, nil
}

// run executes inv and follows the switches it requests.
func (d *Dispatcher) run(ctx context.Context, caller domain.Caller, inv invocation) Report {
	if ctx == nil {
		ctx = context.Background()
	}

	if d.limiter != nil && !caller.Privileged() && !d.limiter.Allow(caller.ID()) {
		err := usage.RateLimited()
		d.Tell(caller, command.UsageMessage(err))
		d.deps.Logger.Debug("dispatch: %s rate limited", caller.ID())
		return Report{Handled: true, Command: inv.desc, Status: command.StatusAborted, Err: err}
	}

	for hop := 0; ; hop++ {
		rep, sw, ran := d.execute(ctx, caller, inv, hop == 0)
		if sw == nil {
			return rep
		}
		if hop >= maxSwitches {
			d.deps.Logger.Error("dispatch: %q switched more than %d times, giving up", ran.desc.Key(), maxSwitches)
			return rep
		}
		next, ok := d.switchTarget(ran, sw)
		if !ok {
			return rep
		}
		inv = next
	}
}

// switchTarget builds the invocation a switch asks for. An unknown target is
// logged and ends the dispatch without telling the caller.
func (d *Dispatcher) switchTarget(from invocation, sw *command.Switch) (invocation, bool) {
	if sw.Help {
		help := d.reg.Help()
		if help == nil || from.desc.IsHelp() {
			d.deps.Logger.Error("dispatch: %q switched to help but no other help command is registered", from.desc.Key())
			return invocation{}, false
		}
		args, flags := HelpArguments(from.parsed.Name, from.parsed.Args, from.parsed.Flags, -1)
		p, offset := rebase(d.reg, tokenizer.ParsedCommand{Args: args, Flags: flags}, 0, help)
		return invocation{desc: help, parsed: p, offset: offset, input: from.input}, true
	}

	target, ok := d.reg.ByKey(sw.Key)
	if !ok {
		d.deps.Logger.Error("dispatch: %q switched to unknown command %q", from.desc.Key(), sw.Key)
		return invocation{}, false
	}
	p, offset := rebase(d.reg, from.parsed, from.offset, target)
	return invocation{desc: target, parsed: p, offset: offset, input: from.input}, true
}

// execute runs one descriptor and returns the switch it requested along
// with the invocation that actually ran.
func (d *Dispatcher) execute(ctx context.Context, caller domain.Caller, inv invocation, first bool) (Report, *command.Switch, invocation) {
	id, err := d.reg.ResolveRedirect(inv.desc.ID())
	if err != nil {
		d.deps.Logger.Error("dispatch: %s ran %q: %v", caller.ID(), inv.desc.Key(), err)
		d.Tell(caller, domain.NewMessage(MsgFault, inv.desc.Name()).WithColor(domain.ColorError))
		return Report{Handled: true, Command: inv.desc, Status: command.StatusError, Err: err}, nil, inv
	}
	if id != inv.desc.ID() {
		target := d.reg.Get(id)
		inv.parsed, inv.offset = rebase(d.reg, inv.parsed, inv.offset, target)
		inv.desc = target
	}

	if first {
		d.abortOtherWaits(caller.ID(), inv.desc)
	}

	if !inv.desc.Executable() {
		return Report{Handled: true, Command: inv.desc, Status: command.StatusOK}, &command.Switch{Help: true}, inv
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(d.ctx, cancel)
	defer stop()

	c := command.NewContext(command.Options{
		Ctx:         runCtx,
		Registry:    d.reg,
		Descriptor:  inv.desc,
		Caller:      caller,
		Parsed:      inv.parsed,
		Offset:      inv.offset,
		Culture:     d.culture(caller),
		Permissions: d.deps.Permissions,
		Translator:  d.deps.Translator,
		Main:        d.deps.Main,
		Logger:      d.deps.Logger,
	})

	r := d.invoke(c, inv.input)
	return Report{Handled: true, Command: inv.desc, Status: r.Status, Err: r.Err}, r.Switch, inv
}

// invoke runs the admission checks and the handler while holding the
// family lock.
func (d *Dispatcher) invoke(c *command.Context, input string) command.Result {
	desc := c.Descriptor()

	if fam := desc.Family(); fam != nil {
		if err := fam.Acquire(c.Context()); err != nil {
			r := c.FailWith(usage.Cancelled(c.CommandPath()))
			r.Status = command.StatusCancelled
			d.record(c, input, r)
			return r
		}
		defer fam.Release()
	}

	if r, ok := d.admit(c); !ok {
		d.record(c, input, r)
		return r
	}

	matched := desc.Waits().Extract(func(w command.Waiter) bool {
		return command.WaiterMatches(w, c.Caller().ID())
	})
	snapshot := func() *command.Context { return c }

	if blocksOriginal(matched) {
		for _, w := range matched {
			w.Execute(snapshot)
		}
		d.deps.Logger.Debug("dispatch: %q by %s handled by %d waiter(s)", desc.Key(), c.Caller().ID(), len(matched))
		r := command.Result{Status: command.StatusResponded}
		d.startCooldowns(c)
		d.record(c, input, r)
		return r
	}

	r := d.fallback(c, d.call(c))
	d.startCooldowns(c)
	for _, w := range matched {
		w.Execute(snapshot)
	}
	d.record(c, input, r)
	return r
}

// admit checks permissions, then cooldowns.
func (d *Dispatcher) admit(c *command.Context) (command.Result, bool) {
	desc, caller := c.Descriptor(), c.Caller()
	path := c.CommandPath()

	ok, leaves, err := c.Satisfies(desc.Permission())
	if err != nil {
		return d.fallback(c, command.Failed(fmt.Errorf("permission check: %w", err))), false
	}
	if !ok {
		d.deps.Logger.Debug("dispatch: %s denied %q", caller.ID(), path)
		names := make([]string, len(leaves))
		for i, l := range leaves {
			names[i] = string(l)
		}
		return c.FailWith(usage.PermissionDenied(path, names)), false
	}

	if caller.Privileged() || d.deps.Cooldowns == nil {
		return command.OK(), true
	}

	var snap command.CooldownSnapshot
	if desc.Cooldown().Enabled() {
		snap.General, err = d.deps.Cooldowns.Remaining(c.Context(), domain.CooldownGeneral, desc.Key(), caller.ID())
		if err != nil {
			return d.fallback(c, command.Failed(fmt.Errorf("cooldown lookup: %w", err))), false
		}
	}
	if desc.IsolatedCooldown().Enabled() {
		snap.Isolated, err = d.deps.Cooldowns.Remaining(c.Context(), domain.CooldownIsolated, desc.Key(), caller.ID())
		if err != nil {
			return d.fallback(c, command.Failed(fmt.Errorf("cooldown lookup: %w", err))), false
		}
	}
	c.SetCooldown(snap)

	if remaining := max(snap.General, snap.Isolated); remaining > 0 {
		d.deps.Logger.Debug("dispatch: %s on cooldown for %q (%s)", caller.ID(), path, remaining)
		return c.FailWith(usage.CooldownActive(path, remaining)), false
	}
	return command.OK(), true
}

// call creates the handler and runs it, turning panics into errors.
func (d *Dispatcher) call(c *command.Context) (r command.Result) {
	defer func() {
		if p := recover(); p != nil {
			d.deps.Logger.Error("dispatch: panic in %q: %v\n%s", c.Descriptor().Key(), p, debug.Stack())
			r = command.Failed(fmt.Errorf("panic: %v", p))
		}
	}()

	r = c.Descriptor().NewHandler().Execute(c)
	if r.Status == command.StatusError && (errors.Is(r.Err, context.Canceled) || errors.Is(r.Err, context.DeadlineExceeded)) {
		r.Status = command.StatusCancelled
	}
	return r
}

// fallback makes sure the caller hears something and logs faults. Switches
// are only honored for successful outcomes.
func (d *Dispatcher) fallback(c *command.Context, r command.Result) command.Result {
	path := c.CommandPath()

	switch r.Status {
	case command.StatusOK, command.StatusResponded:
		if r.Switch == nil && !c.Responded() {
			c.Send(domain.NewMessage(MsgDone).WithColor(domain.ColorSuccess))
		}
		return r

	case command.StatusAborted:
		d.deps.Logger.Debug("dispatch: %s aborted %q", c.Caller().ID(), path)
		if !c.Responded() {
			c.Send(domain.NewMessage(MsgAborted).WithColor(domain.ColorWarning))
		}

	case command.StatusCancelled:
		d.deps.Logger.Debug("dispatch: %q by %s cancelled", path, c.Caller().ID())
		if !c.Responded() {
			c.Send(command.UsageMessage(usage.Cancelled(path)))
		}

	default:
		d.deps.Logger.Error("dispatch: %q by %s failed: %v", path, c.Caller().ID(), r.Err)
		c.Send(domain.NewMessage(MsgFault, path).WithColor(domain.ColorError))
	}

	r.Switch = nil
	return r
}

func (d *Dispatcher) startCooldowns(c *command.Context) {
	desc, caller := c.Descriptor(), c.Caller()
	if d.deps.Cooldowns == nil || caller.Privileged() || c.CooldownSkipped() {
		return
	}
	// The invocation may have been cancelled; the cooldown still applies.
	ctx := context.WithoutCancel(c.Context())
	if p := desc.Cooldown(); p.Enabled() {
		if err := d.deps.Cooldowns.Start(ctx, domain.CooldownGeneral, desc.Key(), caller.ID(), p); err != nil {
			d.deps.Logger.Warn("dispatch: start cooldown %q for %s: %v", desc.Key(), caller.ID(), err)
		}
	}
	if p := desc.IsolatedCooldown(); p.Enabled() {
		if err := d.deps.Cooldowns.Start(ctx, domain.CooldownIsolated, desc.Key(), caller.ID(), p); err != nil {
			d.deps.Logger.Warn("dispatch: start isolated cooldown %q for %s: %v", desc.Key(), caller.ID(), err)
		}
	}
}

func (d *Dispatcher) record(c *command.Context, input string, r command.Result) {
	if d.deps.Recorder == nil {
		return
	}
	rec := domain.CommandRecord{
		Caller:   c.Caller().ID(),
		Command:  c.Descriptor().Key(),
		Input:    input,
		Outcome:  r.Status.String(),
		Duration: time.Since(c.Started()),
		At:       c.Started(),
	}
	if err := d.deps.Recorder.Record(context.WithoutCancel(c.Context()), rec); err != nil {
		d.deps.Logger.Warn("dispatch: record %q: %v", rec.Command, err)
	}
}

// abortOtherWaits aborts the caller's wait tasks that ask to be dropped once
// the caller runs something else.
func (d *Dispatcher) abortOtherWaits(caller domain.CallerID, running *command.Descriptor) {
	for _, desc := range d.reg.Descriptors() {
		if desc == running {
			continue
		}
		for _, w := range desc.Waits().Extract(func(w command.Waiter) bool {
			target, ok := w.Target()
			return ok && target == caller && w.AbortOnOtherCommand()
		}) {
			w.Abort()
		}
	}
}

// Tell renders msg in the caller's culture and delivers it outside of any
// invocation.
func (d *Dispatcher) Tell(caller domain.Caller, msg domain.Message) {
	if d.deps.Translator == nil {
		caller.Deliver(fmt.Sprintf(msg.Key, msg.Args...), msg.Color)
		return
	}
	text, color := d.deps.Translator.Render(d.culture(caller).Tag, msg)
	caller.Deliver(text, color)
}

func (d *Dispatcher) culture(caller domain.Caller) domain.Culture {
	if d.deps.Locale == nil {
		return domain.Culture{Tag: language.English, Decimal: ".", Group: ","}
	}
	return d.deps.Locale.Resolve(caller)
}

func blocksOriginal(waiters []command.Waiter) bool {
	for _, w := range waiters {
		if w.BlockOriginal() {
			return true
		}
	}
	return false
}
