// Package waittask lets code wait until a command is executed, optionally by
// one specific caller, with a timeout.
package waittask

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/footprint-tools/switchboard/internal/command"
	"github.com/footprint-tools/switchboard/internal/domain"
)

// Infinite disables the timeout.
const Infinite time.Duration = -1

// Options configures a Task.
type Options struct {
	// Target is the command being waited for.
	Target *command.Descriptor

	// Caller restricts the wait to one caller. Empty matches anyone.
	Caller domain.CallerID

	// Timeout of zero completes the task as TimedOut right away; Infinite
	// (or any negative value) never times out.
	Timeout time.Duration

	// BlockOriginal keeps the target's handler from running when this task
	// matches. The waiter is expected to respond in its place.
	BlockOriginal bool

	// AbortOnOtherCommand aborts the task when its caller runs any other command.
	AbortOnOtherCommand bool

	// Ctx cancels the task when done.
	Ctx context.Context

	ErrorOnTimeout bool
	ErrorOnCancel  bool
}

// Deps are the collaborators a Task needs.
type Deps struct {
	Timers   domain.TimerFactory
	Sessions domain.SessionDirectory
	Logger   domain.Logger
}

// Task is a pending wait for a command execution. It reaches exactly one
// terminal Outcome.
type Task struct {
	opts Options
	deps Deps
	done chan struct{}

	mu         sync.Mutex
	outcome    Outcome
	invocation func() *command.Context
	timer      domain.Timer
	stopCancel func() bool
	listed     bool
}

// New creates a task and, unless it completes on the spot, registers it with
// the target descriptor. A target caller who is offline completes it as
// Disconnected, a zero timeout as TimedOut and a finished context as
// Cancelled, in that order.
func New(opts Options, deps Deps) *Task {
	t := &Task{opts: opts, deps: deps, done: make(chan struct{})}

	switch {
	case opts.Caller != "" && deps.Sessions != nil && !deps.Sessions.Online(opts.Caller):
		t.complete(Disconnected, nil)
		return t
	case opts.Timeout == 0:
		t.complete(TimedOut, nil)
		return t
	case opts.Ctx != nil && opts.Ctx.Err() != nil:
		t.complete(Cancelled, nil)
		return t
	}

	t.mu.Lock()
	t.listed = true
	t.mu.Unlock()
	if opts.Target != nil {
		opts.Target.Waits().Add(t)
	}

	if opts.Ctx != nil {
		stop := context.AfterFunc(opts.Ctx, func() { t.complete(Cancelled, nil) })
		t.arm(func() { t.stopCancel = stop }, func() { stop() })
	}
	if opts.Timeout > 0 && deps.Timers != nil {
		timer := deps.Timers.AfterFunc(opts.Timeout, func() { t.complete(TimedOut, nil) })
		t.arm(func() { t.timer = timer }, func() { timer.Stop() })
	}

	// The caller may have left between the check and the registration.
	if opts.Caller != "" && deps.Sessions != nil && !deps.Sessions.Online(opts.Caller) {
		t.complete(Disconnected, nil)
	}
	return t
}

// arm keeps a teardown hook, or runs it at once when the task already
// completed while it was being set up.
func (t *Task) arm(keep, undo func()) {
	t.mu.Lock()
	if t.outcome == Pending {
		keep()
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()
	undo()
}

// complete is the only transition out of Pending. It returns false when the
// task had already completed.
func (t *Task) complete(o Outcome, invocation func() *command.Context) bool {
	t.mu.Lock()
	if t.outcome != Pending {
		t.mu.Unlock()
		return false
	}
	t.outcome = o
	if invocation != nil {
		t.invocation = sync.OnceValue(invocation)
	}
	timer, stop, listed := t.timer, t.stopCancel, t.listed
	t.timer, t.stopCancel = nil, nil
	t.mu.Unlock()

	if timer != nil {
		timer.Stop()
	}
	if stop != nil {
		stop()
	}
	if listed && t.opts.Target != nil {
		t.opts.Target.Waits().Remove(t)
	}
	close(t.done)

	if t.deps.Logger != nil {
		t.deps.Logger.Debug("waittask: %s %s", t, o)
	}
	return true
}

func (t *Task) String() string {
	name := "<none>"
	if t.opts.Target != nil {
		name = t.opts.Target.Key()
	}
	if t.opts.Caller == "" {
		return fmt.Sprintf("wait(%s)", name)
	}
	return fmt.Sprintf("wait(%s by %s)", name, t.opts.Caller)
}

// Target returns the caller the task waits for, if any.
func (t *Task) Target() (domain.CallerID, bool) {
	return t.opts.Caller, t.opts.Caller != ""
}

// Descriptor returns the command the task waits for.
func (t *Task) Descriptor() *command.Descriptor {
	return t.opts.Target
}

// BlockOriginal reports whether a match skips the target's handler.
func (t *Task) BlockOriginal() bool {
	return t.opts.BlockOriginal
}

// AbortOnOtherCommand reports whether the caller running another command
// aborts the task.
func (t *Task) AbortOnOtherCommand() bool {
	return t.opts.AbortOnOtherCommand
}

// Execute completes the task as Executed. invocation is evaluated at most
// once, when the result is read.
func (t *Task) Execute(invocation func() *command.Context) bool {
	return t.complete(Executed, invocation)
}

// Abort completes the task as Aborted.
func (t *Task) Abort() bool {
	return t.complete(Aborted, nil)
}

// Cancel completes the task as Cancelled.
func (t *Task) Cancel() bool {
	return t.complete(Cancelled, nil)
}

// Disconnect completes the task as Disconnected.
func (t *Task) Disconnect() bool {
	return t.complete(Disconnected, nil)
}

// Done is closed once the task completes.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Completed reports whether the task reached a terminal outcome.
func (t *Task) Completed() bool {
	return t.Outcome() != Pending
}

// Outcome returns the current state.
func (t *Task) Outcome() Outcome {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.outcome
}

// Result returns the terminal result. It fails with ErrNotCompleted while
// pending, and with ErrTimeout or ErrCancelled when the task was created
// with the matching option.
func (t *Task) Result() (Result, error) {
	t.mu.Lock()
	r := Result{outcome: t.outcome, invocation: t.invocation}
	t.mu.Unlock()

	switch {
	case r.outcome == Pending:
		return r, ErrNotCompleted
	case r.outcome.TimeoutClass() && t.opts.ErrorOnTimeout:
		return r, fmt.Errorf("%w: %s", ErrTimeout, r.outcome)
	case r.outcome.AbortClass() && t.opts.ErrorOnCancel:
		return r, fmt.Errorf("%w: %s", ErrCancelled, r.outcome)
	}
	return r, nil
}

// Await blocks until the task completes or ctx is done.
func (t *Task) Await(ctx context.Context) (Result, error) {
	select {
	case <-t.done:
		return t.Result()
	case <-ctx.Done():
		return Result{outcome: Pending}, ctx.Err()
	}
}

// Result is the terminal state of a Task.
type Result struct {
	outcome    Outcome
	invocation func() *command.Context
}

// Outcome returns how the task ended.
func (r Result) Outcome() Outcome {
	return r.outcome
}

// Executed reports whether the target command ran.
func (r Result) Executed() bool {
	return r.outcome == Executed
}

// Invocation returns the context of the matching execution, or nil when the
// task did not end with Executed.
func (r Result) Invocation() *command.Context {
	if r.invocation == nil {
		return nil
	}
	return r.invocation()
}

var _ command.Waiter = (*Task)(nil)
