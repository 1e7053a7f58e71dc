package actions

import (
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/footprint-tools/switchboard/internal/command"
	"github.com/footprint-tools/switchboard/internal/domain"
	"github.com/footprint-tools/switchboard/internal/usage"
	"github.com/footprint-tools/switchboard/internal/waittask"
)

const (
	MsgDuelOffline    = "%s is not online."
	MsgDuelSelf       = "You cannot duel yourself."
	MsgDuelBusy       = "%s already has a pending duel request."
	MsgDuelSent       = "You challenged %s to a duel. They have %s to answer."
	MsgDuelInvite     = "%s challenges you to a duel! Type /accept or /deny within %s."
	MsgDuelWon        = "%s won the duel against %s!"
	MsgDuelDenied     = "%s declined your duel."
	MsgDuelYouDenied  = "You declined the duel with %s."
	MsgDuelNoAnswer   = "%s did not answer your duel request in time."
	MsgDuelExpired    = "The duel request from %s expired."
	MsgDuelLeft       = "%s left before answering your duel request."
	MsgDuelIgnored    = "%s moved on without answering your duel request."
	MsgDuelNoneToTake = "You have no pending duel requests."
)

// maxDuelTimeout caps the -timeout flag.
const maxDuelTimeout = 10 * time.Minute

// duels tracks open challenges by opponent. An opponent answers one
// challenge at a time.
type duels struct {
	env *Env

	mu      sync.Mutex
	pending map[domain.CallerID]domain.CallerID
}

func newDuels(env *Env) *duels {
	return &duels{env: env, pending: make(map[domain.CallerID]domain.CallerID)}
}

func (d *duels) reserve(opponent, challenger domain.CallerID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, busy := d.pending[opponent]; busy {
		return false
	}
	d.pending[opponent] = challenger
	return true
}

func (d *duels) release(opponent domain.CallerID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.pending, opponent)
}

func (d *duels) challenge() command.HandlerFactory {
	return command.Func(func(c *command.Context) command.Result {
		name, ok := c.Arg(0)
		if !ok {
			return c.ShowUsage()
		}
		opponent, ok := d.env.Sessions.Find(name)
		if !ok {
			return c.Fail(MsgDuelOffline, name)
		}
		challenger := c.Caller()
		if opponent.ID() == challenger.ID() {
			return c.Fail(MsgDuelSelf)
		}

		timeout := d.env.Dispatch.WaitTimeout()
		if v, ok := c.FlagArg("t", "timeout"); ok {
			secs, err := strconv.Atoi(v)
			if err != nil || secs <= 0 || time.Duration(secs)*time.Second > maxDuelTimeout {
				return c.FailWith(usage.InvalidArgument(v, "a number of seconds up to 600"))
			}
			timeout = time.Duration(secs) * time.Second
		}

		reg := c.Registry()
		acceptCmd, okA := reg.ByKey("duel accept")
		denyCmd, okD := reg.ByKey("duel deny")
		if !okA || !okD {
			return command.Failed(errMissingDuelCommands)
		}

		if !d.reserve(opponent.ID(), challenger.ID()) {
			return c.Fail(MsgDuelBusy, opponent.Name())
		}

		accept := d.env.Dispatch.NewWaitTask(waittask.Options{
			Target:              acceptCmd,
			Caller:              opponent.ID(),
			Timeout:             timeout,
			BlockOriginal:       true,
			AbortOnOtherCommand: true,
		})
		deny := d.env.Dispatch.NewWaitTask(waittask.Options{
			Target:              denyCmd,
			Caller:              opponent.ID(),
			Timeout:             timeout,
			BlockOriginal:       true,
			AbortOnOtherCommand: true,
		})

		go d.settle(challenger, opponent, accept, deny)

		d.env.Dispatch.Tell(opponent, domain.NewMessage(MsgDuelInvite, challenger.Name(), timeout).WithColor(domain.ColorInfo))
		return c.Reply(MsgDuelSent, opponent.Name(), timeout)
	})
}

// settle waits for the opponent's answer and reports it to both players.
func (d *duels) settle(challenger, opponent domain.Caller, accept, deny *waittask.Task) {
	defer d.release(opponent.ID())

	select {
	case <-accept.Done():
	case <-deny.Done():
	}
	// Answering one side aborts the other, so an early abort only settles
	// the duel once both tasks are done.
	if accept.Outcome() != waittask.Executed && deny.Outcome() != waittask.Executed {
		<-accept.Done()
		<-deny.Done()
	}

	tell := func(to domain.Caller, color domain.Color, format string, args ...any) {
		if d.env.Sessions.Online(to.ID()) {
			d.env.Dispatch.Tell(to, domain.NewMessage(format, args...).WithColor(color))
		}
	}

	switch {
	case accept.Outcome() == waittask.Executed:
		deny.Cancel()
		winner, loser := challenger, opponent
		if d.env.roll(2) == 2 {
			winner, loser = opponent, challenger
		}
		d.env.Logger.Info("duel: %s beat %s", winner.ID(), loser.ID())
		tell(challenger, domain.ColorSuccess, MsgDuelWon, winner.Name(), loser.Name())
		tell(opponent, domain.ColorSuccess, MsgDuelWon, winner.Name(), loser.Name())

	case deny.Outcome() == waittask.Executed:
		accept.Cancel()
		tell(challenger, domain.ColorWarning, MsgDuelDenied, opponent.Name())
		tell(opponent, domain.ColorInfo, MsgDuelYouDenied, challenger.Name())

	default:
		outcome := accept.Outcome()
		if outcome == waittask.Pending {
			outcome = deny.Outcome()
		}
		accept.Cancel()
		deny.Cancel()

		switch outcome {
		case waittask.TimedOut:
			tell(challenger, domain.ColorWarning, MsgDuelNoAnswer, opponent.Name())
			tell(opponent, domain.ColorMuted, MsgDuelExpired, challenger.Name())
		case waittask.Disconnected:
			tell(challenger, domain.ColorWarning, MsgDuelLeft, opponent.Name())
		case waittask.Aborted:
			tell(challenger, domain.ColorWarning, MsgDuelIgnored, opponent.Name())
		}
	}
}

// noPendingDuel answers /duel accept and /duel deny when no challenge is open.
func noPendingDuel() command.HandlerFactory {
	return command.Func(func(c *command.Context) command.Result {
		return c.ReplyColor(domain.ColorMuted, MsgDuelNoneToTake)
	})
}

var errMissingDuelCommands = errors.New("duel: accept or deny command is not registered")
