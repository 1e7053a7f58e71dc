package actions

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/footprint-tools/switchboard/internal/command"
	"github.com/footprint-tools/switchboard/internal/domain"
	"github.com/footprint-tools/switchboard/internal/usage"
	"github.com/footprint-tools/switchboard/internal/waittask"
)

const (
	MsgPermGranted    = "Granted %s to %s."
	MsgPermRevoked    = "Revoked %s from %s."
	MsgPermNotHeld    = "%s does not have %s."
	MsgPermList       = "%s holds: %s"
	MsgPermListEmpty  = "%s holds no permissions."
	MsgPermClearAsk   = "This removes every permission of %s. Type /confirm within %s to proceed."
	MsgPermCleared    = "Removed %d permission(s) from %s."
	MsgPermClearStale = "Nothing was removed from %s."
)

// leafPattern accepts dotted names, optionally ending in a wildcard
// segment, or a lone wildcard.
var leafPattern = regexp.MustCompile(`^(\*|[a-z0-9_-]+(\.[a-z0-9_-]+)*(\.\*)?)$`)

// confirmTimeout bounds how long a destructive command waits for /confirm.
const confirmTimeout = 30 * time.Second

func parseLeaf(c *command.Context, i int) (domain.PermissionLeaf, *usage.Error) {
	s, ok := c.Arg(i)
	if !ok {
		return "", usage.MissingArgument("permission")
	}
	s = strings.ToLower(s)
	if !leafPattern.MatchString(s) {
		return "", usage.InvalidArgument(s, "a permission such as kit.give or kit.*")
	}
	return domain.PermissionLeaf(s), nil
}

func subjectArg(c *command.Context, i int) (domain.CallerID, string, bool) {
	name, ok := c.Arg(i)
	if !ok {
		return "", "", false
	}
	return domain.NewCallerID(name), name, true
}

func permGrant(env *Env) command.HandlerFactory {
	return command.Func(func(c *command.Context) command.Result {
		subject, name, ok := subjectArg(c, 0)
		if !ok {
			return c.ShowUsage()
		}
		leaf, uerr := parseLeaf(c, 1)
		if uerr != nil {
			return c.FailWith(uerr)
		}
		if err := env.Permissions.Grant(c.Context(), subject, leaf); err != nil {
			return command.Failed(fmt.Errorf("grant %s to %s: %w", leaf, subject, err))
		}
		env.Logger.Info("perm: %s granted %s to %s", c.Caller().ID(), leaf, subject)
		return c.Success(MsgPermGranted, leaf, name)
	})
}

func permRevoke(env *Env) command.HandlerFactory {
	return command.Func(func(c *command.Context) command.Result {
		subject, name, ok := subjectArg(c, 0)
		if !ok {
			return c.ShowUsage()
		}
		leaf, uerr := parseLeaf(c, 1)
		if uerr != nil {
			return c.FailWith(uerr)
		}
		removed, err := env.Permissions.Revoke(c.Context(), subject, leaf)
		if err != nil {
			return command.Failed(fmt.Errorf("revoke %s from %s: %w", leaf, subject, err))
		}
		if !removed {
			return c.ReplyColor(domain.ColorWarning, MsgPermNotHeld, name, leaf)
		}
		env.Logger.Info("perm: %s revoked %s from %s", c.Caller().ID(), leaf, subject)
		return c.Success(MsgPermRevoked, leaf, name)
	})
}

func permList(env *Env) command.HandlerFactory {
	return command.Func(func(c *command.Context) command.Result {
		subject, name, ok := subjectArg(c, 0)
		if !ok {
			subject, name = c.Caller().ID(), c.Caller().Name()
		}
		leaves, err := env.Permissions.List(c.Context(), subject)
		if err != nil {
			return command.Failed(fmt.Errorf("list permissions of %s: %w", subject, err))
		}
		if len(leaves) == 0 {
			return c.Reply(MsgPermListEmpty, name)
		}
		names := make([]string, len(leaves))
		for i, l := range leaves {
			names[i] = string(l)
		}
		return c.Reply(MsgPermList, name, strings.Join(names, ", "))
	})
}

// permClear removes every grant of a player once the caller confirms.
// Running any other command in between calls it off.
func permClear(env *Env) command.HandlerFactory {
	return command.Func(func(c *command.Context) command.Result {
		subject, name, ok := subjectArg(c, 0)
		if !ok {
			return c.ShowUsage()
		}
		confirm, ok := c.Registry().ByKey("confirm")
		if !ok {
			return command.Failed(fmt.Errorf("perm clear: confirm command is not registered"))
		}

		caller := c.Caller()
		family := c.Descriptor().Family()
		task := env.Dispatch.NewWaitTask(waittask.Options{
			Target:              confirm,
			Caller:              caller.ID(),
			Timeout:             confirmTimeout,
			BlockOriginal:       true,
			AbortOnOtherCommand: true,
		})
		if task.Completed() {
			return c.Fail(MsgPermClearStale, name)
		}

		go func() {
			<-task.Done()
			if task.Outcome() != waittask.Executed {
				env.Dispatch.Tell(caller, domain.NewMessage(MsgPermClearStale, name).WithColor(domain.ColorWarning))
				return
			}
			// The clear runs after the handler returned, so it takes the
			// family itself to stay serialized with grant and revoke.
			if family != nil {
				if err := family.Acquire(env.background()); err != nil {
					env.Dispatch.Tell(caller, domain.NewMessage(MsgPermClearStale, name).WithColor(domain.ColorWarning))
					return
				}
				defer family.Release()
			}
			n, err := clearGrants(env, subject)
			if err != nil {
				env.Logger.Error("perm: clear %s for %s: %v", subject, caller.ID(), err)
				env.Dispatch.Tell(caller, domain.NewMessage(MsgPermClearStale, name).WithColor(domain.ColorError))
				return
			}
			env.Logger.Info("perm: %s cleared %d grant(s) of %s", caller.ID(), n, subject)
			env.Dispatch.Tell(caller, domain.NewMessage(MsgPermCleared, n, name).WithColor(domain.ColorSuccess))
		}()

		return c.ReplyColor(domain.ColorWarning, MsgPermClearAsk, name, confirmTimeout)
	})
}

func clearGrants(env *Env, subject domain.CallerID) (int, error) {
	ctx := env.background()
	leaves, err := env.Permissions.List(ctx, subject)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, leaf := range leaves {
		removed, err := env.Permissions.Revoke(ctx, subject, leaf)
		if err != nil {
			return n, err
		}
		if removed {
			n++
		}
	}
	return n, nil
}
