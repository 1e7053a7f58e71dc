package actions

import (
	"fmt"

	"github.com/footprint-tools/switchboard/internal/command"
)

// MsgCooldownReset confirms a cooldown reset.
const MsgCooldownReset = "Cleared %d active cooldown(s) for %s."

func resetCooldowns(env *Env) command.HandlerFactory {
	return command.Func(func(c *command.Context) command.Result {
		subject, name, ok := subjectArg(c, 0)
		if !ok {
			subject, name = c.Caller().ID(), c.Caller().Name()
		}
		n, err := env.Cooldowns.Reset(c.Context(), subject)
		if err != nil {
			return command.Failed(fmt.Errorf("reset cooldowns of %s: %w", subject, err))
		}
		c.SkipCooldown()
		return c.Success(MsgCooldownReset, n, name)
	})
}
