package actions

import (
	"strconv"
	"strings"

	"github.com/footprint-tools/switchboard/internal/command"
	"github.com/footprint-tools/switchboard/internal/usage"
)

// MsgRolled reports a roll.
const MsgRolled = "%s rolled %s (total %d)."

const (
	defaultSides = 6
	maxSides     = 1000
	maxDice      = 20
)

func roll(env *Env) command.HandlerFactory {
	return command.Func(func(c *command.Context) command.Result {
		sides, count := defaultSides, 1

		if s, ok := c.Arg(0); ok {
			n, ok := command.ArgInt[int](c, 0)
			if !ok || n < 2 || n > maxSides {
				c.SkipCooldown()
				return c.FailWith(usage.InvalidArgument(s, "a number of sides from 2 to 1000"))
			}
			sides = n
		}
		if s, ok := c.Arg(1); ok {
			n, ok := command.ArgInt[int](c, 1)
			if !ok || n < 1 || n > maxDice {
				c.SkipCooldown()
				return c.FailWith(usage.InvalidArgument(s, "a number of dice from 1 to 20"))
			}
			count = n
		}

		rolls := make([]string, count)
		total := 0
		for i := range rolls {
			n := env.roll(sides)
			total += n
			rolls[i] = strconv.Itoa(n)
		}
		return c.Reply(MsgRolled, c.Caller().Name(), strings.Join(rolls, ", "), total)
	})
}
