package actions

import (
	"strings"

	"github.com/footprint-tools/switchboard/internal/command"
)

const (
	MsgWho      = "Online (%d): %s"
	MsgWhoEmpty = "Nobody is online."
)

func listOnline(env *Env) command.HandlerFactory {
	return command.Func(func(c *command.Context) command.Result {
		callers := env.Sessions.All()
		if len(callers) == 0 {
			return c.Reply(MsgWhoEmpty)
		}
		names := make([]string, len(callers))
		for i, caller := range callers {
			names[i] = caller.Name()
			if op, ok := caller.(Operator); ok && op.Operator() && !op.OnDuty() {
				names[i] += "*"
			}
		}
		return c.Reply(MsgWho, len(callers), strings.Join(names, ", "))
	})
}
