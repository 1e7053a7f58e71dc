package actions

import "github.com/footprint-tools/switchboard/internal/command"

// MsgVersion reports the server version.
const MsgVersion = "switchboard version %s"

func showVersion(env *Env) command.HandlerFactory {
	return command.Func(func(c *command.Context) command.Result {
		return c.Reply(MsgVersion, env.version())
	})
}
