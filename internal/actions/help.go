package actions

import (
	"github.com/footprint-tools/switchboard/internal/command"
	"github.com/footprint-tools/switchboard/internal/dispatchers"
	"github.com/footprint-tools/switchboard/internal/usage"
)

// showHelp lists the commands the caller may run, or details the command
// named by the arguments.
func showHelp() command.HandlerFactory {
	return command.Func(func(c *command.Context) command.Result {
		reg := c.Registry()
		args := c.Args()

		if len(args) == 0 {
			for _, msg := range dispatchers.Overview(c) {
				c.Send(msg)
			}
			return command.Result{Status: command.StatusResponded}
		}

		d, ok := dispatchers.HelpTarget(reg, args)
		if !ok {
			return c.FailWith(usage.UnknownCommand(args[0], dispatchers.FindSimilarCommands(args[0], reg.Roots(), 3)))
		}
		for _, msg := range dispatchers.CommandHelp(c, d) {
			c.Send(msg)
		}
		return command.Result{Status: command.StatusResponded}
	})
}
