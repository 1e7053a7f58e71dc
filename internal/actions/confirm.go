package actions

import (
	"github.com/footprint-tools/switchboard/internal/command"
	"github.com/footprint-tools/switchboard/internal/domain"
)

// MsgNothingToConfirm answers /confirm when no command is waiting for it.
const MsgNothingToConfirm = "There is nothing to confirm."

func confirmNothing() command.HandlerFactory {
	return command.Func(func(c *command.Context) command.Result {
		return c.ReplyColor(domain.ColorMuted, MsgNothingToConfirm)
	})
}
