package actions

import (
	"time"

	"github.com/footprint-tools/switchboard/internal/command"
	"github.com/footprint-tools/switchboard/internal/domain"
)

// MsgBroadcast is how an announcement reaches every player.
const MsgBroadcast = "[Broadcast] %s: %s"

// maxBroadcastLen bounds the announcement text, in runes.
const maxBroadcastLen = 280

func broadcast(env *Env) command.HandlerFactory {
	return command.Func(func(c *command.Context) command.Result {
		text := c.Rest(0)
		if text == "" {
			return c.ShowUsage()
		}
		if r := []rune(text); len(r) > maxBroadcastLen {
			text = string(r[:maxBroadcastLen])
		}

		from := c.Caller().Name()
		var recipients []domain.Caller
		if err := c.OnMain(func() {
			env.Board.Post(Announcement{From: from, Text: text, At: time.Now()})
			recipients = env.Sessions.All()
		}); err != nil {
			return command.Failed(err)
		}

		msg := domain.NewMessage(MsgBroadcast, from, text).WithColor(domain.ColorHeader)
		self := c.Caller().ID()
		for _, to := range recipients {
			if to.ID() != self {
				env.Dispatch.Tell(to, msg)
			}
		}
		c.Send(msg)
		return command.Result{Status: command.StatusResponded}
	})
}
