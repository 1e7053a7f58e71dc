package actions

import (
	"github.com/footprint-tools/switchboard/internal/command"
)

const (
	MsgDutyNotOperator = "Only operators can go on or off duty."
	MsgDutyOn          = "You are now on duty."
	MsgDutyOff         = "You are now off duty. Permission and cooldown checks no longer apply to you."
)

// toggleDuty switches an operator between on duty (checked like everyone
// else) and off duty (privileged).
func toggleDuty(env *Env) command.HandlerFactory {
	return command.Func(func(c *command.Context) command.Result {
		op, ok := c.Caller().(Operator)
		if !ok || !op.Operator() {
			return c.Fail(MsgDutyNotOperator)
		}

		var on bool
		if err := c.OnMain(func() {
			on = !op.OnDuty()
			op.SetOnDuty(on)
		}); err != nil {
			return command.Failed(err)
		}

		env.Logger.Info("duty: %s on duty: %t", op.ID(), on)
		c.SkipCooldown()
		if on {
			return c.Success(MsgDutyOn)
		}
		return c.Success(MsgDutyOff)
	})
}
