package command

import (
	"fmt"

	"github.com/footprint-tools/switchboard/internal/domain"
	"github.com/footprint-tools/switchboard/internal/usage"
)

// Send renders msg for the caller's culture and delivers it.
func (c *Context) Send(msg domain.Message) {
	text, color := c.Render(msg)
	if c.caller != nil {
		c.caller.Deliver(text, color)
	}
	c.responded.Store(true)
}

// Render translates msg without sending it.
func (c *Context) Render(msg domain.Message) (string, domain.Color) {
	if c.translator == nil {
		return fmt.Sprintf(msg.Key, msg.Args...), msg.Color
	}
	return c.translator.Render(c.culture.Tag, msg)
}

// Reply sends a message and finishes the invocation.
func (c *Context) Reply(format string, args ...any) Result {
	c.Send(domain.NewMessage(format, args...))
	return Result{Status: StatusResponded}
}

// ReplyColor sends a colored message and finishes the invocation.
func (c *Context) ReplyColor(color domain.Color, format string, args ...any) Result {
	c.Send(domain.NewMessage(format, args...).WithColor(color))
	return Result{Status: StatusResponded}
}

// Success sends a success message and finishes the invocation.
func (c *Context) Success(format string, args ...any) Result {
	return c.ReplyColor(domain.ColorSuccess, format, args...)
}

// Fail explains a refusal and aborts the invocation.
func (c *Context) Fail(format string, args ...any) Result {
	c.Send(domain.NewMessage(format, args...).WithColor(domain.ColorError))
	return Result{Status: StatusAborted}
}

// FailWith sends a usage error and aborts the invocation.
func (c *Context) FailWith(err *usage.Error) Result {
	c.Send(UsageMessage(err))
	return Result{Status: StatusAborted, Err: err}
}

// Abort stops without a message; the dispatcher sends a generic one.
func (c *Context) Abort() Result {
	return Result{Status: StatusAborted}
}

// ShowUsage explains the command's syntax and aborts.
func (c *Context) ShowUsage() Result {
	if c.desc == nil || c.desc.Usage() == "" {
		return c.SwitchHelp()
	}
	c.SkipCooldown()
	return c.Fail("Usage: %s", c.desc.Usage())
}

// SwitchHelp continues with help about the running command.
func (c *Context) SwitchHelp() Result {
	c.SkipCooldown()
	return SwitchToHelp()
}

// UsageMessage converts a usage error to an untranslated message.
func UsageMessage(err *usage.Error) domain.Message {
	if err.Format == "" {
		return domain.Message{Key: "%s", Args: []any{err.Message}, Color: domain.ColorError}
	}
	return domain.Message{Key: err.Format, Args: err.Args, Color: domain.ColorError}
}
