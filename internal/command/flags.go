package command

import (
	"strings"

	"github.com/footprint-tools/switchboard/internal/tokenizer"
)

// Flags returns every flag of the invocation.
func (c *Context) Flags() []tokenizer.Flag {
	return c.parsed.Flags
}

// MatchFlag reports whether any flag equals one of the alternatives,
// ignoring case. Leading dashes on an alternative are ignored, so
// MatchFlag("-e", "e") and MatchFlag("e") agree.
func (c *Context) MatchFlag(alternatives ...string) bool {
	_, ok := c.findFlag(alternatives)
	return ok
}

// FlagArg returns the argument typed right after the flag, as in
// "/kick bob -reason spam".
func (c *Context) FlagArg(alternatives ...string) (string, bool) {
	f, ok := c.findFlag(alternatives)
	if !ok {
		return "", false
	}
	i := f.Position + 1
	if i < 0 || i >= len(c.parsed.Args) {
		return "", false
	}
	return c.parsed.Args[i], true
}

func (c *Context) findFlag(alternatives []string) (tokenizer.Flag, bool) {
	for _, f := range c.parsed.Flags {
		for _, alt := range alternatives {
			if strings.EqualFold(f.Name, strings.TrimLeftFunc(alt, tokenizer.IsDash)) {
				return f, true
			}
		}
	}
	return tokenizer.Flag{}, false
}
