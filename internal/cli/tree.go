// Package cli describes the sb command line: its commands, flags and help
// text.
package cli

import (
	"fmt"
	"strings"
)

// Command is a top-level sb command.
type Command struct {
	Name    string
	Usage   string
	Summary string
}

// Commands are the commands sb understands. serve runs when none is given.
var Commands = []Command{
	{Name: "serve", Usage: "sb [serve] [flags]", Summary: "Run the server with its operator console"},
	{Name: "version", Usage: "sb version", Summary: "Show the version"},
	{Name: "config", Usage: "sb config <list|get|set|unset> [key] [value]", Summary: "Show or change configuration"},
	{Name: "help", Usage: "sb help", Summary: "Show this help"},
}

func lookupCommand(name string) (Command, bool) {
	for _, c := range Commands {
		if c.Name == name {
			return c, true
		}
	}
	return Command{}, false
}

// Help renders the command and flag overview.
func Help() string {
	var b strings.Builder
	b.WriteString("sb - command server\n\nUsage:\n  sb [command] [flags]\n\nCommands:\n")
	for _, c := range Commands {
		fmt.Fprintf(&b, "  %-10s %s\n", c.Name, c.Summary)
	}
	b.WriteString("\nFlags:\n")
	for _, f := range Flags {
		name := strings.Join(f.Names, ", ")
		if f.ValueHint != "" {
			name += " " + f.ValueHint
		}
		fmt.Fprintf(&b, "  %-24s %s\n", name, f.Description)
	}
	return b.String()
}
