package cli

import "github.com/footprint-tools/switchboard/internal/command"

// Flag is a command-line flag. Flags with a ConfigKey override that key
// for the run.
type Flag struct {
	command.FlagDescriptor
	ConfigKey string
	// Value is set for flags that take a value.
	Value bool
}

// Flags are the flags sb accepts.
var Flags = []Flag{
	{
		FlagDescriptor: command.FlagDescriptor{Names: []string{"--help", "-h"}, Description: "Show help"},
	},
	{
		FlagDescriptor: command.FlagDescriptor{Names: []string{"--version", "-v"}, Description: "Show version"},
	},
	{
		FlagDescriptor: command.FlagDescriptor{Names: []string{"--no-color"}, Description: "Disable colored console output"},
		ConfigKey:      "color",
	},
	{
		FlagDescriptor: command.FlagDescriptor{Names: []string{"--listen", "-l"}, ValueHint: "<addr>", Description: "Websocket listen address, empty to disable"},
		ConfigKey:      "listen_addr",
		Value:          true,
	},
	{
		FlagDescriptor: command.FlagDescriptor{Names: []string{"--db"}, ValueHint: "<path>", Description: "Path to the sqlite database"},
		ConfigKey:      "db_path",
		Value:          true,
	},
	{
		FlagDescriptor: command.FlagDescriptor{Names: []string{"--console"}, ValueHint: "<mode>", Description: "Operator console: auto, ui, line, off"},
		ConfigKey:      "console_mode",
		Value:          true,
	},
	{
		FlagDescriptor: command.FlagDescriptor{Names: []string{"--log-level"}, ValueHint: "<level>", Description: "Minimum log level: debug, info, warn, error"},
		ConfigKey:      "log_level",
		Value:          true,
	},
	{
		FlagDescriptor: command.FlagDescriptor{Names: []string{"--locale"}, ValueHint: "<tag>", Description: "Locale for the console and callers without one"},
		ConfigKey:      "default_locale",
		Value:          true,
	},
}

// lookupFlag finds the flag named name, as typed.
func lookupFlag(name string) (Flag, bool) {
	for _, f := range Flags {
		for _, n := range f.Names {
			if n == name {
				return f, true
			}
		}
	}
	return Flag{}, false
}
