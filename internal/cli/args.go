package cli

import (
	"strings"

	"github.com/footprint-tools/switchboard/internal/config"
	"github.com/footprint-tools/switchboard/internal/usage"
)

// Invocation is a parsed sb command line.
type Invocation struct {
	Command string
	Args    []string
	Help    bool
	Version bool
	// Overrides holds config values set by flags.
	Overrides map[string]string
}

// Parse splits process arguments into a command, its arguments and flags.
// Flags may appear anywhere; "--" ends flag parsing.
func Parse(args []string) (Invocation, error) {
	inv := Invocation{Overrides: make(map[string]string)}
	var words []string

	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			words = append(words, args[i+1:]...)
			break
		}
		if len(a) < 2 || a[0] != '-' {
			words = append(words, a)
			continue
		}

		name, value, hasValue := strings.Cut(a, "=")
		f, ok := lookupFlag(name)
		if !ok {
			return Invocation{}, usage.InvalidArgument(a, "a flag listed in 'sb help'")
		}

		switch {
		case f.Value && !hasValue:
			if i+1 >= len(args) {
				return Invocation{}, usage.MissingArgument(strings.Trim(f.ValueHint, "<>"))
			}
			i++
			value = args[i]
		case !f.Value && hasValue:
			return Invocation{}, usage.InvalidArgument(a, name+" without a value")
		}

		switch f.Names[0] {
		case "--help":
			inv.Help = true
		case "--version":
			inv.Version = true
		case "--no-color":
			inv.Overrides[f.ConfigKey] = "false"
		default:
			inv.Overrides[f.ConfigKey] = value
		}
	}

	inv.Command = "serve"
	if len(words) > 0 {
		inv.Command = strings.ToLower(words[0])
	}
	if len(words) > 1 {
		inv.Args = words[1:]
	}
	if _, ok := lookupCommand(inv.Command); !ok {
		return Invocation{}, usage.UnknownCommand(inv.Command, nil)
	}
	return inv, nil
}

// Getter layers the flag overrides over base.
func (inv Invocation) Getter(base config.Getter) config.Getter {
	return func(key string) (string, bool) {
		if v, ok := inv.Overrides[key]; ok {
			return v, true
		}
		return base(key)
	}
}
