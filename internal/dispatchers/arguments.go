package dispatchers

import (
	"github.com/footprint-tools/switchboard/internal/command"
	"github.com/footprint-tools/switchboard/internal/tokenizer"
)

// HelpArguments reshapes a typed command into the arguments of the help
// command, so "/kit give help", "/kit help give" and a plain "/kit give"
// switching to help all become "/help kit give". name is the typed command
// name, helpAt the index of the help token in args or -1 when there is
// none. Flags keep following the argument they followed.
func HelpArguments(name string, args []string, flags []tokenizer.Flag, helpAt int) ([]string, []tokenizer.Flag) {
	if helpAt >= len(args) {
		helpAt = -1
	}

	out := make([]string, 0, len(args)+1)
	out = append(out, name)
	cut := len(args)
	if helpAt < 0 {
		out = append(out, args...)
	} else {
		out = append(out, args[:helpAt]...)
		out = append(out, args[helpAt+1:]...)
		cut = helpAt
	}

	var moved []tokenizer.Flag
	if flags != nil {
		moved = make([]tokenizer.Flag, len(flags))
	}
	for i, f := range flags {
		if f.Position < cut {
			f.Position++
		}
		moved[i] = f
	}
	return out, moved
}

// rebase rewrites the arguments visible at offset as a direct invocation of
// target: the names on target's path lead, and the returned offset is
// target's depth, exactly what resolving the full path would produce.
func rebase(reg *command.Registry, p tokenizer.ParsedCommand, offset int, target *command.Descriptor) (tokenizer.ParsedCommand, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(p.Args) {
		offset = len(p.Args)
	}

	path := append(command.Names(reg.Ancestors(target)), target.Name())
	prefix := path[1:]

	args := make([]string, 0, len(prefix)+len(p.Args)-offset)
	args = append(args, prefix...)
	args = append(args, p.Args[offset:]...)

	var flags []tokenizer.Flag
	if p.Flags != nil {
		flags = make([]tokenizer.Flag, len(p.Flags))
	}
	for i, f := range p.Flags {
		if f.Position < offset {
			f.Position = len(prefix) - 1
		} else {
			f.Position += len(prefix) - offset
		}
		flags[i] = f
	}

	return tokenizer.ParsedCommand{Name: path[0], Args: args, Flags: flags}, len(prefix)
}
