package dispatchers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/footprint-tools/switchboard/internal/command"
	"github.com/footprint-tools/switchboard/internal/log"
	"github.com/footprint-tools/switchboard/internal/tokenizer"
)

func flag(name string, pos int) tokenizer.Flag {
	return tokenizer.Flag{Name: name, Dashes: 1, Position: pos}
}

func TestHelpArguments(t *testing.T) {
	tests := []struct {
		name      string
		cmd       string
		args      []string
		flags     []tokenizer.Flag
		helpAt    int
		wantArgs  []string
		wantFlags []tokenizer.Flag
	}{
		{
			name:     "no help token",
			cmd:      "kit",
			args:     []string{"give", "x"},
			helpAt:   -1,
			wantArgs: []string{"kit", "give", "x"},
		},
		{
			name:     "no arguments",
			cmd:      "kit",
			helpAt:   -1,
			wantArgs: []string{"kit"},
		},
		{
			name:     "trailing help token is dropped",
			cmd:      "kit",
			args:     []string{"give", "help"},
			helpAt:   1,
			wantArgs: []string{"kit", "give"},
		},
		{
			name:     "help token alone",
			cmd:      "kit",
			args:     []string{"help"},
			helpAt:   0,
			wantArgs: []string{"kit"},
		},
		{
			name:     "help token mid-sequence is removed",
			cmd:      "kit",
			args:     []string{"help", "give", "x"},
			helpAt:   0,
			wantArgs: []string{"kit", "give", "x"},
		},
		{
			name:     "help token between arguments",
			cmd:      "a",
			args:     []string{"b", "help", "c"},
			helpAt:   1,
			wantArgs: []string{"a", "b", "c"},
		},
		{
			name:     "out of range index means no help token",
			cmd:      "kit",
			args:     []string{"give"},
			helpAt:   5,
			wantArgs: []string{"kit", "give"},
		},
		{
			name:      "flags shift with the prepended name",
			cmd:       "kit",
			args:      []string{"give", "x"},
			flags:     []tokenizer.Flag{flag("a", -1), flag("b", 0), flag("c", 1)},
			helpAt:    -1,
			wantArgs:  []string{"kit", "give", "x"},
			wantFlags: []tokenizer.Flag{flag("a", 0), flag("b", 1), flag("c", 2)},
		},
		{
			name:      "flags around a trailing help token",
			cmd:       "kit",
			args:      []string{"give", "help"},
			flags:     []tokenizer.Flag{flag("before", 0), flag("after", 1)},
			helpAt:    1,
			wantArgs:  []string{"kit", "give"},
			wantFlags: []tokenizer.Flag{flag("before", 1), flag("after", 1)},
		},
		{
			name:      "flags around a mid-sequence help token",
			cmd:       "kit",
			args:      []string{"help", "give"},
			flags:     []tokenizer.Flag{flag("first", -1), flag("mid", 0), flag("last", 1)},
			helpAt:    0,
			wantArgs:  []string{"kit", "give"},
			wantFlags: []tokenizer.Flag{flag("first", 0), flag("mid", 0), flag("last", 1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, flags := HelpArguments(tt.cmd, tt.args, tt.flags, tt.helpAt)
			require.Equal(t, tt.wantArgs, args)
			require.Equal(t, tt.wantFlags, flags)
		})
	}
}

func TestHelpArguments_DoesNotModifyInput(t *testing.T) {
	args := []string{"give", "help"}
	flags := []tokenizer.Flag{flag("x", 0)}

	HelpArguments("kit", args, flags, 1)

	require.Equal(t, []string{"give", "help"}, args)
	require.Equal(t, 0, flags[0].Position)
}

func TestRebase(t *testing.T) {
	noop := command.Func(func(c *command.Context) command.Result { return command.OK() })
	reg, err := command.Build([]command.Spec{
		{Name: "go", New: noop},
		{Name: "a", New: noop},
		{Parent: "a", Name: "b", New: noop},
		{Parent: "a b", Name: "c", New: noop},
	}, log.NopLogger{})
	require.NoError(t, err)
	c, _ := reg.ByKey("a b c")
	a, _ := reg.ByKey("a")

	// "/go -q x -v y" switching to "a b c" keeps [x y] visible.
	p := tokenizer.ParsedCommand{
		Name:  "go",
		Args:  []string{"x", "y"},
		Flags: []tokenizer.Flag{flag("q", -1), flag("v", 0)},
	}
	got, offset := rebase(reg, p, 0, c)

	require.Equal(t, 2, offset)
	require.Equal(t, "a", got.Name)
	require.Equal(t, []string{"b", "c", "x", "y"}, got.Args)
	require.Equal(t, []tokenizer.Flag{flag("q", 1), flag("v", 2)}, got.Flags)

	// And back up to the root.
	back, offset := rebase(reg, got, 2, a)
	require.Zero(t, offset)
	require.Equal(t, p.Args, back.Args)
	require.Equal(t, []tokenizer.Flag{flag("q", -1), flag("v", 0)}, back.Flags)
}
