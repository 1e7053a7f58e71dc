package completions

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/footprint-tools/switchboard/internal/command"
	"github.com/footprint-tools/switchboard/internal/log"
)

func noop(c *command.Context) command.Result { return command.OK() }

func testRegistry(t *testing.T) *command.Registry {
	t.Helper()
	reg, err := command.Build([]command.Spec{
		{Name: "perm"},
		{Parent: "perm", Name: "grant", New: command.Func(noop)},
		{Parent: "perm", Name: "revoke", New: command.Func(noop)},
		{Parent: "perm", Name: "list", New: command.Func(noop)},
		{Name: "roll", New: command.Func(noop)},
		{Name: "who", Aliases: []string{"online"}, New: command.Func(noop)},
	}, log.NopLogger{})
	require.NoError(t, err)
	return reg
}

func TestComplete(t *testing.T) {
	reg := testRegistry(t)

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: nil},
		{name: "root prefix", input: "p", want: []string{"perm"}},
		{name: "keeps slash", input: "/r", want: []string{"/roll"}},
		{name: "alias", input: "onl", want: []string{"online"}},
		{name: "ignores case", input: "WH", want: []string{"who"}},
		{name: "children", input: "perm ", want: []string{"perm grant", "perm list", "perm revoke"}},
		{name: "child prefix", input: "/perm g", want: []string{"/perm grant"}},
		{name: "unknown parent", input: "kit g", want: nil},
		{name: "no children", input: "roll 2", want: nil},
		{name: "double space", input: "perm  g", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Complete(reg, tt.input))
		})
	}
}

func TestCompleter(t *testing.T) {
	complete := Completer(testRegistry(t))
	require.Equal(t, []string{"roll"}, complete("ro"))
	require.Nil(t, Complete(nil, "ro"))
}
