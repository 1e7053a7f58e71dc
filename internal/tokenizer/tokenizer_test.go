package tokenizer

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_KitGiveExample(t *testing.T) {
	p := Parse(`/kit give "M4 Kit" -force"`, true)

	require.Equal(t, "kit", p.Name)
	require.Equal(t, []string{"give", "M4 Kit"}, p.Args)
	require.Equal(t, []Flag{{Name: "force", Dashes: 1, Position: 1}}, p.Flags)
}

func TestParse_MissingPrefixIsSentinel(t *testing.T) {
	tests := []string{
		"kit give",
		"",
		"   ",
		"/",
		`\`,
		`/""`,
	}

	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			p := Parse(in, true)
			require.Equal(t, ParsedCommand{}, p)
			require.False(t, p.IsCommand())
		})
	}
}

func TestParse_PrefixOptional(t *testing.T) {
	require.Equal(t, "help", Parse("help", false).Name)
	require.Equal(t, "help", Parse("/help", false).Name)
	require.Equal(t, "help", Parse("@help", true).Name)
	require.Equal(t, "help", Parse(`\help`, true).Name)
}

func TestParse_Tokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  ParsedCommand
	}{
		{
			name:  "quoted name",
			input: `/"give kit" a`,
			want:  ParsedCommand{Name: "give kit", Args: []string{"a"}},
		},
		{
			name:  "every quote style",
			input: "/say \"a b\" 'c d' `e f` “g h” ‘i j’ «k l»",
			want:  ParsedCommand{Name: "say", Args: []string{"a b", "c d", "e f", "g h", "i j", "k l"}},
		},
		{
			name:  "stray quotes after span",
			input: `/say "a b"'" c`,
			want:  ParsedCommand{Name: "say", Args: []string{"a b", "c"}},
		},
		{
			name:  "unterminated span",
			input: `/say "a b c”`,
			want:  ParsedCommand{Name: "say", Args: []string{"a b c"}},
		},
		{
			name:  "double dash flag",
			input: "/tp --silent bob",
			want: ParsedCommand{
				Name:  "tp",
				Args:  []string{"bob"},
				Flags: []Flag{{Name: "silent", Dashes: 2, Position: -1}},
			},
		},
		{
			name:  "alternate dashes",
			input: "/tp –a —b −c",
			want: ParsedCommand{
				Name: "tp",
				Flags: []Flag{
					{Name: "a", Dashes: 1, Position: -1},
					{Name: "b", Dashes: 1, Position: -1},
					{Name: "c", Dashes: 1, Position: -1},
				},
			},
		},
		{
			name:  "quoted flag name",
			input: `/tp -"two words" x`,
			want: ParsedCommand{
				Name:  "tp",
				Args:  []string{"x"},
				Flags: []Flag{{Name: "two words", Dashes: 1, Position: -1}},
			},
		},
		{
			name:  "escaped dash is literal",
			input: `/say \-x`,
			want:  ParsedCommand{Name: "say", Args: []string{"-x"}},
		},
		{
			name:  "negative number and triple dash are words",
			input: "/add -5 -.5 ---x -- -",
			want:  ParsedCommand{Name: "add", Args: []string{"-5", "-.5", "---x", "--", "-"}},
		},
		{
			name:  "trailing escape stripped",
			input: `/say hi \`,
			want:  ParsedCommand{Name: "say", Args: []string{"hi"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Parse(tt.input, true))
		})
	}
}

func TestSerialize(t *testing.T) {
	p := ParsedCommand{
		Name: "kit",
		Args: []string{"give", "M4 Kit", "-x", `say "hi"`, ""},
		Flags: []Flag{
			{Name: "v", Dashes: 2, Position: -1},
			{Name: "force", Dashes: 1, Position: 1},
		},
	}

	require.Equal(t, `/kit --v give "M4 Kit" -force "-x" 'say "hi"' ""`, Serialize(p, '/'))
	require.Equal(t, "", Serialize(ParsedCommand{}, '/'))
	require.Equal(t, "kit", Serialize(ParsedCommand{Name: "kit"}, 0))
}

func TestSerialize_QuotePairSelection(t *testing.T) {
	require.Equal(t, `'a"b'`, quote(`a"b`))
	require.Equal(t, "`a\"'b`", quote(`a"'b`))
	require.Equal(t, `-"5"`, formatFlag(Flag{Name: "5", Dashes: 1}))
}

func TestRoundTrip(t *testing.T) {
	fixed := []string{
		`/kit give "M4 Kit" -force"`,
		`/a -b "c d" --e 'f"g' \-h i\ -"j k"`,
		"/x “y z” ‘q’ «r s» -- --- -1",
		`/"na me" -"" -”`,
	}
	for _, in := range fixed {
		first := Parse(in, true)
		require.Equal(t, first, Parse(Serialize(first, '/'), true), in)
	}

	// Backtick, ‘’ and «» stay out of the alphabet so a free quote pair
	// always exists for serialization.
	alphabet := []rune("ab1. \t-–\\\"'“”")
	rng := rand.New(rand.NewSource(42))
	for n := 0; n < 5000; n++ {
		var sb strings.Builder
		sb.WriteRune('/')
		for k := rng.Intn(24); k > 0; k-- {
			sb.WriteRune(alphabet[rng.Intn(len(alphabet))])
		}
		in := sb.String()

		first := Parse(in, true)
		again := Parse(Serialize(first, '/'), true)
		require.Equal(t, first, again, "input %q serialized %q", in, Serialize(first, '/'))
	}
}
