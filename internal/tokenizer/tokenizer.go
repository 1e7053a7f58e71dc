// Package tokenizer turns raw command text into a name, ordered arguments
// and ordered flags, and serializes them back.
package tokenizer

import (
	"strings"
	"unicode"
)

// Prefixes are the runes that may introduce a command.
const Prefixes = `/@\`

// escape marks a literal dash at the start of a token (\-x) and is stripped
// when it trails the whole input.
const escape = '\\'

// quotePairs lists the interchangeable quote styles, in serialization preference.
var quotePairs = [][2]rune{
	{'"', '"'},
	{'\'', '\''},
	{'`', '`'},
	{'“', '”'}, // “ ”
	{'‘', '’'}, // ‘ ’
	{'«', '»'}, // « »
}

// dashes are the interchangeable flag markers.
var dashes = []rune{'-', '–', '—', '−'}

// ParsedCommand is the result of Parse. The zero value is the "no command"
// sentinel.
type ParsedCommand struct {
	Name  string
	Args  []string
	Flags []Flag
}

// Flag is a dash-prefixed token. Position is the index of the argument that
// precedes it, or -1 when it comes before every argument.
type Flag struct {
	Name     string
	Dashes   int
	Position int
}

// IsCommand reports whether p holds a command, as opposed to the sentinel.
func (p ParsedCommand) IsCommand() bool {
	return p.Name != ""
}

// Parse tokenizes input. When requirePrefix is set, input that does not start
// with one of Prefixes yields the zero ParsedCommand. Parse never fails.
func Parse(input string, requirePrefix bool) ParsedCommand {
	s := strings.TrimSpace(input)
	s = strings.TrimSuffix(s, string(escape))
	s = strings.TrimSpace(s)

	r := []rune(s)
	if len(r) == 0 {
		return ParsedCommand{}
	}
	i := 0
	if strings.ContainsRune(Prefixes, r[0]) {
		i = 1
	} else if requirePrefix {
		return ParsedCommand{}
	}

	i = skipSpace(r, i)
	if i >= len(r) {
		return ParsedCommand{}
	}

	var name string
	if _, ok := closerFor(r[i]); ok {
		name, i = readQuoted(r, i)
	} else {
		name, i = readWord(r, i)
	}
	if name == "" {
		return ParsedCommand{}
	}

	p := ParsedCommand{Name: name}
	for {
		i = skipSpace(r, i)
		if i >= len(r) {
			break
		}

		c := r[i]
		switch {
		case c == escape && i+1 < len(r) && IsDash(r[i+1]):
			var w string
			w, i = readWord(r, i+1)
			p.Args = append(p.Args, w)

		case isOpener(c):
			var q string
			q, i = readQuoted(r, i)
			p.Args = append(p.Args, q)

		case IsDash(c):
			flag, next, ok := readFlag(r, i)
			if ok {
				flag.Position = len(p.Args) - 1
				p.Flags = append(p.Flags, flag)
				i = next
				continue
			}
			var w string
			w, i = readWord(r, i)
			p.Args = append(p.Args, w)

		default:
			var w string
			w, i = readWord(r, i)
			p.Args = append(p.Args, w)
		}
	}
	return p
}

// readFlag reads a 1-2 dash flag at r[i]. A run of three or more dashes, a
// dash before a digit or '.', or an empty name is not a flag.
func readFlag(r []rune, i int) (Flag, int, bool) {
	j := i
	for j < len(r) && IsDash(r[j]) {
		j++
	}
	n := j - i
	if n > 2 || j >= len(r) {
		return Flag{}, i, false
	}
	c := r[j]
	if unicode.IsSpace(c) || unicode.IsDigit(c) || c == '.' {
		return Flag{}, i, false
	}

	var name string
	var next int
	if isOpener(c) {
		name, next = readQuoted(r, j)
	} else {
		name, next = readWord(r, j)
		name = trimQuotes(name)
	}
	if name == "" {
		return Flag{}, i, false
	}
	return Flag{Name: name, Dashes: n}, next, true
}

// readQuoted reads a quoted span opening at r[i]. Quote characters directly
// after the closing quote are dropped; an unterminated span runs to the end
// of input with its trailing quote characters trimmed.
func readQuoted(r []rune, i int) (string, int) {
	closer, _ := closerFor(r[i])
	for j := i + 1; j < len(r); j++ {
		if r[j] == closer {
			k := j + 1
			for k < len(r) && isQuote(r[k]) {
				k++
			}
			return string(r[i+1 : j]), k
		}
	}
	return trimQuotes(string(r[i+1:])), len(r)
}

func readWord(r []rune, i int) (string, int) {
	j := i
	for j < len(r) && !unicode.IsSpace(r[j]) {
		j++
	}
	return string(r[i:j]), j
}

func skipSpace(r []rune, i int) int {
	for i < len(r) && unicode.IsSpace(r[i]) {
		i++
	}
	return i
}

func trimQuotes(s string) string {
	return strings.TrimRightFunc(s, isQuote)
}

func closerFor(open rune) (rune, bool) {
	for _, q := range quotePairs {
		if q[0] == open {
			return q[1], true
		}
	}
	return 0, false
}

func isOpener(c rune) bool {
	_, ok := closerFor(c)
	return ok
}

func isQuote(c rune) bool {
	for _, q := range quotePairs {
		if c == q[0] || c == q[1] {
			return true
		}
	}
	return false
}

// IsDash reports whether c is one of the interchangeable flag dashes.
func IsDash(c rune) bool {
	for _, d := range dashes {
		if c == d {
			return true
		}
	}
	return false
}
