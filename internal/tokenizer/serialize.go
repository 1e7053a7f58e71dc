package tokenizer

import (
	"strings"
	"unicode"
)

// Serialize renders p back to text that Parse turns into p again. A zero
// prefix omits the prefix rune. The sentinel serializes to "".
func Serialize(p ParsedCommand, prefix rune) string {
	if !p.IsCommand() {
		return ""
	}

	var b strings.Builder
	if prefix != 0 {
		b.WriteRune(prefix)
	}
	b.WriteString(quote(p.Name))

	f := 0
	writeFlags := func(pos int) {
		for f < len(p.Flags) && p.Flags[f].Position <= pos {
			b.WriteByte(' ')
			b.WriteString(formatFlag(p.Flags[f]))
			f++
		}
	}

	writeFlags(-1)
	for i, arg := range p.Args {
		b.WriteByte(' ')
		b.WriteString(quote(arg))
		writeFlags(i)
	}
	for ; f < len(p.Flags); f++ {
		b.WriteByte(' ')
		b.WriteString(formatFlag(p.Flags[f]))
	}
	return b.String()
}

func formatFlag(f Flag) string {
	n := f.Dashes
	if n < 1 {
		n = 1
	}
	if n > 2 {
		n = 2
	}
	name := f.Name
	first, _ := firstRune(name)
	if needsQuote(name) || unicode.IsDigit(first) || first == '.' {
		name = wrap(name)
	}
	return strings.Repeat("-", n) + name
}

// quote wraps tok in quotes when it would not parse back as a single bare word.
func quote(tok string) string {
	if needsQuote(tok) {
		return wrap(tok)
	}
	return tok
}

func needsQuote(tok string) bool {
	if tok == "" {
		return true
	}
	if strings.IndexFunc(tok, unicode.IsSpace) >= 0 || strings.IndexFunc(tok, isQuote) >= 0 {
		return true
	}
	first, _ := firstRune(tok)
	return IsDash(first) || first == escape || strings.HasSuffix(tok, string(escape))
}

// wrap picks the first quote pair whose runes do not occur in tok.
func wrap(tok string) string {
	for _, q := range quotePairs {
		if !strings.ContainsRune(tok, q[0]) && !strings.ContainsRune(tok, q[1]) {
			return string(q[0]) + tok + string(q[1])
		}
	}
	return `"` + tok + `"`
}

func firstRune(s string) (rune, bool) {
	for _, c := range s {
		return c, true
	}
	return 0, false
}
