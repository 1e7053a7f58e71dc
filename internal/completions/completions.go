// Package completions suggests command lines for partial console input.
package completions

import (
	"sort"
	"strings"

	"github.com/footprint-tools/switchboard/internal/command"
)

// Complete returns full input lines that finish the last word of input
// with a command, sub-command or alias name. A leading "/" is kept.
// Input that does not resolve to a known command path yields nil.
func Complete(reg *command.Registry, input string) []string {
	if reg == nil || strings.TrimSpace(input) == "" {
		return nil
	}

	head := ""
	rest := strings.TrimLeft(input, " ")
	if strings.HasPrefix(rest, "/") {
		head = "/"
		rest = rest[1:]
	}

	words := strings.Split(rest, " ")
	last := words[len(words)-1]

	candidates := reg.Roots()
	for _, w := range words[:len(words)-1] {
		if w == "" {
			return nil
		}
		var parent *command.Descriptor
		for _, d := range candidates {
			if d.Matches(w) {
				parent = d
				break
			}
		}
		if parent == nil {
			return nil
		}
		head += w + " "
		candidates = reg.Children(parent)
	}

	seen := make(map[string]bool)
	var out []string
	for _, d := range candidates {
		for _, name := range append([]string{d.Name()}, d.Aliases()...) {
			if !hasPrefixFold(name, last) || seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, head+name)
		}
	}
	sort.Strings(out)
	return out
}

// Completer binds Complete to reg.
func Completer(reg *command.Registry) func(string) []string {
	return func(input string) []string {
		return Complete(reg, input)
	}
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
