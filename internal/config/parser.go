package config

import (
	"fmt"
	"strings"
)

// Parse turns key=value lines into a map. Blank lines and lines starting
// with '#' are skipped. A value may be wrapped in double quotes and may be
// followed by a " # comment", which is dropped.
func Parse(lines []string) (map[string]string, error) {
	cfg := make(map[string]string)

	for i, line := range lines {
		if i == 0 {
			line = strings.TrimPrefix(line, "\uFEFF")
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		key, raw, ok := strings.Cut(trimmed, "=")
		if !ok {
			return nil, fmt.Errorf("config: line %d: expected key=value", i+1)
		}

		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("config: line %d: empty key", i+1)
		}

		value, _ := splitValue(raw)
		cfg[key] = value
	}

	return cfg, nil
}

// splitValue separates the right-hand side of a key=value line into the
// value and any trailing comment. A '#' only starts a comment at the
// beginning of the value or after whitespace, so "a#b" stays intact.
func splitValue(raw string) (value, comment string) {
	raw = strings.TrimSpace(raw)

	if strings.HasPrefix(raw, `"`) {
		if end := strings.Index(raw[1:], `"`); end >= 0 {
			rest := strings.TrimSpace(raw[end+2:])
			if rest == "" || strings.HasPrefix(rest, "#") {
				return raw[1 : end+1], rest
			}
		}
		return raw, ""
	}

	for i := 0; i < len(raw); i++ {
		if raw[i] != '#' {
			continue
		}
		if i == 0 || raw[i-1] == ' ' || raw[i-1] == '\t' {
			return strings.TrimSpace(raw[:i]), raw[i:]
		}
	}
	return raw, ""
}
