package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/footprint-tools/switchboard/internal/domain"
)

// ErrUnknownKey is returned when editing a key that is not a known
// configuration key.
var ErrUnknownKey = errors.New("config: unknown key")

func checkKey(key string) error {
	if !domain.IsValidConfigKey(key) {
		return fmt.Errorf("%w %q", ErrUnknownKey, key)
	}
	return nil
}

// keyOf returns the key assigned on line, or "" for blanks, comments and
// lines without '='.
func keyOf(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return ""
	}
	key, _, ok := strings.Cut(trimmed, "=")
	if !ok {
		return ""
	}
	return strings.TrimSpace(key)
}

// quoteValue wraps value in double quotes when Parse would otherwise read
// it back differently.
func quoteValue(value string) string {
	if strings.HasPrefix(value, "#") || strings.ContainsAny(value, " \t") {
		return `"` + value + `"`
	}
	return value
}

// Set assigns value to key. The first assignment of key is rewritten in
// place, keeping its trailing comment, and any later duplicates are
// dropped so the new value is the one Parse sees. A missing key is
// appended. The bool reports whether key was already present.
func Set(lines []string, key, value string) ([]string, bool, error) {
	if err := checkKey(key); err != nil {
		return lines, false, err
	}

	entry := key + "=" + quoteValue(value)
	out := make([]string, 0, len(lines)+1)
	found := false

	for _, line := range lines {
		if keyOf(line) != key {
			out = append(out, line)
			continue
		}
		if found {
			continue
		}
		found = true

		_, raw, _ := strings.Cut(line, "=")
		if _, comment := splitValue(raw); comment != "" {
			out = append(out, entry+" "+comment)
		} else {
			out = append(out, entry)
		}
	}

	if !found {
		out = append(out, entry)
	}
	return out, found, nil
}

// Unset removes every assignment of key and reports whether any existed.
func Unset(lines []string, key string) ([]string, bool, error) {
	if err := checkKey(key); err != nil {
		return lines, false, err
	}

	var out []string
	removed := false
	for _, line := range lines {
		if keyOf(line) == key {
			removed = true
			continue
		}
		out = append(out, line)
	}
	return out, removed, nil
}
