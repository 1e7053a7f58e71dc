package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/footprint-tools/switchboard/internal/domain"
	"github.com/footprint-tools/switchboard/internal/paths"
)

// EnvPrefix prefixes environment overrides: log_level is read from SB_LOG_LEVEL.
const EnvPrefix = "SB_"

// Default configuration values (in code, not persisted)
var Defaults = map[string]func() string{
	"db_path":  func() string { return paths.DBPath() },
	"log_path": func() string { return paths.LogFilePath() },
}

func init() {
	for _, key := range domain.ConfigKeys {
		if _, ok := Defaults[key.Name]; ok {
			continue
		}
		value := key.Default
		Defaults[key.Name] = func() string { return value }
	}
}

// EnvName returns the environment variable that overrides key.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(key)
}

// Get returns the value for a config key.
// It checks the environment first, then the config file, then the default.
// Returns the value and whether it was found.
func Get(key string) (string, bool) {
	if value, ok := os.LookupEnv(EnvName(key)); ok {
		return value, true
	}

	lines, err := ReadLines()
	if err != nil {
		return lookupDefault(key)
	}

	cfg, err := Parse(lines)
	if err != nil {
		return lookupDefault(key)
	}

	if value, exists := cfg[key]; exists {
		return value, true
	}

	return lookupDefault(key)
}

func lookupDefault(key string) (string, bool) {
	if defaultFn, ok := Defaults[key]; ok {
		return defaultFn(), true
	}
	return "", false
}

// GetAll returns all config values (defaults, then the file, then the environment).
func GetAll() (map[string]string, error) {
	result := make(map[string]string)

	for key, valueFn := range Defaults {
		result[key] = valueFn()
	}

	if lines, err := ReadLines(); err == nil {
		if cfg, err := Parse(lines); err == nil {
			for key, value := range cfg {
				result[key] = value
			}
		}
	}

	for key := range result {
		if value, ok := os.LookupEnv(EnvName(key)); ok {
			result[key] = value
		}
	}

	return result, nil
}

// Getter is the lookup function used by the typed helpers below.
type Getter func(key string) (string, bool)

// Bool reads key as a boolean, falling back to def when missing or invalid.
func (g Getter) Bool(key string, def bool) bool {
	value, ok := g(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return def
	}
	return b
}

// Int reads key as an integer, falling back to def when missing or invalid.
func (g Getter) Int(key string, def int) int {
	value, ok := g(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return def
	}
	return n
}

// Float reads key as a float, falling back to def when missing or invalid.
func (g Getter) Float(key string, def float64) float64 {
	value, ok := g(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return def
	}
	return f
}

// Seconds reads key as a whole number of seconds.
func (g Getter) Seconds(key string, def time.Duration) time.Duration {
	n := g.Int(key, -1)
	if n < 0 {
		return def
	}
	return time.Duration(n) * time.Second
}

// String reads key, falling back to def when missing.
func (g Getter) String(key, def string) string {
	value, ok := g(key)
	if !ok {
		return def
	}
	return value
}

// List reads key as a comma separated list, dropping empty items.
func (g Getter) List(key string) []string {
	value, ok := g(key)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
