// Package format renders timestamps for console output.
package format

import (
	"strings"
	"time"
)

// Presets accepted by the console_clock setting.
const (
	Clock24h = "24h"
	Clock12h = "12h"
	ClockOff = "off"
)

// Layout returns the Go time layout for a console_clock value.
// Unknown values are taken as a custom layout; ClockOff returns "".
func Layout(setting string) string {
	switch strings.ToLower(strings.TrimSpace(setting)) {
	case "", Clock24h:
		return "15:04:05"
	case Clock12h:
		return "3:04:05 PM"
	case ClockOff, "false", "none":
		return ""
	default:
		return setting
	}
}

// Stamp prefixes line with t in layout.
// Example output: "[15:04:05] Granted kit.give to bob."
func Stamp(t time.Time, layout, line string) string {
	if layout == "" {
		return line
	}
	return "[" + t.Format(layout) + "] " + line
}

// Clock returns a stamping function bound to layout and now.
func Clock(layout string, now func() time.Time) func(string) string {
	if now == nil {
		now = time.Now
	}
	return func(line string) string {
		return Stamp(now(), layout, line)
	}
}
