// Package style provides semantic terminal styling using lipgloss.
//
// This package is the only place where lipgloss is imported. Styling is
// keyed by the semantic response colors of domain.Color rather than by
// visual names.
//
// When disabled, all helpers return the input string unchanged with no ANSI codes.
package style

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/footprint-tools/switchboard/internal/domain"
)

var (
	mu      sync.RWMutex
	enabled bool
	colors  ColorConfig
	styles  map[domain.Color]lipgloss.Style
)

// Init enables or disables styling and loads the color theme from cfg.
// NO_COLOR and SB_NO_COLOR disable styling regardless of enable.
//
// Call it once from main before the console starts.
func Init(enable bool, cfg map[string]string) {
	mu.Lock()
	defer mu.Unlock()

	if os.Getenv("NO_COLOR") != "" || os.Getenv("SB_NO_COLOR") != "" {
		enabled = false
		return
	}

	enabled = enable
	if !enabled {
		return
	}

	colors = LoadColorConfig(cfg)

	// Styled text is written through the console program, which does its
	// own TTY handling, so the profile is fixed rather than detected.
	lipgloss.SetColorProfile(termenv.ANSI256)

	styles = map[domain.Color]lipgloss.Style{
		domain.ColorSuccess: makeStyle(colors.Success),
		domain.ColorWarning: makeStyle(colors.Warning),
		domain.ColorError:   makeStyle(colors.Error),
		domain.ColorInfo:    makeStyle(colors.Info),
		domain.ColorMuted:   makeStyle(colors.Muted),
		domain.ColorHeader:  makeStyle(colors.Header),
	}
}

// makeStyle creates a lipgloss style from a color value.
// The value can be "bold" for bold styling, or an ANSI color number (0-255).
func makeStyle(value string) lipgloss.Style {
	if value == "bold" {
		return lipgloss.NewStyle().Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(value))
}

// Enabled returns whether styling is currently enabled.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// GetColors returns the current color configuration.
// Returns empty config if styling is not enabled.
func GetColors() ColorConfig {
	mu.RLock()
	defer mu.RUnlock()
	return colors
}

// Paint styles text for a response color. The default color and unknown
// colors leave text unchanged.
func Paint(color domain.Color, text string) string {
	mu.RLock()
	defer mu.RUnlock()
	if !enabled {
		return text
	}
	s, ok := styles[color]
	if !ok {
		return text
	}
	return s.Render(text)
}

func Success(text string) string { return Paint(domain.ColorSuccess, text) }
func Warning(text string) string { return Paint(domain.ColorWarning, text) }
func Error(text string) string   { return Paint(domain.ColorError, text) }
func Info(text string) string    { return Paint(domain.ColorInfo, text) }
func Muted(text string) string   { return Paint(domain.ColorMuted, text) }

// Header styles text for section headers or titles.
func Header(text string) string { return Paint(domain.ColorHeader, text) }
