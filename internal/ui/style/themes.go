package style

import (
	"os"
	"strings"

	"github.com/muesli/termenv"
)

// ColorConfig holds the color of each response kind.
// Values can be ANSI color numbers (0-255) or "bold" for bold styling.
type ColorConfig struct {
	Success string
	Warning string
	Error   string
	Info    string
	Muted   string
	Header  string
}

// BaseThemeNames lists available theme bases (auto-detects dark/light).
var BaseThemeNames = []string{"default", "neon", "mono", "contrast"}

// Themes contains the built-in color themes.
// Dark themes use bright colors, light themes use dark ones.
var Themes = map[string]ColorConfig{
	"default-dark": {
		Success: "10",  // bright green
		Warning: "11",  // bright yellow
		Error:   "9",   // bright red
		Info:    "14",  // bright cyan
		Muted:   "245", // medium gray
		Header:  "bold",
	},
	"default-light": {
		Success: "28",  // dark green
		Warning: "130", // dark orange
		Error:   "124", // dark red
		Info:    "27",  // dark blue
		Muted:   "243",
		Header:  "bold",
	},
	"neon-dark": {
		Success: "48",  // teal
		Warning: "220", // gold
		Error:   "197", // hot pink
		Info:    "51",  // electric cyan
		Muted:   "244",
		Header:  "bold",
	},
	"neon-light": {
		Success: "29",
		Warning: "166",
		Error:   "161",
		Info:    "32",
		Muted:   "245",
		Header:  "bold",
	},
	"mono-dark": {
		Success: "255",
		Warning: "250",
		Error:   "bold",
		Info:    "252",
		Muted:   "242",
		Header:  "bold",
	},
	"mono-light": {
		Success: "232",
		Warning: "238",
		Error:   "bold",
		Info:    "236",
		Muted:   "246",
		Header:  "bold",
	},
	"contrast-dark": {
		Success: "46",
		Warning: "226",
		Error:   "196",
		Info:    "51",
		Muted:   "250",
		Header:  "bold",
	},
	"contrast-light": {
		Success: "22",
		Warning: "130",
		Error:   "124",
		Info:    "21",
		Muted:   "240",
		Header:  "bold",
	},
}

// colorConfigKeys maps config key names to ColorConfig field names.
var colorConfigKeys = map[string]string{
	"color_success": "Success",
	"color_warning": "Warning",
	"color_error":   "Error",
	"color_info":    "Info",
	"color_muted":   "Muted",
	"color_header":  "Header",
}

// IsDarkBackground returns true if the terminal has a dark background.
// Uses termenv to query the terminal. Returns true if detection fails.
func IsDarkBackground() bool {
	return termenv.HasDarkBackground()
}

// ResolveThemeName appends -dark or -light to a base theme name based on
// the terminal background. Names that already carry a suffix are kept.
func ResolveThemeName(name string) string {
	if strings.HasSuffix(name, "-dark") || strings.HasSuffix(name, "-light") {
		return name
	}
	if IsDarkBackground() {
		return name + "-dark"
	}
	return name + "-light"
}

// LoadColorConfig builds a ColorConfig from the given configuration map.
// Resolution priority:
// 1. Environment variable (SB_COLOR_*)
// 2. Config file value
// 3. Theme value (from color_theme config or SB_COLOR_THEME)
// 4. Default theme (auto-detected based on terminal background)
func LoadColorConfig(cfg map[string]string) ColorConfig {
	themeName := ""
	if envTheme := os.Getenv("SB_COLOR_THEME"); envTheme != "" {
		themeName = ResolveThemeName(envTheme)
	} else if cfgTheme := cfg["color_theme"]; cfgTheme != "" {
		themeName = ResolveThemeName(cfgTheme)
	} else {
		themeName = ResolveThemeName("default")
	}

	result, ok := Themes[themeName]
	if !ok {
		result = Themes["default-dark"]
	}

	for configKey, fieldName := range colorConfigKeys {
		if envVal := os.Getenv("SB_" + strings.ToUpper(configKey)); envVal != "" {
			setColorField(&result, fieldName, envVal)
			continue
		}
		if cfgVal := cfg[configKey]; cfgVal != "" {
			setColorField(&result, fieldName, cfgVal)
		}
	}

	return result
}

// setColorField sets a field on ColorConfig by name.
func setColorField(c *ColorConfig, field, value string) {
	switch field {
	case "Success":
		c.Success = value
	case "Warning":
		c.Warning = value
	case "Error":
		c.Error = value
	case "Info":
		c.Info = value
	case "Muted":
		c.Muted = value
	case "Header":
		c.Header = value
	}
}
