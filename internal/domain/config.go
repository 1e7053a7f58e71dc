package domain

// ConfigKey defines a configuration key with its metadata.
type ConfigKey struct {
	Name        string
	Default     string
	Description string
	Section     string // Section for grouping in listings (Server, Dispatch, etc.)
	Hidden      bool   // Hidden keys are not shown in help or config list
	HideIfEmpty bool   // Only show in config list if explicitly set
}

// ConfigKeys defines all available configuration keys.
// This is the single source of truth for configuration.
// Order determines display order in `/config list`.
var ConfigKeys = []ConfigKey{
	// Server
	{
		Name:        "listen_addr",
		Default:     "127.0.0.1:7780",
		Description: "Address the websocket endpoint listens on (empty disables it)",
		Section:     "Server",
	},
	{
		Name:        "db_path",
		Default:     "", // Set dynamically to paths.DBPath()
		Description: "Path to the sqlite database",
		Section:     "Server",
	},
	{
		Name:        "console_mode",
		Default:     "auto",
		Description: "Operator console: auto, ui, line, off",
		Section:     "Server",
	},
	{
		Name:        "operators",
		Default:     "",
		Description: "Comma separated player names that may go off duty with /duty",
		Section:     "Server",
	},
	{
		Name:        "allowed_origins",
		Default:     "",
		Description: "Comma separated Origin values accepted by the websocket endpoint (empty accepts any)",
		Section:     "Server",
	},
	{
		Name:        "board_size",
		Default:     "5",
		Description: "Announcements shown to players when they join",
		Section:     "Server",
	},
	{
		Name:        "command_log_days",
		Default:     "30",
		Description: "Days of command history kept in the database (0 keeps everything)",
		Section:     "Server",
	},
	// Dispatch
	{
		Name:        "require_prefix",
		Default:     "true",
		Description: "Require remote input to start with / @ or \\ (true/false)",
		Section:     "Dispatch",
	},
	{
		Name:        "rate_limit",
		Default:     "4",
		Description: "Commands per second allowed per caller (0 disables)",
		Section:     "Dispatch",
	},
	{
		Name:        "rate_burst",
		Default:     "8",
		Description: "Burst size for the per caller rate limit",
		Section:     "Dispatch",
	},
	{
		Name:        "help_aliases",
		Default:     "",
		Description: "Extra comma separated spellings treated as help, besides help and ?",
		Section:     "Dispatch",
	},
	{
		Name:        "wait_timeout_sec",
		Default:     "30",
		Description: "Seconds a pending request (such as a duel) waits for an answer",
		Section:     "Dispatch",
	},
	{
		Name:        "cooldown_sweep_sec",
		Default:     "60",
		Description: "Seconds between sweeps of expired cooldowns",
		Section:     "Dispatch",
	},
	// Locale
	{
		Name:        "default_locale",
		Default:     "en",
		Description: "Locale for the console and callers without one (en, de)",
		Section:     "Locale",
	},
	// Console
	{
		Name:        "color",
		Default:     "true",
		Description: "Color console output (true/false)",
		Section:     "Console",
	},
	{
		Name:        "color_theme",
		Default:     "default",
		Description: "Console color theme: default, neon, mono, contrast (optionally -dark or -light)",
		Section:     "Console",
	},
	{
		Name:        "console_clock",
		Default:     "24h",
		Description: "Timestamp console output: 24h, 12h, off or a Go time layout",
		Section:     "Console",
	},
	// Logging
	{
		Name:        "enable_log",
		Default:     "true",
		Description: "Enable logging to file (true/false)",
		Section:     "Logging",
	},
	{
		Name:        "log_level",
		Default:     "info",
		Description: "Minimum log level: debug, info, warn, error",
		Section:     "Logging",
	},
	{
		Name:        "log_path",
		Default:     "", // Set dynamically to paths.LogFilePath()
		Description: "Path to the log file",
		Section:     "Logging",
	},
	{
		Name:        "log_max_size_mb",
		Default:     "10",
		Description: "Rotate the log file after this many megabytes",
		Section:     "Logging",
		Hidden:      true,
	},
}

// configKeyMap is a lookup map for configuration keys.
var configKeyMap map[string]ConfigKey

func init() {
	configKeyMap = make(map[string]ConfigKey, len(ConfigKeys))
	for _, key := range ConfigKeys {
		configKeyMap[key.Name] = key
	}
}

// GetConfigKey returns the ConfigKey for a given name.
func GetConfigKey(name string) (ConfigKey, bool) {
	key, ok := configKeyMap[name]
	return key, ok
}

// IsValidConfigKey checks if a key name is valid.
func IsValidConfigKey(name string) bool {
	_, ok := configKeyMap[name]
	return ok
}

// GetDefaultValue returns the default value for a config key.
func GetDefaultValue(name string) (string, bool) {
	if key, ok := configKeyMap[name]; ok {
		return key.Default, true
	}
	return "", false
}

// VisibleConfigKeys returns all non-hidden configuration keys.
func VisibleConfigKeys() []ConfigKey {
	var visible []ConfigKey
	for _, key := range ConfigKeys {
		if !key.Hidden {
			visible = append(visible, key)
		}
	}
	return visible
}

// ConfigSections returns the ordered list of section names.
func ConfigSections() []string {
	return []string{"Server", "Dispatch", "Locale", "Console", "Logging"}
}

// ConfigKeysBySection returns visible config keys grouped by section.
func ConfigKeysBySection() map[string][]ConfigKey {
	result := make(map[string][]ConfigKey)
	for _, key := range ConfigKeys {
		if !key.Hidden {
			result[key.Section] = append(result[key.Section], key)
		}
	}
	return result
}
