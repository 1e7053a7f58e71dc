package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

const appDirName = "switchboard"

// AppDataDir returns the application directory for the config-adjacent
// files such as the log.
// Uses os.UserConfigDir() which returns:
//   - macOS: ~/Library/Application Support
//   - Linux: $XDG_CONFIG_HOME or ~/.config
//   - Windows: %AppData% (roaming)
func AppDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}

	path := filepath.Join(dir, appDirName)

	// Use restrictive permissions for application data
	_ = os.MkdirAll(path, 0700)

	return path
}

// AppLocalDataDir returns the OS-appropriate local data directory, where
// the database lives.
//   - macOS: ~/Library/Application Support/switchboard
//   - Linux: $XDG_DATA_HOME/switchboard or ~/.local/share/switchboard
//   - Windows: %LOCALAPPDATA%\switchboard
func AppLocalDataDir() string {
	var base string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "."
		}
		base = filepath.Join(home, "Library", "Application Support")

	case "windows":
		base = os.Getenv("LOCALAPPDATA")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "."
			}
			base = filepath.Join(home, "AppData", "Local")
		}

	default:
		base = os.Getenv("XDG_DATA_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "."
			}
			base = filepath.Join(home, ".local", "share")
		}
	}

	return filepath.Join(base, appDirName)
}

// DBPath returns the default sqlite database location.
func DBPath() string {
	return filepath.Join(AppLocalDataDir(), "switchboard.db")
}

// ConfigFilePath returns ~/.sbrc.
func ConfigFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, ".sbrc"), nil
}

// EnvFilePath returns the .env file read at startup, in the working directory.
func EnvFilePath() string {
	return ".env"
}

// LogFilePath returns the path to the application log file:
//   - macOS: ~/Library/Application Support/switchboard/sb.log
//   - Linux: $XDG_CONFIG_HOME/switchboard/sb.log or ~/.config/switchboard/sb.log
//   - Windows: %AppData%\switchboard\sb.log
func LogFilePath() string {
	return filepath.Join(AppDataDir(), "sb.log")
}
