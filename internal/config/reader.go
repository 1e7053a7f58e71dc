package config

import (
	"bufio"
	"os"
	"strings"

	"github.com/footprint-tools/switchboard/internal/domain"
	"github.com/footprint-tools/switchboard/internal/log"
	"github.com/footprint-tools/switchboard/internal/paths"
)

func ReadLines() ([]string, error) {
	configPath, err := paths.ConfigFilePath()
	if err != nil {
		return nil, err
	}

	// Check if file exists and has content
	info, err := os.Stat(configPath)
	isNew := os.IsNotExist(err) || (err == nil && info.Size() == 0)

	file, err := os.OpenFile(configPath, os.O_CREATE|os.O_RDONLY, 0600)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	// Ensure correct permissions if file already existed
	if err := os.Chmod(configPath, 0600); err != nil {
		log.Warn("config: could not set permissions on config file: %v", err)
	}

	var lines []string
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		line := scanner.Text()
		line = strings.TrimSuffix(line, "\r") // Windows CRLF
		lines = append(lines, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if isNew {
		log.Debug("config: created empty config file %s", configPath)
	}

	return lines, nil
}

// WriteDefaults seeds an empty config file with every visible key and its
// default value. An existing non-empty file is left alone.
func WriteDefaults() error {
	lines, err := ReadLines()
	if err != nil {
		return err
	}
	if len(lines) > 0 {
		return nil
	}
	return WriteLines(initializeDefaults())
}

// initializeDefaults creates config lines with default values for visible keys.
func initializeDefaults() []string {
	var lines []string

	lines = append(lines, "# Switchboard configuration")
	lines = append(lines, "# Edit values below or set SB_<KEY> in the environment or .env")
	lines = append(lines, "")

	for _, key := range domain.ConfigKeys {
		// Skip hidden keys (internal use only)
		if key.Hidden {
			continue
		}

		// Get the actual default value (some are dynamic)
		value := key.Default
		if fn, ok := Defaults[key.Name]; ok {
			value = fn()
		}

		// Quote values that contain spaces
		if strings.Contains(value, " ") {
			value = "\"" + value + "\""
		}

		// HideIfEmpty keys are commented out (optional overrides)
		if key.HideIfEmpty {
			lines = append(lines, "# "+key.Name+"=")
		} else {
			lines = append(lines, key.Name+"="+value)
		}
	}

	return lines
}
