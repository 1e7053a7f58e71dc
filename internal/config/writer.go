package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/footprint-tools/switchboard/internal/paths"
)

// WriteLines replaces the config file with lines.
func WriteLines(lines []string) error {
	path, err := paths.ConfigFilePath()
	if err != nil {
		return err
	}
	return writeAtomic(path, lines)
}

// writeAtomic writes lines to a sibling temp file and renames it over path,
// so readers see either the old file or the new one.
func writeAtomic(path string, lines []string) (err error) {
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = tmp.Chmod(0600); err != nil {
		return err
	}
	if _, err = tmp.WriteString(b.String()); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// edit applies fn to the current config lines under the file lock and
// writes the result back. Nothing is written when fn fails.
func edit(fn func(lines []string) ([]string, error)) error {
	path, err := paths.ConfigFilePath()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), lockWait)
	defer cancel()
	release, err := lockFor(path).acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	lines, err := ReadLines()
	if err != nil {
		return err
	}
	lines, err = fn(lines)
	if err != nil {
		return err
	}
	return writeAtomic(path, lines)
}
