package log

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogger_BasicLogging(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	logger, err := New(logPath, LevelDebug, DefaultRotation)
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warning message")
	logger.Error("error message")

	_ = logger.Close()

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	logContent := string(content)
	for _, want := range []string{
		"DEBUG: debug message",
		"INFO: info message",
		"WARN: warning message",
		"ERROR: error message",
	} {
		if !strings.Contains(logContent, want) {
			t.Errorf("%q not found in log", want)
		}
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, LevelWarn)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warning message")
	logger.Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("messages below warn should be filtered, got %q", out)
	}
	if !strings.Contains(out, "warning message") || !strings.Contains(out, "error message") {
		t.Errorf("warn and error should be logged, got %q", out)
	}
}

func TestLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, LevelError)

	logger.Info("hidden")
	logger.SetLevel(LevelDebug)
	logger.Info("shown")

	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestLogger_Named(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, LevelDebug)

	logger.Named("dispatch").Named("wait").Info("armed %d", 3)
	logger.Named("dispatch").SetEnabled(false)
	logger.Info("dropped")

	out := buf.String()
	if !strings.Contains(out, "INFO: [dispatch.wait] armed 3") {
		t.Errorf("named prefix missing, got %q", out)
	}
	if strings.Contains(out, "dropped") {
		t.Error("SetEnabled on a child should disable the shared output")
	}
}

func TestLogger_FilePermissions(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	logger, err := New(logPath, LevelInfo, DefaultRotation)
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	logger.Info("hello")
	_ = logger.Close()

	info, err := os.Stat(logPath)
	if err != nil {
		t.Fatalf("Failed to stat log file: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("log file permissions = %o, want 0600", info.Mode().Perm())
	}
}

func TestLogger_AppendMode(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	for _, msg := range []string{"first run", "second run"} {
		logger, err := New(logPath, LevelInfo, DefaultRotation)
		if err != nil {
			t.Fatalf("Failed to create logger: %v", err)
		}
		logger.Info("%s", msg)
		_ = logger.Close()
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), "first run") || !strings.Contains(string(content), "second run") {
		t.Errorf("log should contain both runs, got %q", content)
	}
}

func TestLogger_Disabled(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, LevelInfo)

	logger.Info("enabled message")
	logger.SetEnabled(false)
	logger.Info("disabled message")
	logger.SetEnabled(true)
	logger.Info("enabled again")

	logContent := buf.String()
	if !strings.Contains(logContent, "enabled message") {
		t.Error("First message not found")
	}
	if strings.Contains(logContent, "disabled message") {
		t.Error("Disabled message should not be present")
	}
	if !strings.Contains(logContent, "enabled again") {
		t.Error("Third message not found")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{" Info ", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"unknown", LevelWarn}, // Default to warn
		{"", LevelWarn},        // Default to warn
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ParseLevel(tt.input)
			if result != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestLevel_String(t *testing.T) {
	if Level(99).String() != "UNKNOWN" {
		t.Errorf("Level(99).String() = %q", Level(99).String())
	}
	if LevelWarn.String() != "WARN" {
		t.Errorf("LevelWarn.String() = %q", LevelWarn.String())
	}
}

func TestLogger_Writer(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, LevelDebug)

	writer := logger.Writer(LevelInfo)
	_, _ = writer.Write([]byte("message from writer\n"))

	if !strings.Contains(buf.String(), "INFO: message from writer\n") {
		t.Errorf("Writer message not found in log, got %q", buf.String())
	}
}

func TestLogger_NilReceiver(t *testing.T) {
	var logger *Logger
	// Should not panic
	logger.Debug("test")
	logger.Info("test")
	logger.Warn("test")
	logger.Error("test")
	logger.SetEnabled(true)
	if err := logger.Close(); err != nil {
		t.Errorf("Close() on nil logger should return nil, got %v", err)
	}
	if logger.Named("x") != nil {
		t.Error("Named on nil logger should return nil")
	}
}

func TestGlobalLogger(t *testing.T) {
	saved := GetLogger()
	defer SetDefault(saved)

	SetDefault(nil)
	Info("nowhere")
	if err := Close(); err != nil {
		t.Errorf("Close() with nil default should return nil, got %v", err)
	}

	var buf bytes.Buffer
	SetDefault(NewWriter(&buf, LevelDebug))
	Debug("debug message")
	Error("error message")

	if !strings.Contains(buf.String(), "debug message") || !strings.Contains(buf.String(), "error message") {
		t.Errorf("global functions should use the default logger, got %q", buf.String())
	}
}

func TestNew_MkdirAllError(t *testing.T) {
	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "afile")
	if err := os.WriteFile(filePath, nil, 0600); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	_, err := New(filepath.Join(filePath, "subdir", "test.log"), LevelInfo, DefaultRotation)
	if err == nil || !strings.Contains(err.Error(), "create log directory") {
		t.Errorf("expected directory creation error, got: %v", err)
	}
}

func TestNopLogger(t *testing.T) {
	nop := NopLogger{}

	nop.Debug("test %s", "debug")
	nop.Info("test %s", "info")
	nop.Warn("test %s", "warn")
	nop.Error("test %s", "error")

	if err := nop.Close(); err != nil {
		t.Errorf("NopLogger.Close() = %v", err)
	}
}
