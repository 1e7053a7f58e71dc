package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/footprint-tools/switchboard/internal/domain"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Level representa el nivel de severidad del log
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a string to a Level.
// Valid values: "debug", "info", "warn", "error" (case insensitive).
// Returns LevelWarn if the string is not recognized.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelWarn
	}
}

// Rotation controls when the log file is rotated.
type Rotation struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// DefaultRotation keeps five 10 MB files for a month.
var DefaultRotation = Rotation{MaxSizeMB: 10, MaxBackups: 5, MaxAgeDays: 30}

// Logger maneja el logging de forma thread-safe
type Logger struct {
	mu       sync.Mutex
	out      io.Writer
	closer   io.Closer
	minLevel Level
	enabled  bool
	prefix   string
	parent   *Logger
}

var (
	defaultLogger   *Logger
	defaultLoggerMu sync.RWMutex
	once            sync.Once
)

// Init inicializa el logger global con el archivo especificado
func Init(logPath string, minLevel Level) error {
	var err error
	once.Do(func() {
		var l *Logger
		l, err = New(logPath, minLevel, DefaultRotation)
		if err == nil {
			SetDefault(l)
		}
	})
	return err
}

// SetDefault replaces the global logger.
func SetDefault(l *Logger) {
	defaultLoggerMu.Lock()
	defer defaultLoggerMu.Unlock()
	defaultLogger = l
}

// New crea un logger que escribe al archivo especificado, rotándolo
// cuando supera rot.MaxSizeMB.
func New(logPath string, minLevel Level, rot Rotation) (*Logger, error) {
	// Crear directorio si no existe con permisos restrictivos
	logDir := filepath.Dir(logPath)
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	if info, err := os.Stat(logPath); err == nil {
		if info.IsDir() {
			return nil, fmt.Errorf("open log file: %s is a directory", logPath)
		}
		if info.Mode().Perm() != 0600 {
			if err := os.Chmod(logPath, 0600); err != nil {
				return nil, fmt.Errorf("chmod existing log file: %w", err)
			}
		}
	}

	lj := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    rot.MaxSizeMB,
		MaxBackups: rot.MaxBackups,
		MaxAge:     rot.MaxAgeDays,
	}

	return &Logger{
		out:      lj,
		closer:   lj,
		minLevel: minLevel,
		enabled:  true,
	}, nil
}

// NewWriter crea un logger sobre un io.Writer arbitrario (stderr, tests).
func NewWriter(w io.Writer, minLevel Level) *Logger {
	l := &Logger{
		out:      w,
		minLevel: minLevel,
		enabled:  true,
	}
	if c, ok := w.(io.Closer); ok && w != os.Stderr && w != os.Stdout {
		l.closer = c
	}
	return l
}

// Named returns a logger that tags every line with component and shares
// the receiver's output.
func (l *Logger) Named(component string) *Logger {
	if l == nil {
		return nil
	}
	root := l.root()
	prefix := component
	if l.prefix != "" {
		prefix = l.prefix + "." + component
	}
	return &Logger{prefix: prefix, parent: root}
}

func (l *Logger) root() *Logger {
	if l.parent != nil {
		return l.parent
	}
	return l
}

// Close cierra el logger
func (l *Logger) Close() error {
	if l == nil || l.parent != nil || l.closer == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closer.Close()
}

// SetEnabled habilita o deshabilita el logging
func (l *Logger) SetEnabled(enabled bool) {
	if l == nil {
		return
	}
	r := l.root()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enabled = enabled
}

// SetLevel cambia el nivel mínimo
func (l *Logger) SetLevel(level Level) {
	if l == nil {
		return
	}
	r := l.root()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.minLevel = level
}

// log escribe un mensaje con el nivel especificado
func (l *Logger) log(level Level, format string, args ...any) {
	if l == nil {
		return
	}
	r := l.root()

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.enabled || level < r.minLevel || r.out == nil {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf(format, args...)
	var logLine string
	if l.prefix != "" {
		logLine = fmt.Sprintf("[%s] %s: [%s] %s\n", timestamp, level.String(), l.prefix, message)
	} else {
		logLine = fmt.Sprintf("[%s] %s: %s\n", timestamp, level.String(), message)
	}

	if _, err := r.out.Write([]byte(logLine)); err != nil {
		// Can't log to file, output to stderr for critical messages
		if level >= LevelError {
			fmt.Fprintf(os.Stderr, "logger: write failed: %v (message: %s)\n", err, message)
		}
	}
}

// Debug escribe un mensaje de debug
func (l *Logger) Debug(format string, args ...any) {
	l.log(LevelDebug, format, args...)
}

// Info escribe un mensaje informativo
func (l *Logger) Info(format string, args ...any) {
	l.log(LevelInfo, format, args...)
}

// Warn escribe un warning
func (l *Logger) Warn(format string, args ...any) {
	l.log(LevelWarn, format, args...)
}

// Error escribe un error
func (l *Logger) Error(format string, args ...any) {
	l.log(LevelError, format, args...)
}

// Writer retorna un io.Writer que escribe al log con el nivel especificado
func (l *Logger) Writer(level Level) io.Writer {
	return &logWriter{logger: l, level: level}
}

type logWriter struct {
	logger *Logger
	level  Level
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	w.logger.log(w.level, "%s", strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// Funciones de conveniencia para el logger global

// Debug escribe un mensaje de debug al logger global
func Debug(format string, args ...any) {
	if l := GetLogger(); l != nil {
		l.Debug(format, args...)
	}
}

// Info escribe un mensaje informativo al logger global
func Info(format string, args ...any) {
	if l := GetLogger(); l != nil {
		l.Info(format, args...)
	}
}

// Warn escribe un warning al logger global
func Warn(format string, args ...any) {
	if l := GetLogger(); l != nil {
		l.Warn(format, args...)
	}
}

// Error escribe un error al logger global
func Error(format string, args ...any) {
	if l := GetLogger(); l != nil {
		l.Error(format, args...)
	}
}

// Close cierra el logger global
func Close() error {
	if l := GetLogger(); l != nil {
		return l.Close()
	}
	return nil
}

// GetLogger retorna el logger global (puede ser nil si no se inicializó)
func GetLogger() *Logger {
	defaultLoggerMu.RLock()
	defer defaultLoggerMu.RUnlock()
	return defaultLogger
}

// NopLogger is a logger that discards all messages.
// Useful for testing or when logging is disabled.
type NopLogger struct{}

func (NopLogger) Debug(_ string, _ ...any) {}
func (NopLogger) Info(_ string, _ ...any)  {}
func (NopLogger) Warn(_ string, _ ...any)  {}
func (NopLogger) Error(_ string, _ ...any) {}
func (NopLogger) Close() error             { return nil }

// Verify Logger implements domain.Logger
var _ domain.Logger = (*Logger)(nil)
var _ domain.Logger = NopLogger{}
