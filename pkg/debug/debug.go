// Package debug provides conditional debug logging for manyways.
//
// Logging is off until the program calls Init, which it does when
// log.enabled is set in the config file, MANYWAYS_DEBUG is set, or
// --debug is passed:
//
//	MANYWAYS_DEBUG=1 manyways
//
// The TUI owns the terminal, so messages go to a log file (log.file,
// MANYWAYS_DEBUG_FILE, or debug.log under the state directory). While
// disabled every function is a no-op backed by zap.NewNop.
//
// Usage:
//
//	debug.Logw("transition", "from", "build", "to", "shapes")
package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu      sync.RWMutex
	enabled bool
	logger  = zap.NewNop()
	sugar   = logger.Sugar()
)

// DefaultLogPath returns debug.log inside the XDG state directory.
func DefaultLogPath() string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "stderr"
		}
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "manyways", "debug.log")
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "INFO":
		return zapcore.InfoLevel
	case "WARN":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	default:
		return zapcore.DebugLevel
	}
}

// Init enables logging at level to path. path may be "stderr", "stdout" or
// a file, whose directory is created if needed.
func Init(level, path string) error {
	if path == "" {
		path = "stderr"
	}
	if path != "stderr" && path != "stdout" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
	}

	cfg := zap.Config{
		Level:       zap.NewAtomicLevelAt(parseLevel(level)),
		Development: false,
		Encoding:    "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			MessageKey:     "msg",
			CallerKey:      "caller",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{path},
		ErrorOutputPaths: []string{path},
	}
	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	Use(l)
	return nil
}

// Use installs l as the debug logger and enables logging. Tests pass a
// zaptest or observer logger here.
func Use(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
	sugar = l.Sugar()
	enabled = true
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// Sync flushes buffered entries.
func Sync() error {
	mu.RLock()
	l := logger
	mu.RUnlock()
	return l.Sync()
}

func current() (*zap.SugaredLogger, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return sugar, enabled
}

// Log writes a printf-style debug message.
func Log(format string, args ...any) {
	if s, ok := current(); ok {
		s.Debugf(format, args...)
	}
}

// Logw writes a debug message with structured key/value pairs.
func Logw(msg string, keysAndValues ...any) {
	if s, ok := current(); ok {
		s.Debugw(msg, keysAndValues...)
	}
}
