// Package logging provides config-driven categorized file-based logging for buzz.
// The interactive screen owns the terminal, so logs go to <dir>/buzz.log.
// Logging is controlled by logging.debug_mode in the config - when false, no logs are written.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"buzz/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot   Category = "boot"   // Startup, config resolution
	CategoryAuth   Category = "auth"   // Auth backend calls
	CategoryUI     Category = "ui"     // Screen state transitions
	CategoryConfig Category = "config" // Config load/save
)

// LogFileName is the file created inside the logs directory.
const LogFileName = "buzz.log"

var (
	mu      sync.RWMutex
	cfg     config.LoggingConfig
	root    = zap.NewNop()
	file    *os.File
	logPath string
	loggers = make(map[Category]*zap.Logger)
)

// Initialize sets up file logging from cfg. When debug mode is off it
// leaves every logger a no-op and touches nothing on disk.
func Initialize(dir string, c config.LoggingConfig) error {
	CloseAll()

	mu.Lock()
	defer mu.Unlock()

	cfg = c
	if !cfg.DebugMode {
		return nil // Silent no-op in production mode
	}
	if dir == "" {
		return fmt.Errorf("logs directory required")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	path := filepath.Join(dir, LogFileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	core := zapcore.NewCore(newEncoder(cfg.Format), zapcore.AddSync(f), level)
	file = f
	logPath = path
	root = zap.New(core)

	root.Info("logging initialized",
		zap.String("category", string(CategoryBoot)),
		zap.String("path", path),
		zap.String("level", level.String()))
	return nil
}

func newEncoder(format string) zapcore.Encoder {
	if format == "console" || format == "text" {
		ec := zap.NewDevelopmentEncoderConfig()
		return zapcore.NewConsoleEncoder(ec)
	}
	ec := zap.NewProductionEncoderConfig()
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewJSONEncoder(ec)
}

// IsDebugMode returns whether debug logging is enabled
func IsDebugMode() bool {
	mu.RLock()
	defer mu.RUnlock()
	return cfg.DebugMode
}

// IsCategoryEnabled returns whether a specific category is enabled
func IsCategoryEnabled(category Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	return cfg.IsCategoryEnabled(string(category))
}

// Path returns the active log file, or "" when logging is off.
func Path() string {
	mu.RLock()
	defer mu.RUnlock()
	return logPath
}

// Get returns (or creates) a logger for the given category.
// Returns a no-op logger if debug mode is disabled or category is disabled.
func Get(category Category) *zap.Logger {
	if !IsCategoryEnabled(category) {
		return zap.NewNop()
	}

	mu.RLock()
	if l, ok := loggers[category]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}
	l := root.With(zap.String("category", string(category)))
	loggers[category] = l
	return l
}

// CloseAll flushes and closes the log file (call at shutdown)
func CloseAll() {
	mu.Lock()
	defer mu.Unlock()

	_ = root.Sync()
	if file != nil {
		file.Close()
		file = nil
	}
	root = zap.NewNop()
	logPath = ""
	loggers = make(map[Category]*zap.Logger)
}

// =============================================================================
// CONVENIENCE FUNCTIONS - Quick logging without getting a logger first
// These are no-ops if the category is disabled
// =============================================================================

// Boot logs to the boot category
func Boot(msg string, fields ...zap.Field) {
	Get(CategoryBoot).Info(msg, fields...)
}

// Auth logs to the auth category
func Auth(msg string, fields ...zap.Field) {
	Get(CategoryAuth).Info(msg, fields...)
}

// AuthDebug logs debug to the auth category
func AuthDebug(msg string, fields ...zap.Field) {
	Get(CategoryAuth).Debug(msg, fields...)
}

// UIDebug logs debug to the ui category
func UIDebug(msg string, fields ...zap.Field) {
	Get(CategoryUI).Debug(msg, fields...)
}
