// Package logging provides category-scoped file logging for genesisctl.
// Logs are written to .genesis/logs/ with one file per category. When debug
// mode is off, everything becomes a no-op so an interactive session never
// pays for log I/O. Background poll failures land here instead of the UI.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category identifies a logging subsystem.
type Category string

const (
	CategoryBoot    Category = "boot"    // Startup and wiring
	CategoryAPI     Category = "api"     // Orchestrator HTTP calls
	CategorySync    Category = "sync"    // Session sync and polling
	CategoryPlugin  Category = "plugin"  // Plugin registration and slots
	CategoryDoc     Category = "doc"     // Document loader
	CategoryStore   Category = "store"   // Local widget store
	CategorySession Category = "session" // Session lifecycle actions
)

var (
	mu        sync.Mutex
	loggers   = make(map[Category]*zap.Logger)
	logsDir   string
	debugMode bool
)

// Initialize sets up the logging directory. When debug is false no files are
// created and every logger returned by Get is a no-op.
func Initialize(workspace string, debug bool) error {
	mu.Lock()
	defer mu.Unlock()

	debugMode = debug
	if !debug {
		return nil
	}
	logsDir = filepath.Join(workspace, ".genesis", "logs")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return fmt.Errorf("create logs directory: %w", err)
	}
	return nil
}

// Get returns the logger for a category, creating it on first use.
func Get(cat Category) *zap.Logger {
	mu.Lock()
	defer mu.Unlock()

	if l, ok := loggers[cat]; ok {
		return l
	}
	l := build(cat)
	loggers[cat] = l
	return l
}

func build(cat Category) *zap.Logger {
	if !debugMode || logsDir == "" {
		return zap.NewNop()
	}

	path := filepath.Join(logsDir, string(cat)+".log")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[logging] cannot open %s: %v\n", path, err)
		return zap.NewNop()
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.Lock(zapcore.AddSync(file)),
		zap.DebugLevel,
	)
	return zap.New(core).Named(string(cat))
}

// Sync flushes all open loggers. Called once on shutdown.
func Sync() {
	mu.Lock()
	defer mu.Unlock()
	for _, l := range loggers {
		_ = l.Sync()
	}
}

// Reset drops all cached loggers. Test helper.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	loggers = make(map[Category]*zap.Logger)
	logsDir = ""
	debugMode = false
}
