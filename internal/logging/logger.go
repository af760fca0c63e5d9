// Package logging provides categorized zap loggers for legisurprise.
// Until Initialize is called every category logs to a no-op core, so library
// code and tests stay silent.
package logging

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot     Category = "boot"     // CLI startup, config resolution
	CategoryLoader   Category = "loader"   // CSV reading and row parsing
	CategoryAnalysis Category = "analysis" // Ranking and surprise detection
	CategoryReport   Category = "report"   // Output rendering
	CategoryPipeline Category = "pipeline" // Per-year orchestration
)

// Options mirrors the relevant parts of config.LoggingConfig
// to avoid circular imports
type Options struct {
	Level   string                     // debug, info, warn, error
	Format  string                     // console, json
	Verbose bool                       // forces debug level
	Enabled func(category string) bool // per-category toggle, nil = all enabled
}

var (
	mu      sync.RWMutex
	base    = zap.NewNop()
	enabled func(category string) bool
	loggers = make(map[Category]*zap.Logger)
)

// Initialize builds the base logger writing to stderr.
// Should be called once at startup.
func Initialize(opts Options) error {
	level, err := parseLevel(opts.Level)
	if err != nil {
		return err
	}
	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.Sampling = nil
	switch strings.ToLower(opts.Format) {
	case "", "console":
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	case "json":
		cfg.Encoding = "json"
	default:
		return fmt.Errorf("unknown log format %q (valid: console, json)", opts.Format)
	}

	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	base = logger
	enabled = opts.Enabled
	loggers = make(map[Category]*zap.Logger)
	return nil
}

// Reset drops the base logger back to a no-op core.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	base = zap.NewNop()
	enabled = nil
	loggers = make(map[Category]*zap.Logger)
}

// IsCategoryEnabled returns whether a specific category is enabled
func IsCategoryEnabled(category Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	return categoryEnabled(category)
}

func categoryEnabled(category Category) bool {
	if enabled == nil {
		return true
	}
	return enabled(string(category))
}

// Get returns (or creates) a logger for the given category.
// Returns a no-op logger if the category is disabled.
func Get(category Category) *zap.Logger {
	mu.RLock()
	if l, ok := loggers[category]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()

	// Double-check after acquiring write lock
	if l, ok := loggers[category]; ok {
		return l
	}

	l := zap.NewNop()
	if categoryEnabled(category) {
		l = base.Named(string(category))
	}
	loggers[category] = l
	return l
}

// Sync flushes the base logger.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = base.Sync()
}

func parseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q (valid: debug, info, warn, error)", s)
	}
}
