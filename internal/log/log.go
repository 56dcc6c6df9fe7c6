// Package log provides JSON-lines structured logging for the sequoia daemon
// and CLI.
package log

import (
	"io"
	"log/slog"
	"os"
)

// Config configures the structured logger.
type Config struct {
	// Output is the writer for log output (default: os.Stderr)
	Output io.Writer

	// Level is the minimum log level (default: LevelInfo)
	Level slog.Level

	// Debug enables debug level logging (overrides Level)
	Debug bool
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() *Config {
	return &Config{
		Output: os.Stderr,
		Level:  slog.LevelInfo,
		Debug:  false,
	}
}

// New creates a new JSON-lines structured logger, e.g.:
//
//	{"ts":"2026-07-31T10:30:00Z","level":"info","msg":"daemon started","pid":12345}
func New(cfg *Config) *slog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	level := cfg.Level
	if cfg.Debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				a.Key = "ts"
			}
			return a
		},
	}

	handler := slog.NewJSONHandler(output, opts)
	return slog.New(handler)
}

// LevelFromString maps a config/CLI log level name to a slog.Level,
// defaulting to info for unrecognized names.
func LevelFromString(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewFromEnv creates a logger configured from environment variables.
// SEQUOIA_DEBUG=1 enables debug logging.
func NewFromEnv() *slog.Logger {
	cfg := DefaultConfig()
	if os.Getenv("SEQUOIA_DEBUG") == "1" {
		cfg.Debug = true
	}
	return New(cfg)
}

// StartupInfo holds information to log at daemon startup.
type StartupInfo struct {
	Version    string
	ConfigPath string
	DBPath     string
	SocketPath string
	PID        int
}

// LogStartup logs daemon startup information.
func LogStartup(logger *slog.Logger, info StartupInfo) {
	logger.Info("daemon started",
		"version", info.Version,
		"config_path", info.ConfigPath,
		"db_path", info.DBPath,
		"socket_path", info.SocketPath,
		"pid", info.PID,
	)
}

// LogShutdown logs daemon shutdown.
func LogShutdown(logger *slog.Logger, reason string) {
	logger.Info("daemon shutting down", "reason", reason)
}

// LogRunStarted logs the start of a mining run.
func LogRunStarted(logger *slog.Logger, runID string, transactions int) {
	logger.Info("mining run started", "run_id", runID, "transactions", transactions)
}

// LogRunFinished logs the completion of a mining run.
func LogRunFinished(logger *slog.Logger, runID string, patterns int, elapsedMs int64) {
	logger.Info("mining run finished", "run_id", runID, "patterns", patterns, "elapsed_ms", elapsedMs)
}

// LogRunFailed logs a failed mining run.
func LogRunFailed(logger *slog.Logger, runID string, err error) {
	logger.Error("mining run failed", "run_id", runID, "error", err)
}

// LogStoreError logs storage/database errors.
func LogStoreError(logger *slog.Logger, operation string, err error) {
	logger.Error("store error", "operation", operation, "error", err)
}

// LogCacheHit logs a cache hit for a mining request.
func LogCacheHit(logger *slog.Logger, key string) {
	logger.Debug("cache hit", "key", key)
}

// LogCacheMiss logs a cache miss for a mining request.
func LogCacheMiss(logger *slog.Logger, key string) {
	logger.Debug("cache miss", "key", key)
}
