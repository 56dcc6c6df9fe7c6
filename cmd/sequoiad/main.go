// sequoiad is the sequoia background daemon. It serves "sequoia mine"
// requests over a Unix socket and exits after an idle timeout. Each request
// is read, recoded and mined from scratch; no item base or recoding table
// is kept between requests.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/runger/sequoia/internal/config"
	"github.com/runger/sequoia/internal/daemon"
	seqlog "github.com/runger/sequoia/internal/log"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "sequoiad: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	paths := config.DefaultPaths()
	if err := paths.EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	cfg, cfgErr := config.Load()
	logger := seqlog.New(&seqlog.Config{
		Output: os.Stderr,
		Level:  seqlog.LevelFromString(cfg.Daemon.LogLevel),
	})
	if cfgErr != nil {
		logger.Warn("failed to load config, using defaults", "error", cfgErr)
	}

	lock := daemon.NewLockFile(daemon.LockFilePath(paths.BaseDir))
	if err := lock.Acquire(); err != nil {
		return fmt.Errorf("failed to acquire daemon lock: %w", err)
	}
	defer lock.Release()

	socketPath := cfg.Daemon.SocketPath
	if socketPath == "" {
		socketPath = paths.SocketFile()
	}
	idleTimeout := time.Duration(cfg.Daemon.IdleTimeoutMins) * time.Minute

	srv := daemon.NewServer(socketPath, logger, idleTimeout)

	seqlog.LogStartup(logger, seqlog.StartupInfo{
		ConfigPath: paths.ConfigFile(),
		DBPath:     paths.DatabaseFile(),
		SocketPath: socketPath,
		PID:        os.Getpid(),
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		seqlog.LogShutdown(logger, "signal received")
		srv.Close()
	}()

	return srv.ListenAndServe()
}
