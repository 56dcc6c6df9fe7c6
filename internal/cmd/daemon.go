package cmd

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/runger/sequoia/internal/config"
	"github.com/runger/sequoia/internal/daemon"
	seqlog "github.com/runger/sequoia/internal/log"
)

var daemonCmd = &cobra.Command{
	Use:     "daemon",
	Short:   "run or control the background mining daemon",
	GroupID: groupSetup,
}

var daemonStartCmd = &cobra.Command{
	Use:   "start",
	Short: "start the daemon in the foreground",
	RunE:  runDaemonStart,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "stop a running daemon",
	RunE:  runDaemonStop,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "report whether the daemon is running",
	RunE:  runDaemonStatus,
}

func init() {
	daemonCmd.AddCommand(daemonStartCmd, daemonStopCmd, daemonStatusCmd)
}

func runDaemonStart(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	paths := config.DefaultPaths()
	if err := paths.EnsureDirectories(); err != nil {
		return fmt.Errorf("sequoia: %w", err)
	}

	socketPath := cfg.Daemon.SocketPath
	if socketPath == "" {
		socketPath = paths.SocketFile()
	}

	lock := daemon.NewLockFile(daemon.LockFilePath(paths.BaseDir))
	if err := lock.Acquire(); err != nil {
		return fmt.Errorf("sequoia: %w", err)
	}
	defer lock.Release()

	logger := seqlog.New(&seqlog.Config{
		Output: os.Stderr,
		Level:  seqlog.LevelFromString(cfg.Daemon.LogLevel),
	})

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

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("sequoia: daemon: %w", err)
	}
	return nil
}

func runDaemonStop(cmd *cobra.Command, args []string) error {
	paths := config.DefaultPaths()
	pid, held, err := daemon.ReadHeldPID(daemon.LockFilePath(paths.BaseDir))
	if err != nil {
		return fmt.Errorf("sequoia: %w", err)
	}
	if !held {
		fmt.Fprintln(cmd.OutOrStdout(), "daemon is not running")
		return nil
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("sequoia: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("sequoia: stop daemon (PID %d): %w", pid, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "stopped daemon (PID %d)\n", pid)
	return nil
}

func runDaemonStatus(cmd *cobra.Command, args []string) error {
	paths := config.DefaultPaths()
	pid, held, err := daemon.ReadHeldPID(daemon.LockFilePath(paths.BaseDir))
	if err != nil {
		return fmt.Errorf("sequoia: %w", err)
	}
	if !held {
		fmt.Fprintln(cmd.OutOrStdout(), "daemon is not running")
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	socketPath := cfg.Daemon.SocketPath
	if socketPath == "" {
		socketPath = paths.SocketFile()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", socketPath)
	if err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "daemon process running (PID %d) but socket %s is unreachable: %v\n", pid, socketPath, err)
		return nil
	}
	conn.Close()

	fmt.Fprintf(cmd.OutOrStdout(), "daemon running (PID %d), socket %s\n", pid, socketPath)
	return nil
}
