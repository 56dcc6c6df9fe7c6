// Package config provides configuration management for sequoia.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Paths holds all the path configurations for sequoia.
// All paths are relative to the base directory (~/.sequoia on Unix,
// %APPDATA%\sequoia on Windows).
type Paths struct {
	// BaseDir is the root directory for all sequoia files (~/.sequoia)
	BaseDir string
}

// DefaultPaths returns the default paths.
// Unix: ~/.sequoia
// Windows: %APPDATA%\sequoia
func DefaultPaths() *Paths {
	// Check for SEQUOIA_HOME override first (works on all platforms)
	if home := os.Getenv("SEQUOIA_HOME"); home != "" {
		return &Paths{BaseDir: home}
	}

	home := homeDir()

	if runtime.GOOS == "windows" {
		appData := os.Getenv("APPDATA")
		if appData == "" {
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		return &Paths{
			BaseDir: filepath.Join(appData, "sequoia"),
		}
	}

	return &Paths{
		BaseDir: filepath.Join(home, ".sequoia"),
	}
}

// ConfigFile returns the path to the main configuration file.
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.BaseDir, "config.yaml")
}

// DatabaseFile returns the path to the SQLite database holding run history
// and pattern spectra.
func (p *Paths) DatabaseFile() string {
	return filepath.Join(p.BaseDir, "runs.db")
}

// SocketFile returns the path to the daemon's Unix domain socket.
func (p *Paths) SocketFile() string {
	return filepath.Join(p.BaseDir, "sequoiad.sock")
}

// PIDFile returns the path to the daemon lock/PID file.
func (p *Paths) PIDFile() string {
	return filepath.Join(p.BaseDir, "sequoiad.lock")
}

// LogDir returns the path to the log directory.
func (p *Paths) LogDir() string {
	return filepath.Join(p.BaseDir, "logs")
}

// LogFile returns the path to the daemon log file.
func (p *Paths) LogFile() string {
	return filepath.Join(p.LogDir(), "sequoiad.log")
}

// CacheDir returns the path to the run-result cache directory.
func (p *Paths) CacheDir() string {
	return filepath.Join(p.BaseDir, "cache")
}

// EnsureDirectories creates all necessary directories.
func (p *Paths) EnsureDirectories() error {
	dirs := []string{p.BaseDir, p.LogDir(), p.CacheDir()}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		if runtime.GOOS == "windows" {
			return os.Getenv("USERPROFILE")
		}
		return os.Getenv("HOME")
	}
	return home
}
