package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultPaths(t *testing.T) {
	paths := DefaultPaths()

	if paths.BaseDir == "" {
		t.Error("BaseDir is empty")
	}
	if !filepath.IsAbs(paths.BaseDir) {
		t.Errorf("BaseDir should be absolute: %s", paths.BaseDir)
	}
	if !strings.Contains(paths.BaseDir, "sequoia") {
		t.Errorf("BaseDir should contain 'sequoia': %s", paths.BaseDir)
	}
}

func TestDefaultPaths_SequoiaHome(t *testing.T) {
	orig := os.Getenv("SEQUOIA_HOME")
	defer func() {
		if orig != "" {
			os.Setenv("SEQUOIA_HOME", orig)
		} else {
			os.Unsetenv("SEQUOIA_HOME")
		}
	}()

	os.Setenv("SEQUOIA_HOME", "/custom/sequoia/home")
	paths := DefaultPaths()
	if paths.BaseDir != "/custom/sequoia/home" {
		t.Errorf("BaseDir should respect SEQUOIA_HOME: %s", paths.BaseDir)
	}
}

func TestPaths_DerivedDirs(t *testing.T) {
	paths := &Paths{BaseDir: "/test/sequoia"}

	tests := []struct {
		name     string
		got      string
		wantBase string
	}{
		{"CacheDir", paths.CacheDir(), "/test/sequoia/cache"},
		{"LogDir", paths.LogDir(), "/test/sequoia/logs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.wantBase {
				t.Errorf("%s = %s, want %s", tt.name, tt.got, tt.wantBase)
			}
		})
	}
}

func TestPaths_ConfigFile(t *testing.T) {
	paths := DefaultPaths()
	configFile := paths.ConfigFile()
	if !strings.HasSuffix(configFile, "config.yaml") {
		t.Errorf("ConfigFile should end with config.yaml: %s", configFile)
	}
}

func TestPaths_DatabaseFile(t *testing.T) {
	paths := DefaultPaths()
	if !strings.HasSuffix(paths.DatabaseFile(), "runs.db") {
		t.Errorf("DatabaseFile should end with runs.db: %s", paths.DatabaseFile())
	}
}

func TestPaths_SocketFile(t *testing.T) {
	paths := DefaultPaths()
	if !strings.HasSuffix(paths.SocketFile(), "sequoiad.sock") {
		t.Errorf("SocketFile should end with sequoiad.sock: %s", paths.SocketFile())
	}
}

func TestPaths_PIDFile(t *testing.T) {
	paths := DefaultPaths()
	if !strings.HasSuffix(paths.PIDFile(), "sequoiad.lock") {
		t.Errorf("PIDFile should end with sequoiad.lock: %s", paths.PIDFile())
	}
}

func TestPaths_LogFile(t *testing.T) {
	paths := DefaultPaths()
	if !strings.HasSuffix(paths.LogFile(), "sequoiad.log") {
		t.Errorf("LogFile should end with sequoiad.log: %s", paths.LogFile())
	}
}

func TestPaths_EnsureDirectories(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "sequoia-paths-test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	paths := &Paths{BaseDir: filepath.Join(tmpDir, "sequoia")}
	if err := paths.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}

	dirs := []string{paths.BaseDir, paths.LogDir(), paths.CacheDir()}
	for _, dir := range dirs {
		info, err := os.Stat(dir)
		if err != nil {
			t.Errorf("Directory should exist: %s", dir)
		} else if !info.IsDir() {
			t.Errorf("Should be a directory: %s", dir)
		}
	}
}

func TestHomeDir(t *testing.T) {
	home := homeDir()
	if home == "" {
		t.Error("homeDir returned empty string")
	}
	if !filepath.IsAbs(home) {
		t.Errorf("homeDir should return absolute path: %s", home)
	}
}
