package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mining.Target != "all" {
		t.Errorf("Expected mining.target=all, got %s", cfg.Mining.Target)
	}
	if cfg.Mining.MinLength != 1 {
		t.Errorf("Expected mining.min_length=1, got %d", cfg.Mining.MinLength)
	}
	if cfg.Mining.MaxLength != 0 {
		t.Errorf("Expected mining.max_length=0, got %d", cfg.Mining.MaxLength)
	}
	if cfg.Mining.MinSupp != 10 {
		t.Errorf("Expected mining.min_support=10, got %v", cfg.Mining.MinSupp)
	}
	if cfg.Mining.Weighted {
		t.Error("Expected mining.weighted=false by default")
	}
	if cfg.Output.ItemSep != " " {
		t.Errorf("Expected output.item_separator=' ', got %q", cfg.Output.ItemSep)
	}
	if cfg.Output.InfoFmt != " (%S)" {
		t.Errorf("Expected output.info_format=' (%%S)', got %q", cfg.Output.InfoFmt)
	}
	if cfg.Daemon.LogLevel != "info" {
		t.Errorf("Expected daemon.log_level=info, got %s", cfg.Daemon.LogLevel)
	}
	if cfg.Daemon.IdleTimeoutMins != 0 {
		t.Errorf("Expected daemon.idle_timeout_mins=0, got %d", cfg.Daemon.IdleTimeoutMins)
	}
	if !cfg.Client.AutoStartDaemon {
		t.Error("Expected client.auto_start_daemon=true by default")
	}
	if cfg.Store.RetainRuns != 1000 {
		t.Errorf("Expected store.retain_runs=1000, got %d", cfg.Store.RetainRuns)
	}
	if cfg.Store.CacheBudgetMB != 50 {
		t.Errorf("Expected store.cache_budget_mb=50, got %d", cfg.Store.CacheBudgetMB)
	}
}

func TestConfigGet(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		key      string
		expected string
	}{
		{"mining.target", "all"},
		{"mining.min_length", "1"},
		{"mining.max_length", "0"},
		{"mining.min_support", "10"},
		{"mining.weighted", "false"},
		{"output.scanable", "false"},
		{"output.header", ""},
		{"output.item_separator", " "},
		{"output.info_format", " (%S)"},
		{"daemon.idle_timeout_mins", "0"},
		{"daemon.socket_path", ""},
		{"daemon.log_level", "info"},
		{"client.auto_start_daemon", "true"},
		{"store.retain_runs", "1000"},
		{"store.cache_budget_mb", "50"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := cfg.Get(tt.key)
			if err != nil {
				t.Fatalf("Get(%q) returned error: %v", tt.key, err)
			}
			if got != tt.expected {
				t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.expected)
			}
		})
	}
}

func TestConfigGet_UnknownKey(t *testing.T) {
	cfg := DefaultConfig()
	if _, err := cfg.Get("mining.nonexistent"); err == nil {
		t.Error("expected error for unknown field")
	}
	if _, err := cfg.Get("nonexistent.field"); err == nil {
		t.Error("expected error for unknown section")
	}
	if _, err := cfg.Get("malformed"); err == nil {
		t.Error("expected error for malformed key")
	}
}

func TestConfigSet(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Set("mining.target", "closed"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if cfg.Mining.Target != "closed" {
		t.Errorf("Mining.Target = %s, want closed", cfg.Mining.Target)
	}

	if err := cfg.Set("mining.min_support", "2.5"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if cfg.Mining.MinSupp != 2.5 {
		t.Errorf("Mining.MinSupp = %v, want 2.5", cfg.Mining.MinSupp)
	}

	if err := cfg.Set("daemon.log_level", "debug"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if cfg.Daemon.LogLevel != "debug" {
		t.Errorf("Daemon.LogLevel = %s, want debug", cfg.Daemon.LogLevel)
	}

	if err := cfg.Set("store.cache_budget_mb", "100"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if cfg.Store.CacheBudgetMB != 100 {
		t.Errorf("Store.CacheBudgetMB = %d, want 100", cfg.Store.CacheBudgetMB)
	}
}

func TestConfigSet_InvalidValues(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Set("mining.target", "bogus"); err == nil {
		t.Error("expected error for invalid target")
	}
	if err := cfg.Set("mining.min_support", "200"); err == nil {
		t.Error("expected error for min_support > 100")
	}
	if err := cfg.Set("daemon.log_level", "verbose"); err == nil {
		t.Error("expected error for invalid log_level")
	}
	if err := cfg.Set("store.cache_budget_mb", "0"); err == nil {
		t.Error("expected error for cache_budget_mb < 1")
	}
	if err := cfg.Set("mining.weighted", "notabool"); err == nil {
		t.Error("expected error for invalid bool")
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}

	cfg.Mining.Target = "bogus"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for bad target")
	}

	cfg = DefaultConfig()
	cfg.Mining.MaxLength = 2
	cfg.Mining.MinLength = 5
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error when max_length < min_length")
	}

	cfg = DefaultConfig()
	cfg.Daemon.LogLevel = "bogus"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for bad log level")
	}
}

func TestLoadFromFile_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if cfg.Mining.Target != "all" {
		t.Errorf("expected defaults, got target=%s", cfg.Mining.Target)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := DefaultConfig()
	cfg.Mining.Target = "closed"
	cfg.Mining.MinSupp = 5
	cfg.Daemon.LogLevel = "debug"

	if err := cfg.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile failed: %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if loaded.Mining.Target != "closed" {
		t.Errorf("Mining.Target = %s, want closed", loaded.Mining.Target)
	}
	if loaded.Mining.MinSupp != 5 {
		t.Errorf("Mining.MinSupp = %v, want 5", loaded.Mining.MinSupp)
	}
	if loaded.Daemon.LogLevel != "debug" {
		t.Errorf("Daemon.LogLevel = %s, want debug", loaded.Daemon.LogLevel)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	for _, key := range []string{"SEQUOIA_DEBUG", "SEQUOIA_LOG_LEVEL", "SEQUOIA_SOCKET_PATH"} {
		orig, had := os.LookupEnv(key)
		defer func(k, v string, had bool) {
			if had {
				os.Setenv(k, v)
			} else {
				os.Unsetenv(k)
			}
		}(key, orig, had)
	}

	os.Setenv("SEQUOIA_DEBUG", "true")
	cfg := DefaultConfig()
	cfg.ApplyEnvOverrides()
	if cfg.Daemon.LogLevel != "debug" {
		t.Errorf("expected SEQUOIA_DEBUG=true to set log_level=debug, got %s", cfg.Daemon.LogLevel)
	}

	os.Unsetenv("SEQUOIA_DEBUG")
	os.Setenv("SEQUOIA_SOCKET_PATH", "/tmp/custom.sock")
	cfg = DefaultConfig()
	cfg.ApplyEnvOverrides()
	if cfg.Daemon.SocketPath != "/tmp/custom.sock" {
		t.Errorf("expected SEQUOIA_SOCKET_PATH override, got %s", cfg.Daemon.SocketPath)
	}
}

func TestListKeys(t *testing.T) {
	keys := ListKeys()
	if len(keys) == 0 {
		t.Fatal("expected non-empty key list")
	}
	cfg := DefaultConfig()
	for _, key := range keys {
		if _, err := cfg.Get(key); err != nil {
			t.Errorf("ListKeys produced key %q that Get rejects: %v", key, err)
		}
	}
}
