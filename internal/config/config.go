package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the sequoia configuration: default mining parameters
// plus ambient daemon/client/output settings, loaded from config.yaml with
// environment variable overrides.
type Config struct {
	Mining MiningConfig `yaml:"mining"`
	Output OutputConfig `yaml:"output"`
	Daemon DaemonConfig `yaml:"daemon"`
	Client ClientConfig `yaml:"client"`
	Store  StoreConfig  `yaml:"store"`
}

// MiningConfig holds search parameters stored in the config file, the
// counterparts of the mine command's -t/-m/-n/-s/-u flags. Only Weighted is
// read by "sequoia mine" (as the fallback for -u); the other fields do not
// change a run, whose flags carry their own defaults.
type MiningConfig struct {
	Target    string  `yaml:"target"`     // "all" or "closed"
	MinLength int     `yaml:"min_length"` // -m
	MaxLength int     `yaml:"max_length"` // -n, 0 = unlimited
	MinSupp   float64 `yaml:"min_support"` // -s: >=0 percent, <0 absolute count
	Weighted  bool    `yaml:"weighted"`   // -u: read item weights
}

// OutputConfig holds rendering settings stored in the config file, the
// counterparts of the mine command's -g/--header/-k/-i/-v flags. "sequoia
// mine" does not read them; its flags carry their own defaults.
type OutputConfig struct {
	Scanable    bool   `yaml:"scanable"`
	Header      string `yaml:"header"`
	ItemSep     string `yaml:"item_separator"`
	WeightFmt   string `yaml:"weight_format"`
	InfoFmt     string `yaml:"info_format"`
	WriteSpectrum bool `yaml:"write_spectrum"`
}

// DaemonConfig holds daemon-related settings.
type DaemonConfig struct {
	IdleTimeoutMins int    `yaml:"idle_timeout_mins"` // Auto-shutdown after idle (0 = never)
	SocketPath      string `yaml:"socket_path"`       // Unix socket path (overrides default)
	LogLevel        string `yaml:"log_level"`         // debug, info, warn, error
	LogFile         string `yaml:"log_file"`          // Log file path (stored only; the daemon does not read it)
}

// ClientConfig holds client-related settings.
type ClientConfig struct {
	RequestTimeoutMs int  `yaml:"request_timeout_ms"` // Stored only; the client sets no response deadline
	ConnectTimeoutMs int  `yaml:"connect_timeout_ms"` // Socket connection timeout
	AutoStartDaemon  bool `yaml:"auto_start_daemon"`  // Stored only; "sequoia mine" runs in-process when no daemon answers
}

// StoreConfig holds persistence settings.
type StoreConfig struct {
	RetainRuns    int `yaml:"retain_runs"`     // Max run records to keep (0 = unlimited)
	CacheBudgetMB int `yaml:"cache_budget_mb"` // Stored only; no run uses an in-memory result cache
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Mining: MiningConfig{
			Target:    "all",
			MinLength: 1,
			MaxLength: 0,
			MinSupp:   10,
			Weighted:  false,
		},
		Output: OutputConfig{
			ItemSep: " ",
			InfoFmt: " (%S)",
		},
		Daemon: DaemonConfig{
			IdleTimeoutMins: 0,
			SocketPath:      "",
			LogLevel:        "info",
			LogFile:         "",
		},
		Client: ClientConfig{
			RequestTimeoutMs: 30000,
			ConnectTimeoutMs: 200,
			AutoStartDaemon:  true,
		},
		Store: StoreConfig{
			RetainRuns:    1000,
			CacheBudgetMB: 50,
		},
	}
}

// Load loads configuration from the default path.
func Load() (*Config, error) {
	paths := DefaultPaths()
	return LoadFromFile(paths.ConfigFile())
}

// LoadFromFile loads configuration from the specified file.
// If the file doesn't exist, returns default configuration.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.ApplyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save saves the configuration to the default path.
func (c *Config) Save() error {
	paths := DefaultPaths()
	return c.SaveToFile(paths.ConfigFile())
}

// SaveToFile saves the configuration to the specified file.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Get retrieves a configuration value by dot-separated key, e.g.
// "mining.min_support" or "daemon.log_level".
func (c *Config) Get(key string) (string, error) {
	section, field, err := splitKey(key)
	if err != nil {
		return "", err
	}
	switch section {
	case "mining":
		return c.getMiningField(field)
	case "output":
		return c.getOutputField(field)
	case "daemon":
		return c.getDaemonField(field)
	case "client":
		return c.getClientField(field)
	case "store":
		return c.getStoreField(field)
	default:
		return "", fmt.Errorf("unknown section: %s", section)
	}
}

// Set sets a configuration value by dot-separated key.
func (c *Config) Set(key, value string) error {
	section, field, err := splitKey(key)
	if err != nil {
		return err
	}
	switch section {
	case "mining":
		return c.setMiningField(field, value)
	case "output":
		return c.setOutputField(field, value)
	case "daemon":
		return c.setDaemonField(field, value)
	case "client":
		return c.setClientField(field, value)
	case "store":
		return c.setStoreField(field, value)
	default:
		return fmt.Errorf("unknown section: %s", section)
	}
}

func splitKey(key string) (section, field string, err error) {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return "", "", errors.New("key must be in format 'section.key'")
	}
	return parts[0], parts[1], nil
}

func (c *Config) getMiningField(field string) (string, error) {
	switch field {
	case "target":
		return c.Mining.Target, nil
	case "min_length":
		return strconv.Itoa(c.Mining.MinLength), nil
	case "max_length":
		return strconv.Itoa(c.Mining.MaxLength), nil
	case "min_support":
		return strconv.FormatFloat(c.Mining.MinSupp, 'g', -1, 64), nil
	case "weighted":
		return strconv.FormatBool(c.Mining.Weighted), nil
	default:
		return "", fmt.Errorf("unknown field: mining.%s", field)
	}
}

func (c *Config) setMiningField(field, value string) error {
	switch field {
	case "target":
		if !isValidTarget(value) {
			return fmt.Errorf("invalid target: %s (must be all or closed)", value)
		}
		c.Mining.Target = value
	case "min_length":
		v, err := strconv.Atoi(value)
		if err != nil || v < 0 {
			return fmt.Errorf("invalid min_length: %s", value)
		}
		c.Mining.MinLength = v
	case "max_length":
		v, err := strconv.Atoi(value)
		if err != nil || v < 0 {
			return fmt.Errorf("invalid max_length: %s", value)
		}
		c.Mining.MaxLength = v
	case "min_support":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil || v > 100 {
			return fmt.Errorf("invalid min_support: %s", value)
		}
		c.Mining.MinSupp = v
	case "weighted":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid weighted: %s", value)
		}
		c.Mining.Weighted = v
	default:
		return fmt.Errorf("unknown field: mining.%s", field)
	}
	return nil
}

func (c *Config) getOutputField(field string) (string, error) {
	switch field {
	case "scanable":
		return strconv.FormatBool(c.Output.Scanable), nil
	case "header":
		return c.Output.Header, nil
	case "item_separator":
		return c.Output.ItemSep, nil
	case "weight_format":
		return c.Output.WeightFmt, nil
	case "info_format":
		return c.Output.InfoFmt, nil
	case "write_spectrum":
		return strconv.FormatBool(c.Output.WriteSpectrum), nil
	default:
		return "", fmt.Errorf("unknown field: output.%s", field)
	}
}

func (c *Config) setOutputField(field, value string) error {
	switch field {
	case "scanable":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid scanable: %s", value)
		}
		c.Output.Scanable = v
	case "header":
		c.Output.Header = value
	case "item_separator":
		c.Output.ItemSep = value
	case "weight_format":
		c.Output.WeightFmt = value
	case "info_format":
		c.Output.InfoFmt = value
	case "write_spectrum":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid write_spectrum: %s", value)
		}
		c.Output.WriteSpectrum = v
	default:
		return fmt.Errorf("unknown field: output.%s", field)
	}
	return nil
}

func (c *Config) getDaemonField(field string) (string, error) {
	switch field {
	case "idle_timeout_mins":
		return strconv.Itoa(c.Daemon.IdleTimeoutMins), nil
	case "socket_path":
		return c.Daemon.SocketPath, nil
	case "log_level":
		return c.Daemon.LogLevel, nil
	case "log_file":
		return c.Daemon.LogFile, nil
	default:
		return "", fmt.Errorf("unknown field: daemon.%s", field)
	}
}

func (c *Config) setDaemonField(field, value string) error {
	switch field {
	case "idle_timeout_mins":
		v, err := strconv.Atoi(value)
		if err != nil || v < 0 {
			return fmt.Errorf("invalid idle_timeout_mins: %s", value)
		}
		c.Daemon.IdleTimeoutMins = v
	case "socket_path":
		c.Daemon.SocketPath = value
	case "log_level":
		if !isValidLogLevel(value) {
			return fmt.Errorf("invalid log_level: %s (must be debug, info, warn, or error)", value)
		}
		c.Daemon.LogLevel = value
	case "log_file":
		c.Daemon.LogFile = value
	default:
		return fmt.Errorf("unknown field: daemon.%s", field)
	}
	return nil
}

func (c *Config) getClientField(field string) (string, error) {
	switch field {
	case "request_timeout_ms":
		return strconv.Itoa(c.Client.RequestTimeoutMs), nil
	case "connect_timeout_ms":
		return strconv.Itoa(c.Client.ConnectTimeoutMs), nil
	case "auto_start_daemon":
		return strconv.FormatBool(c.Client.AutoStartDaemon), nil
	default:
		return "", fmt.Errorf("unknown field: client.%s", field)
	}
}

func (c *Config) setClientField(field, value string) error {
	switch field {
	case "request_timeout_ms":
		v, err := strconv.Atoi(value)
		if err != nil || v < 0 {
			return fmt.Errorf("invalid request_timeout_ms: %s", value)
		}
		c.Client.RequestTimeoutMs = v
	case "connect_timeout_ms":
		v, err := strconv.Atoi(value)
		if err != nil || v < 0 {
			return fmt.Errorf("invalid connect_timeout_ms: %s", value)
		}
		c.Client.ConnectTimeoutMs = v
	case "auto_start_daemon":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid auto_start_daemon: %s", value)
		}
		c.Client.AutoStartDaemon = v
	default:
		return fmt.Errorf("unknown field: client.%s", field)
	}
	return nil
}

func (c *Config) getStoreField(field string) (string, error) {
	switch field {
	case "retain_runs":
		return strconv.Itoa(c.Store.RetainRuns), nil
	case "cache_budget_mb":
		return strconv.Itoa(c.Store.CacheBudgetMB), nil
	default:
		return "", fmt.Errorf("unknown field: store.%s", field)
	}
}

func (c *Config) setStoreField(field, value string) error {
	switch field {
	case "retain_runs":
		v, err := strconv.Atoi(value)
		if err != nil || v < 0 {
			return fmt.Errorf("invalid retain_runs: %s", value)
		}
		c.Store.RetainRuns = v
	case "cache_budget_mb":
		v, err := strconv.Atoi(value)
		if err != nil || v < 1 {
			return fmt.Errorf("invalid cache_budget_mb: %s", value)
		}
		c.Store.CacheBudgetMB = v
	default:
		return fmt.Errorf("unknown field: store.%s", field)
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if !isValidTarget(c.Mining.Target) {
		return fmt.Errorf("mining.target must be all or closed (got: %s)", c.Mining.Target)
	}
	if c.Mining.MinLength < 0 {
		return errors.New("mining.min_length must be >= 0")
	}
	if c.Mining.MaxLength < 0 {
		return errors.New("mining.max_length must be >= 0")
	}
	if c.Mining.MaxLength > 0 && c.Mining.MaxLength < c.Mining.MinLength {
		return errors.New("mining.max_length must be >= mining.min_length")
	}
	if c.Mining.MinSupp > 100 {
		return errors.New("mining.min_support must be <= 100")
	}
	if !isValidLogLevel(c.Daemon.LogLevel) {
		return fmt.Errorf("daemon.log_level must be debug, info, warn, or error (got: %s)", c.Daemon.LogLevel)
	}
	if c.Daemon.IdleTimeoutMins < 0 {
		return errors.New("daemon.idle_timeout_mins must be >= 0")
	}
	if c.Client.RequestTimeoutMs < 0 {
		return errors.New("client.request_timeout_ms must be >= 0")
	}
	if c.Client.ConnectTimeoutMs < 0 {
		return errors.New("client.connect_timeout_ms must be >= 0")
	}
	if c.Store.CacheBudgetMB < 1 {
		return errors.New("store.cache_budget_mb must be >= 1")
	}
	return nil
}

func isValidTarget(target string) bool {
	switch target {
	case "all", "closed":
		return true
	default:
		return false
	}
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// ApplyEnvOverrides applies environment variable overrides to the config.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("SEQUOIA_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil && b {
			c.Daemon.LogLevel = "debug"
		}
	}
	if v := os.Getenv("SEQUOIA_LOG_LEVEL"); v != "" {
		if isValidLogLevel(v) {
			c.Daemon.LogLevel = v
		}
	}
	if v := os.Getenv("SEQUOIA_SOCKET_PATH"); v != "" {
		c.Daemon.SocketPath = v
	}
}

// ListKeys returns the user-facing configuration keys.
func ListKeys() []string {
	return []string{
		"mining.target",
		"mining.min_length",
		"mining.max_length",
		"mining.min_support",
		"mining.weighted",
		"output.scanable",
		"output.header",
		"output.item_separator",
		"output.weight_format",
		"output.info_format",
		"output.write_spectrum",
		"daemon.idle_timeout_mins",
		"daemon.socket_path",
		"daemon.log_level",
		"daemon.log_file",
		"client.request_timeout_ms",
		"client.connect_timeout_ms",
		"client.auto_start_daemon",
		"store.retain_runs",
		"store.cache_budget_mb",
	}
}
