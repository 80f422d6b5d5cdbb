package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file read when no --config flag is given.
const DefaultPath = "wc-eda.yaml"

// Data sources.
const (
	SourceCSV    = "csv"
	SourceSQLite = "sqlite"
)

// Config holds all wc-eda configuration.
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Server  ServerConfig  `yaml:"server"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Logging LoggingConfig `yaml:"logging"`
}

// DataConfig says where the two tables come from and where reports go.
type DataConfig struct {
	Source      string `yaml:"source"`       // csv, sqlite
	RawRoot     string `yaml:"raw_root"`     // directory holding group_stats.csv and team_data.csv
	SQLitePath  string `yaml:"sqlite_path"`  // database file for the sqlite source
	DerivedRoot string `yaml:"derived_root"` // reports are written here
}

// ServerConfig configures wc-server. Flags override these values.
type ServerConfig struct {
	Addr         string `yaml:"addr"`
	Path         string `yaml:"path"`
	APIKey       string `yaml:"api_key"`
	APIKeyHeader string `yaml:"api_key_header"`
	RequireAuth  bool   `yaml:"require_auth"`
}

// FetchConfig configures the raw CSV downloader.
type FetchConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Source:      SourceCSV,
			RawRoot:     "data/raw",
			SQLitePath:  "data/wc2022.db",
			DerivedRoot: "data/derived",
		},
		Server: ServerConfig{
			Addr:         ":8080",
			Path:         "/mcp",
			APIKeyHeader: "X-API-Key",
			RequireAuth:  true,
		},
		Fetch: FetchConfig{
			Timeout: "30s",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults; environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := strings.TrimSpace(os.Getenv("WC_DATA_SOURCE")); v != "" {
		c.Data.Source = strings.ToLower(v)
	}
	if v := os.Getenv("WC_RAW_ROOT"); v != "" {
		c.Data.RawRoot = v
	}
	if v := os.Getenv("WC_SQLITE_PATH"); v != "" {
		c.Data.SQLitePath = v
	}
	if v := os.Getenv("WC_DERIVED_ROOT"); v != "" {
		c.Data.DerivedRoot = v
	}
	if v := strings.TrimSpace(os.Getenv("WC_MCP_API_KEY")); v != "" {
		c.Server.APIKey = v
	}
	if v := os.Getenv("WC_FETCH_BASE_URL"); v != "" {
		c.Fetch.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("WC_LOG_LEVEL")); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
}

// FetchTimeout returns the fetch timeout as a duration.
func (c *Config) FetchTimeout() time.Duration {
	d, err := time.ParseDuration(c.Fetch.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// ValidSources lists the supported data sources.
var ValidSources = []string{SourceCSV, SourceSQLite}

// ValidLogLevels lists the accepted logging levels.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if !contains(ValidSources, c.Data.Source) {
		return fmt.Errorf("invalid data source: %s (valid: %v)", c.Data.Source, ValidSources)
	}
	switch c.Data.Source {
	case SourceCSV:
		if c.Data.RawRoot == "" {
			return fmt.Errorf("data.raw_root is required for the csv source")
		}
	case SourceSQLite:
		if c.Data.SQLitePath == "" {
			return fmt.Errorf("data.sqlite_path is required for the sqlite source")
		}
	}
	if !contains(ValidLogLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Logging.Level, ValidLogLevels)
	}
	if c.Server.Path == "" || !strings.HasPrefix(c.Server.Path, "/") {
		return fmt.Errorf("server.path must start with /: %q", c.Server.Path)
	}
	if c.Fetch.Timeout != "" {
		if _, err := time.ParseDuration(c.Fetch.Timeout); err != nil {
			return fmt.Errorf("invalid fetch.timeout: %w", err)
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
