package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for the advisor service
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Clients     ClientsConfig `toml:"clients"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds storage configuration.
type StorageConfig struct {
	Session AreaConfig `toml:"session"` // Session state: current portfolio + assumption overrides (BadgerHold)
}

// AreaConfig holds path configuration for a storage area.
type AreaConfig struct {
	Path string `toml:"path"`
}

// ClientsConfig holds upstream client configurations.
// Upstream is the shared base URL prefix for both endpoints; the
// per-client base_url keys override it when set.
type ClientsConfig struct {
	Upstream  string          `toml:"upstream"`
	Parser    ParserConfig    `toml:"parser"`
	Simulator SimulatorConfig `toml:"simulator"`
}

// ParserConfig holds document parser client configuration
type ParserConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *ParserConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 60 * time.Second
	}
	return d
}

// SimulatorConfig holds simulation client configuration
type SimulatorConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *SimulatorConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 120 * time.Second
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Format     string   `toml:"format"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Session: AreaConfig{Path: "data/session"},
		},
		Clients: ClientsConfig{
			Upstream: "http://127.0.0.1:8000",
			Parser: ParserConfig{
				RateLimit: 5,
				Timeout:   "60s",
			},
			Simulator: SimulatorConfig{
				RateLimit: 2,
				Timeout:   "120s",
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			Outputs:    []string{"console", "file"},
			FilePath:   "./logs/montecarlo.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	// Apply environment overrides
	applyEnvOverrides(config)

	// Fill per-client base URLs from the shared upstream prefix
	resolveClientBaseURLs(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("MONTECARLO_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("MONTECARLO_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("MONTECARLO_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("MONTECARLO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("MONTECARLO_DATA_PATH"); path != "" {
		config.Storage.Session.Path = filepath.Join(path, "session")
	}

	if url := os.Getenv("MONTECARLO_UPSTREAM_URL"); url != "" {
		config.Clients.Upstream = url
	}

	if url := os.Getenv("MONTECARLO_PARSER_URL"); url != "" {
		config.Clients.Parser.BaseURL = url
	}

	if url := os.Getenv("MONTECARLO_SIMULATOR_URL"); url != "" {
		config.Clients.Simulator.BaseURL = url
	}
}

// resolveClientBaseURLs fills empty per-client base URLs from the shared
// upstream prefix. A client with an explicit base_url keeps it.
func resolveClientBaseURLs(config *Config) {
	upstream := strings.TrimRight(config.Clients.Upstream, "/")

	if config.Clients.Parser.BaseURL == "" {
		config.Clients.Parser.BaseURL = upstream
	}
	if config.Clients.Simulator.BaseURL == "" {
		config.Clients.Simulator.BaseURL = upstream
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
