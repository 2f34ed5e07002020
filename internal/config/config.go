// Package config provides configuration loading for the watcher
// service.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the watcher configuration.
type Config struct {
	// Per-origin source settings
	Sources SourcesConfig `yaml:"sources"`

	// Dispatch queue settings
	Dispatch DispatchConfig `yaml:"dispatch"`

	// Solana RPC settings
	RPC RPCConfig `yaml:"rpc"`

	// Snapshot storage settings
	Storage StorageConfig `yaml:"storage"`

	// Metrics endpoint settings
	Metrics MetricsConfig `yaml:"metrics"`
}

// SourcesConfig enables or disables the individual event sources. A
// disabled source is simply not started; the rest of the pipeline is
// unaffected.
type SourcesConfig struct {
	Migration SourceConfig `yaml:"migration"`
	DexPaid   SourceConfig `yaml:"dex_paid"`
	CTO       SourceConfig `yaml:"cto"`
	Scanner   SourceConfig `yaml:"scanner"`
}

// SourceConfig contains settings for a single source.
type SourceConfig struct {
	Enabled bool `yaml:"enabled"`

	// Stream URL (migration) or poll interval (feeds); unused
	// fields are ignored per source.
	URL          string        `yaml:"url"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

// DispatchConfig contains dispatch queue settings.
type DispatchConfig struct {
	// Pause between consecutive dispatches
	Interval time.Duration `yaml:"interval"`
}

// RPCConfig contains Solana RPC settings.
type RPCConfig struct {
	// JSON-RPC endpoint; empty disables on-chain lookups
	Endpoint string `yaml:"endpoint"`

	Timeout time.Duration `yaml:"timeout"`
}

// StorageConfig contains snapshot storage settings.
type StorageConfig struct {
	// Storage type: "file", "postgres", or "memory"
	Type string `yaml:"type"`

	// Output directory for file storage
	OutputDir string `yaml:"output_dir"`

	// Connection string for postgres storage
	DSN string `yaml:"dsn"`
}

// MetricsConfig contains metrics endpoint settings.
type MetricsConfig struct {
	// Listen address; empty disables the endpoint
	Addr string `yaml:"addr"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Sources: SourcesConfig{
			Migration: SourceConfig{
				Enabled: true,
				URL:     "wss://pumpportal.fun/api/data",
			},
			DexPaid: SourceConfig{
				Enabled:      true,
				PollInterval: 60 * time.Second,
			},
			CTO: SourceConfig{
				Enabled:      true,
				PollInterval: 60 * time.Second,
			},
			Scanner: SourceConfig{
				Enabled: false,
			},
		},
		Dispatch: DispatchConfig{
			Interval: 2 * time.Second,
		},
		RPC: RPCConfig{
			Endpoint: "https://api.mainnet-beta.solana.com",
			Timeout:  15 * time.Second,
		},
		Storage: StorageConfig{
			Type:      "file",
			OutputDir: "data",
		},
		Metrics: MetricsConfig{
			Addr: ":9090",
		},
	}
}

// Load loads configuration from a YAML file and applies environment
// overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	case os.IsNotExist(err):
		// fall through to defaults
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config.applyEnv()
	return config, nil
}

// applyEnv overrides file values from the environment.
func (c *Config) applyEnv() {
	if v := os.Getenv("WATCHER_RPC_ENDPOINT"); v != "" {
		c.RPC.Endpoint = v
	}
	if v := os.Getenv("WATCHER_STREAM_URL"); v != "" {
		c.Sources.Migration.URL = v
	}
	if v := os.Getenv("WATCHER_STORAGE_TYPE"); v != "" {
		c.Storage.Type = v
	}
	if v := os.Getenv("WATCHER_STORAGE_DIR"); v != "" {
		c.Storage.OutputDir = v
	}
	if v := os.Getenv("WATCHER_POSTGRES_DSN"); v != "" {
		c.Storage.DSN = v
	}
	if v := os.Getenv("WATCHER_METRICS_ADDR"); v != "" {
		c.Metrics.Addr = v
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case "file":
		if c.Storage.OutputDir == "" {
			return fmt.Errorf("output_dir required for file storage")
		}
	case "postgres":
		if c.Storage.DSN == "" {
			return fmt.Errorf("dsn required for postgres storage")
		}
	case "memory", "none":
	default:
		return fmt.Errorf("invalid storage type: %s", c.Storage.Type)
	}
	if c.Sources.Migration.Enabled && c.Sources.Migration.URL == "" {
		return fmt.Errorf("stream url required when migration source is enabled")
	}
	if c.Dispatch.Interval < 0 {
		return fmt.Errorf("dispatch interval must not be negative")
	}
	return nil
}
