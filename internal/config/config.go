package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	Database   DatabaseConfig   `yaml:"database"`
	Server     ServerConfig     `yaml:"server"`
	Cache      CacheConfig      `yaml:"cache"`
	Foursquare FoursquareConfig `yaml:"foursquare"`
	Checkin    CheckinConfig    `yaml:"checkin"`
	Enrich     EnrichConfig     `yaml:"enrich"`
	Ingest     IngestConfig     `yaml:"ingest"`
}

// DatabaseConfig configures SQLite storage.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// CacheConfig configures the provider response cache.
type CacheConfig struct {
	Dir string `yaml:"dir"`
}

// FoursquareConfig holds the Places API credential.
type FoursquareConfig struct {
	APIKey string `yaml:"api_key"`
}

// CheckinConfig configures the check-in cooldown gate.
type CheckinConfig struct {
	CooldownMinutes int `yaml:"cooldown_minutes"`
	ThrottleSize    int `yaml:"throttle_size"`
}

// EnrichConfig configures on-demand OSM enrichment.
type EnrichConfig struct {
	TTL          string `yaml:"ttl"`
	DefaultLimit int    `yaml:"default_limit"`
}

// ParseTTL returns the enrichment cache TTL as a duration.
func (e EnrichConfig) ParseTTL() time.Duration {
	d, err := time.ParseDuration(e.TTL)
	if err != nil {
		return time.Hour
	}
	return d
}

// IngestConfig holds defaults for batch ingestion commands.
type IngestConfig struct {
	Delay      string `yaml:"delay"`
	MaxRetries int    `yaml:"max_retries"`
}

// ParseDelay returns the politeness delay between ingestion terms.
func (i IngestConfig) ParseDelay() time.Duration {
	d, err := time.ParseDuration(i.Delay)
	if err != nil {
		return 2 * time.Second
	}
	return d
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "./forkfilter.db"},
		Server:   ServerConfig{Port: 8080},
		Cache:    CacheConfig{Dir: "./cache"},
		Checkin: CheckinConfig{
			CooldownMinutes: 10,
			ThrottleSize:    65536,
		},
		Enrich: EnrichConfig{
			TTL:          "1h",
			DefaultLimit: 120,
		},
		Ingest: IngestConfig{
			Delay:      "2s",
			MaxRetries: 3,
		},
	}
}

// Load reads configuration from a YAML file and applies env var overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides overrides config values with environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("FOURSQUARE_API_KEY"); v != "" {
		cfg.Foursquare.APIKey = v
	}
	if v := os.Getenv("CHECKIN_COOLDOWN_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Checkin.CooldownMinutes = n
		}
	}
	if v := os.Getenv("FORKFILTER_CACHE_DIR"); v != "" {
		cfg.Cache.Dir = v
	}
}
