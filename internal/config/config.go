// Package config loads the breachlens server configuration from YAML.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"breachlens/internal/errors"
)

// Config is the root configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Store    StoreConfig    `yaml:"store"`
	Logging  LoggingConfig  `yaml:"logging"`
	Analysis AnalysisConfig `yaml:"analysis"`
}

// ServerConfig controls the HTTP transport.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	DefaultDataset  string        `yaml:"default_dataset"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// StoreConfig controls the optional Postgres historical-row store.
type StoreConfig struct {
	DSN        string `yaml:"dsn"`
	QueryLimit int    `yaml:"query_limit"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level         string `yaml:"level"`
	Dir           string `yaml:"dir"`
	File          string `yaml:"file"`
	MaxSizeMB     int    `yaml:"max_size_mb"`
	MaxBackups    int    `yaml:"max_backups"`
	MaxAgeDays    int    `yaml:"max_age_days"`
	EnableConsole bool   `yaml:"enable_console"`
	EnableFile    bool   `yaml:"enable_file"`
}

// AnalysisConfig controls request-time analysis behavior.
type AnalysisConfig struct {
	// AttackRiskThreshold is the composite score at or above which the
	// system-status endpoint reports the environment as under attack.
	AttackRiskThreshold float64 `yaml:"attack_risk_threshold"`

	// MaxPreviewRows caps csv-preview responses.
	MaxPreviewRows int `yaml:"max_preview_rows"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Store: StoreConfig{
			QueryLimit: 500,
		},
		Logging: LoggingConfig{
			Level:         "info",
			Dir:           "logs",
			File:          "breachlens.jsonl",
			MaxSizeMB:     10,
			MaxBackups:    5,
			MaxAgeDays:    30,
			EnableConsole: true,
			EnableFile:    true,
		},
		Analysis: AnalysisConfig{
			AttackRiskThreshold: 7.0,
			MaxPreviewRows:      20,
		},
	}
}

// Load reads a YAML configuration file over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewConfigMissingError(path)
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for usable values.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.NewConfigValidationError("server.addr", c.Server.Addr, "must not be empty")
	}
	if c.Store.QueryLimit < 0 {
		return errors.NewConfigValidationError("store.query_limit", c.Store.QueryLimit, "must not be negative")
	}
	if c.Analysis.AttackRiskThreshold < 0 || c.Analysis.AttackRiskThreshold > 10 {
		return errors.NewConfigValidationError("analysis.attack_risk_threshold", c.Analysis.AttackRiskThreshold, "must be in [0,10]")
	}
	if c.Analysis.MaxPreviewRows <= 0 {
		return errors.NewConfigValidationError("analysis.max_preview_rows", c.Analysis.MaxPreviewRows, "must be positive")
	}
	return nil
}
