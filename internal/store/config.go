package store

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DataSource string `yaml:"data_source"` // LIVE or MOCK
	Tickers    string `yaml:"tickers"`     // comma-separated free text, normalized downstream
	WindowDays int    `yaml:"window_days"`

	Gateway struct {
		TimeoutSeconds   int     `yaml:"timeout_seconds"`
		RequestsPerSec   float64 `yaml:"requests_per_sec"`
		HistoryDays      int     `yaml:"history_days"`
		CalendarFallback bool    `yaml:"calendar_fallback"`
	} `yaml:"gateway"`

	Cache struct {
		Enabled    bool   `yaml:"enabled"`
		Dir        string `yaml:"dir"`
		TTLSeconds int    `yaml:"ttl_seconds"`
	} `yaml:"cache"`

	CaseLog struct {
		Dir           string `yaml:"dir"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"case_log"`
}

func (c *Config) Validate() error {
	if c.DataSource != "LIVE" && c.DataSource != "MOCK" {
		return fmt.Errorf("invalid data_source '%s': must be 'LIVE' or 'MOCK'", c.DataSource)
	}
	if c.Tickers == "" {
		return errors.New("tickers cannot be empty")
	}
	if c.WindowDays < 1 || c.WindowDays > 60 {
		return fmt.Errorf("window_days must be between 1-60, got %d", c.WindowDays)
	}
	if c.Gateway.HistoryDays < 200 {
		return fmt.Errorf("gateway.history_days must cover at least 200 sessions, got %d", c.Gateway.HistoryDays)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	applyDefaults(&c)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

func applyDefaults(c *Config) {
	if c.DataSource == "" {
		c.DataSource = "LIVE"
	}
	if c.WindowDays == 0 {
		c.WindowDays = 21
	}
	if c.Gateway.TimeoutSeconds == 0 {
		c.Gateway.TimeoutSeconds = 30
	}
	if c.Gateway.RequestsPerSec == 0 {
		c.Gateway.RequestsPerSec = 2
	}
	if c.Gateway.HistoryDays == 0 {
		// One calendar year of sessions comfortably covers an MA200.
		c.Gateway.HistoryDays = 365
	}
	if c.Cache.Dir == "" {
		c.Cache.Dir = "cache/quotes"
	}
	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = 3600
	}
	if c.CaseLog.Dir == "" {
		c.CaseLog.Dir = envOrDefault("SCREENER_LOG_DIR", "logs")
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
