// Package config gathers the settings shared by the tapesort tools.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds tool configuration.
type Config struct {
	WorkDir       string `yaml:"work_dir"`
	LogLevel      string `yaml:"log_level"`
	LogFormat     string `yaml:"log_format"` // "text" | "json"
	Policy        string `yaml:"policy"`     // built-in name or CEL expression
	KeepWorkTapes bool   `yaml:"keep_work_tapes"`
	CachePages    int64  `yaml:"cache_pages"`
}

func defaults() *Config {
	return &Config{
		WorkDir:    os.TempDir(),
		LogLevel:   "INFO",
		LogFormat:  "text",
		Policy:     "asc",
		CachePages: 256,
	}
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := defaults()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads a YAML file over the defaults. Environment variables still
// take precedence over the file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config %q: %w", path, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("TAPESORT_WORK_DIR"); v != "" {
		c.WorkDir = v
	}
	if v := os.Getenv("TAPESORT_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("TAPESORT_LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
	if v := os.Getenv("TAPESORT_POLICY"); v != "" {
		c.Policy = v
	}
	if v := os.Getenv("TAPESORT_KEEP_WORK_TAPES"); v != "" {
		keep, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TAPESORT_KEEP_WORK_TAPES: %w", err)
		}
		c.KeepWorkTapes = keep
	}
	if v := os.Getenv("TAPESORT_CACHE_PAGES"); v != "" {
		pages, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("TAPESORT_CACHE_PAGES: %w", err)
		}
		c.CachePages = pages
	}
	return nil
}

// Level maps LogLevel onto slog. Unknown names fall back to info.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// NewLogger builds the slog logger described by cfg, writing to stderr.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level()}
	if strings.EqualFold(cfg.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
