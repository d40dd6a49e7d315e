package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds CLI settings. Values come from defaults, then the YAML
// config file, then SISVERIFY_* environment variables, then flags.
type Config struct {
	NodeURL       string        `yaml:"node_url"`
	CacheDir      string        `yaml:"cache_dir"`
	CacheMaxBytes int64         `yaml:"cache_max_bytes"`
	Timeout       time.Duration `yaml:"timeout"`
	Concurrency   int           `yaml:"concurrency"`
	CodeVersion   string        `yaml:"code_version"`
	LogLevel      string        `yaml:"log_level"`
	NoColor       bool          `yaml:"no_color"`
}

const envPrefix = "SISVERIFY_"

func defaultConfig() Config {
	return Config{
		CacheMaxBytes: 10 << 20,
		Timeout:       30 * time.Second,
		Concurrency:   4,
		CodeVersion:   "0",
		LogLevel:      "warn",
	}
}

// loadConfig reads the YAML file at path over the defaults and applies
// environment overrides. An empty path skips the file.
func loadConfig(path string, getenv func(string) string) (Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // path comes from the operator
		if err != nil {
			return cfg, fmt.Errorf("config load: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config unmarshal: %w", err)
		}
	}
	if err := applyEnvOverrides(&cfg, getenv); err != nil {
		return cfg, err
	}
	return cfg, cfg.validate()
}

// applyEnvOverrides overrides settings with SISVERIFY_ prefixed variables.
func applyEnvOverrides(c *Config, getenv func(string) string) error {
	if v := getenv(envPrefix + "NODE_URL"); v != "" {
		c.NodeURL = v
	}
	if v := getenv(envPrefix + "CACHE_DIR"); v != "" {
		c.CacheDir = v
	}
	if v := getenv(envPrefix + "CACHE_MAX_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%sCACHE_MAX_BYTES: %w", envPrefix, err)
		}
		c.CacheMaxBytes = n
	}
	if v := getenv(envPrefix + "TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sTIMEOUT: %w", envPrefix, err)
		}
		c.Timeout = d
	}
	if v := getenv(envPrefix + "CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sCONCURRENCY: %w", envPrefix, err)
		}
		c.Concurrency = n
	}
	if v := getenv(envPrefix + "CODE_VERSION"); v != "" {
		c.CodeVersion = v
	}
	if v := getenv(envPrefix + "LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := getenv(envPrefix + "NO_COLOR"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sNO_COLOR: %w", envPrefix, err)
		}
		c.NoColor = b
	}
	return nil
}

func (c Config) validate() error {
	var errs []error
	if c.CacheMaxBytes < 0 {
		errs = append(errs, errors.New("cache_max_bytes must be >= 0"))
	}
	if c.Timeout < 0 {
		errs = append(errs, errors.New("timeout must be >= 0"))
	}
	if c.Concurrency < 0 {
		errs = append(errs, errors.New("concurrency must be >= 0"))
	}
	if c.CodeVersion == "" {
		errs = append(errs, errors.New("code_version must not be empty"))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}
