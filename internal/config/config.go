package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPort         = "8080"
	DefaultDatabasePath = "payroll.db"
	DefaultCacheEntries = 10_000
	DefaultLogLevel     = "info"
)

// Config is the service configuration. Values come from defaults, then the
// optional YAML file, then the environment; CLI flags are applied last by the
// caller.
type Config struct {
	Port     string `yaml:"port"`
	LogLevel string `yaml:"log_level"`

	// RatesFile is an optional rate table that overrides the embedded one
	// for its year and is reloaded when it changes.
	RatesFile string `yaml:"rates_file"`
	// RatesURL is an optional remote rate registry base URL.
	RatesURL string `yaml:"rates_url"`
	// DefaultYear is the tax year used when a request names none; 0 means
	// the newest loaded table.
	DefaultYear int `yaml:"default_year"`

	// DatabasePath is the activity feed database; empty disables the feed.
	DatabasePath string `yaml:"database_path"`
	CacheEntries int64  `yaml:"cache_entries"`
}

// LogLevels are the accepted log level names.
var LogLevels = map[string]logrus.Level{
	"trace":    logrus.TraceLevel,
	"debug":    logrus.DebugLevel,
	"info":     logrus.InfoLevel,
	"warn":     logrus.WarnLevel,
	"error":    logrus.ErrorLevel,
	"critical": logrus.FatalLevel,
	"off":      logrus.PanicLevel,
}

// ParseLogLevel resolves a name from LogLevels.
func ParseLogLevel(name string) (logrus.Level, error) {
	level, ok := LogLevels[name]
	if !ok {
		return 0, fmt.Errorf("invalid log level %q: must be one of trace debug info warn error critical off", name)
	}
	return level, nil
}

func DefaultConfig() *Config {
	return &Config{
		Port:         DefaultPort,
		LogLevel:     DefaultLogLevel,
		DatabasePath: DefaultDatabasePath,
		CacheEntries: DefaultCacheEntries,
	}
}

// Load reads path on top of the defaults and applies environment overrides.
// An empty path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			dec := yaml.NewDecoder(bytes.NewReader(data))
			dec.KnownFields(true)
			if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if port := os.Getenv("PORT"); port != "" {
		c.Port = port
	}
	if level := os.Getenv("PAYROLL_LOG_LEVEL"); level != "" {
		c.LogLevel = level
	}
	if path := os.Getenv("PAYROLL_RATES_FILE"); path != "" {
		c.RatesFile = path
	}
	if url := os.Getenv("PAYROLL_RATES_URL"); url != "" {
		c.RatesURL = url
	}
	if path := os.Getenv("PAYROLL_DB"); path != "" {
		c.DatabasePath = path
	}
	if year := os.Getenv("PAYROLL_TAX_YEAR"); year != "" {
		y, err := strconv.Atoi(year)
		if err != nil {
			return fmt.Errorf("invalid PAYROLL_TAX_YEAR %q: %w", year, err)
		}
		c.DefaultYear = y
	}
	return nil
}

// Validate checks values that cannot be corrected later.
func (c *Config) Validate() error {
	if _, err := strconv.ParseUint(c.Port, 10, 16); err != nil {
		return fmt.Errorf("invalid port %q", c.Port)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if c.DefaultYear < 0 {
		return fmt.Errorf("invalid default year %d", c.DefaultYear)
	}
	if c.CacheEntries < 0 {
		return fmt.Errorf("invalid cache size %d", c.CacheEntries)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}
