package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "PAYROLL_LOG_LEVEL", "PAYROLL_RATES_FILE", "PAYROLL_RATES_URL", "PAYROLL_DB", "PAYROLL_TAX_YEAR"} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "payroll.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	for _, path := range []string{"", filepath.Join(t.TempDir(), "missing.yaml")} {
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
		assert.Equal(t, ":8080", cfg.Addr())
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
port: "9090"
log_level: debug
rates_file: /etc/payroll/2025.yaml
default_year: 2024
database_path: ""
cache_entries: 50
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/etc/payroll/2025.yaml", cfg.RatesFile)
	assert.Equal(t, 2024, cfg.DefaultYear)
	assert.Empty(t, cfg.DatabasePath)
	assert.EqualValues(t, 50, cfg.CacheEntries)
}

func TestLoadEmptyFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeConfig(t, "prot: 9090\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prot")
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "port: \"9090\"\ndatabase_path: file.db\n")

	t.Setenv("PORT", "7000")
	t.Setenv("PAYROLL_DB", "env.db")
	t.Setenv("PAYROLL_RATES_URL", "http://rates.internal")
	t.Setenv("PAYROLL_LOG_LEVEL", "warn")
	t.Setenv("PAYROLL_TAX_YEAR", "2024")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, "env.db", cfg.DatabasePath)
	assert.Equal(t, "http://rates.internal", cfg.RatesURL)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 2024, cfg.DefaultYear)
}

func TestEnvOverridesApplyWithoutFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7000")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Port)
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Port = "http" }},
		{"port out of range", func(c *Config) { c.Port = "70000" }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
		{"negative year", func(c *Config) { c.DefaultYear = -1 }},
		{"negative cache", func(c *Config) { c.CacheEntries = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	t.Setenv("PAYROLL_TAX_YEAR", "next")
	_, err := Load("")
	assert.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	level, err := ParseLogLevel("critical")
	require.NoError(t, err)
	assert.Equal(t, logrus.FatalLevel, level)

	_, err = ParseLogLevel("verbose")
	assert.Error(t, err)
}
