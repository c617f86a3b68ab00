package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewDefaultConfig_IsValid(t *testing.T) {
	config := NewDefaultConfig()

	require.NoError(t, config.Validate())
	assert.Equal(t, "investment_metrics.pdf", config.Report.Output)
	assert.Equal(t, "Investment Performance Metrics", config.Report.Title)
	assert.True(t, config.Report.PrintTable)
	assert.Equal(t, "notty", config.Report.TableStyle)
	assert.Equal(t, 252, config.Metrics.PeriodsPerYear)

	ttl, err := config.Storage.CacheTTLDuration()
	require.NoError(t, err)
	assert.Equal(t, 12*time.Hour, ttl)
}

func TestLoadFromFiles_LaterFilesOverride(t *testing.T) {
	t.Setenv("EODHD_API_KEY", "")
	t.Setenv("TEARSHEET_EODHD_API_KEY", "")

	first := writeConfig(t, "base.toml", `
[eodhd]
api_key = "base-key"

[report]
output = "base.pdf"
title = "Base"
`)
	second := writeConfig(t, "override.toml", `
[report]
output = "override.pdf"

[metrics]
risk_free_rate = 0.02
`)

	config, err := LoadFromFiles(first, second)
	require.NoError(t, err)

	assert.Equal(t, "base-key", config.EODHD.APIKey)
	assert.Equal(t, "override.pdf", config.Report.Output)
	assert.Equal(t, "Base", config.Report.Title)
	assert.Equal(t, 0.02, config.Metrics.RiskFreeRate)
	// untouched defaults survive
	assert.Equal(t, "US", config.Market.DefaultExchange)
}

func TestLoadFromFiles_Errors(t *testing.T) {
	_, err := LoadFromFiles(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	bad := writeConfig(t, "bad.toml", "[report\noutput = ")
	_, err = LoadFromFiles(bad)
	assert.Error(t, err)
}

func TestLoadFromFiles_EnvOverrides(t *testing.T) {
	t.Setenv("TEARSHEET_EODHD_API_KEY", "")
	t.Setenv("EODHD_API_KEY", "env-key")
	t.Setenv("TEARSHEET_LOG_OUTPUT", "stdout, file ,")
	t.Setenv("TEARSHEET_CACHE_ENABLED", "false")
	t.Setenv("TEARSHEET_RISK_FREE_RATE", "0.03")

	config, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, "env-key", config.EODHD.APIKey)
	assert.Equal(t, []string{"stdout", "file"}, config.Logging.Output)
	assert.False(t, config.Storage.Badger.Enabled)
	assert.Equal(t, 0.03, config.Metrics.RiskFreeRate)

	t.Setenv("TEARSHEET_EODHD_API_KEY", "prefixed-key")
	config, err = LoadFromFiles()
	require.NoError(t, err)
	assert.Equal(t, "prefixed-key", config.EODHD.APIKey)
}

func TestApplyFlagOverrides(t *testing.T) {
	config := NewDefaultConfig()

	ApplyFlagOverrides(config, "", false, "")
	assert.Equal(t, "investment_metrics.pdf", config.Report.Output)
	assert.True(t, config.Report.PrintTable)

	ApplyFlagOverrides(config, "meta.pdf", true, "meta.yaml")
	assert.Equal(t, "meta.pdf", config.Report.Output)
	assert.False(t, config.Report.PrintTable)
	assert.Equal(t, "meta.yaml", config.Report.ExportYAML)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing api key", func(c *Config) { c.EODHD.APIKey = "" }},
		{"bad base url", func(c *Config) { c.EODHD.BaseURL = "not a url" }},
		{"bad timeout", func(c *Config) { c.EODHD.Timeout = "soon" }},
		{"bad cache ttl", func(c *Config) { c.Storage.CacheTTL = "daily" }},
		{"bad from date", func(c *Config) { c.Market.From = "01/02/2020" }},
		{"bad confidence", func(c *Config) { c.Metrics.VaRConfidence = 1.5 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad cron", func(c *Config) { c.Schedule.Cron = "every day" }},
		{"five field cron", func(c *Config) { c.Schedule.Cron = "30 22 * * 1-5" }},
		{"unknown table style", func(c *Config) { c.Report.TableStyle = "neon" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := NewDefaultConfig()
			tt.mutate(config)
			assert.Error(t, config.Validate())
		})
	}
}

func TestMarketConfig_FromDate(t *testing.T) {
	from, err := MarketConfig{From: "2020-01-02"}.FromDate()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), from)

	from, err = MarketConfig{}.FromDate()
	require.NoError(t, err)
	assert.True(t, from.IsZero())
}
