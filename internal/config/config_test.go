package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
data_source:
  timeout: 10s
  concurrency: 2
gemini:
  api_key: from-file
schedules:
  - cron: "0 0 8 * * 1-5"
    screener: pullback
    region: us
  - name: weekly-alpha
    cron: "@weekly"
    screener: alpha
    top_n: 5
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 10*time.Second, cfg.DataSource.Timeout)
	assert.Equal(t, 2, cfg.DataSource.Concurrency)
	assert.Equal(t, 250, cfg.DataSource.PageSize)
	assert.Equal(t, time.Second, cfg.DataSource.PageInterval)
	assert.Equal(t, "1y", cfg.DataSource.HistoryRange)
	assert.Equal(t, "from-file", cfg.Gemini.APIKey)
	assert.Equal(t, "data/screen_sentinel.db", cfg.Database.SQLitePath)

	require.Len(t, cfg.Schedules, 2)
	assert.Equal(t, "pullback-1", cfg.Schedules[0].Name)
	assert.Equal(t, 10, cfg.Schedules[0].TopN)
	assert.Equal(t, "us", cfg.Schedules[0].Region)
	assert.Equal(t, "weekly-alpha", cfg.Schedules[1].Name)
	assert.Equal(t, "japan", cfg.Schedules[1].Region)
	assert.Equal(t, 5, cfg.Schedules[1].TopN)

	assert.NoError(t, cfg.Validate())
	assert.Error(t, cfg.ValidateServe())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 4, cfg.DataSource.Concurrency)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "from-env")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "42")
	t.Setenv("SQLITE_PATH", "/tmp/history.db")
	t.Setenv("SCREEN_CONCURRENCY", "1")

	cfg, err := Load(writeConfig(t, "gemini:\n  api_key: from-file\n"))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Gemini.APIKey)
	assert.Equal(t, "/tmp/history.db", cfg.Database.SQLitePath)
	assert.Equal(t, 1, cfg.DataSource.Concurrency)
	assert.NoError(t, cfg.ValidateServe())
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "schedules: [oops"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		cfg.applyDefaults()
		cfg.Schedules = []Schedule{{Name: "a", Cron: "0 30 7 * * *", Screener: "value", TopN: 5}}
		return cfg
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"page size", func(c *Config) { c.DataSource.PageSize = 500 }},
		{"concurrency", func(c *Config) { c.DataSource.Concurrency = -1 }},
		{"bad cron", func(c *Config) { c.Schedules[0].Cron = "every day" }},
		{"five field cron", func(c *Config) { c.Schedules[0].Cron = "30 7 * * *" }},
		{"no screener", func(c *Config) { c.Schedules[0].Screener = "" }},
		{"negative top_n", func(c *Config) { c.Schedules[0].TopN = -1 }},
		{"duplicate", func(c *Config) { c.Schedules = append(c.Schedules, c.Schedules[0]) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
