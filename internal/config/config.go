package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Schedule is one recurring screen delivered to Telegram.
type Schedule struct {
	Name         string `yaml:"name"`
	Cron         string `yaml:"cron"`
	Screener     string `yaml:"screener"`
	Region       string `yaml:"region"`
	Preset       string `yaml:"preset"`
	Sector       string `yaml:"sector"`
	Theme        string `yaml:"theme"`
	TopN         int    `yaml:"top_n"`
	WithPullback bool   `yaml:"with_pullback"`
}

// Config holds all application configuration.
type Config struct {
	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
	DataSource struct {
		BaseURL           string        `yaml:"base_url"`
		Timeout           time.Duration `yaml:"timeout"`
		PageSize          int           `yaml:"page_size"`
		RequestsPerSecond float64       `yaml:"requests_per_second"`
		PageInterval      time.Duration `yaml:"page_interval"`
		Concurrency       int           `yaml:"concurrency"`
		HistoryRange      string        `yaml:"history_range"`
	} `yaml:"data_source"`
	Gemini struct {
		APIKey  string        `yaml:"api_key"`
		Model   string        `yaml:"model"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"gemini"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	PresetsFile string     `yaml:"presets_file"`
	Schedules   []Schedule `yaml:"schedules"`
	Proxy       string     `yaml:"proxy"`
}

// DefaultPath is used when CONFIG_PATH is unset.
const DefaultPath = "configs/config.yaml"

// Load reads config from a YAML file, loads a .env file from the working
// directory if there is one, then applies environment variable overrides and
// defaults. A missing config file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env never overrides variables that are already set
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Gemini.APIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		c.Gemini.Model = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("PRESETS_FILE"); v != "" {
		c.PresetsFile = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("SCREEN_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.DataSource.Concurrency = n
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.DataSource.Timeout == 0 {
		c.DataSource.Timeout = 30 * time.Second
	}
	if c.DataSource.PageSize == 0 {
		c.DataSource.PageSize = 250
	}
	if c.DataSource.RequestsPerSecond == 0 {
		c.DataSource.RequestsPerSecond = 4
	}
	if c.DataSource.PageInterval == 0 {
		c.DataSource.PageInterval = time.Second
	}
	if c.DataSource.Concurrency == 0 {
		c.DataSource.Concurrency = 4
	}
	if c.DataSource.HistoryRange == "" {
		c.DataSource.HistoryRange = "1y"
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.0-flash"
	}
	if c.Gemini.Timeout == 0 {
		c.Gemini.Timeout = 2 * time.Minute
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/screen_sentinel.db"
	}
	for i := range c.Schedules {
		s := &c.Schedules[i]
		if s.Name == "" {
			s.Name = fmt.Sprintf("%s-%d", s.Screener, i+1)
		}
		if s.Region == "" {
			s.Region = "japan"
		}
		if s.TopN == 0 {
			s.TopN = 10
		}
	}
}

// cronParser accepts the six-field form with seconds.
var cronParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseCron validates a schedule expression.
func ParseCron(spec string) (cron.Schedule, error) {
	return cronParser.Parse(spec)
}

// Validate checks the settings every command relies on.
func (c *Config) Validate() error {
	if c.DataSource.PageSize < 1 || c.DataSource.PageSize > 250 {
		return fmt.Errorf("data_source.page_size must be between 1 and 250")
	}
	if c.DataSource.RequestsPerSecond < 0 {
		return fmt.Errorf("data_source.requests_per_second must not be negative")
	}
	if c.DataSource.Concurrency < 1 {
		return fmt.Errorf("data_source.concurrency must be positive")
	}
	seen := make(map[string]bool, len(c.Schedules))
	for _, s := range c.Schedules {
		if seen[s.Name] {
			return fmt.Errorf("schedule %q: duplicate name", s.Name)
		}
		seen[s.Name] = true
		if strings.TrimSpace(s.Screener) == "" {
			return fmt.Errorf("schedule %q: screener is required", s.Name)
		}
		if s.TopN < 0 {
			return fmt.Errorf("schedule %q: top_n must not be negative", s.Name)
		}
		if _, err := ParseCron(s.Cron); err != nil {
			return fmt.Errorf("schedule %q: invalid cron %q: %w", s.Name, s.Cron, err)
		}
	}
	return nil
}

// ValidateServe additionally requires Telegram delivery settings.
func (c *Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	return nil
}
