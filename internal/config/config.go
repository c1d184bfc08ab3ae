package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML accepts both "5m"-style strings and
// plain numbers, which are read as seconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		dur, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("parse duration %q: %w", s, err)
		}
		*d = Duration(dur)
		return nil
	}
	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("parse duration: %w", err)
	}
	*d = Duration(time.Duration(n) * time.Second)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		Provider     string   `yaml:"provider"` // "yahoo" or "binance"
		Symbols      []string `yaml:"symbols"`
		APIKey       string   `yaml:"api_key"`
		APISecret    string   `yaml:"api_secret"`
		Interval     string   `yaml:"interval"`      // bar interval, e.g. "1h"
		LookbackDays int      `yaml:"lookback_days"` // fetch window size
	} `yaml:"data_source"`
	Indicators struct {
		VWMAShort    int     `yaml:"vwma_short"`
		VWMALong     int     `yaml:"vwma_long"`
		RSIWindow    int     `yaml:"rsi_window"`
		RSIMAWindow  int     `yaml:"rsi_ma_window"`
		StochWindow  int     `yaml:"stoch_window"`
		StochSmoothK int     `yaml:"stoch_smooth_k"`
		StochSmoothD int     `yaml:"stoch_smooth_d"`
		Overbought   float64 `yaml:"overbought"`
		Oversold     float64 `yaml:"oversold"`
		MinBars      int     `yaml:"min_bars"`
	} `yaml:"indicators"`
	Schedule struct {
		PollInterval Duration `yaml:"poll_interval"`
		Cron         string   `yaml:"cron"` // optional, replaces the interval loop
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults.
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

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("DATA_SYMBOLS"); v != "" {
		cfg.DataSource.Symbols = splitSymbols(v)
	}
	if v := os.Getenv("DATA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("DATA_API_SECRET"); v != "" {
		cfg.DataSource.APISecret = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Schedule.PollInterval = Duration(d)
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}

	applyDefaults(cfg)
	return cfg, nil
}

func splitSymbols(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func applyDefaults(cfg *Config) {
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
	}
	if cfg.DataSource.Interval == "" {
		cfg.DataSource.Interval = "1h"
	}
	if cfg.DataSource.LookbackDays == 0 {
		cfg.DataSource.LookbackDays = 7
	}
	ind := &cfg.Indicators
	if ind.VWMAShort == 0 {
		ind.VWMAShort = 1
	}
	if ind.VWMALong == 0 {
		ind.VWMALong = 3
	}
	if ind.RSIWindow == 0 {
		ind.RSIWindow = 14
	}
	if ind.RSIMAWindow == 0 {
		ind.RSIMAWindow = 9
	}
	if ind.StochWindow == 0 {
		ind.StochWindow = 14
	}
	if ind.StochSmoothK == 0 {
		ind.StochSmoothK = 3
	}
	if ind.StochSmoothD == 0 {
		ind.StochSmoothD = 3
	}
	if ind.Overbought == 0 {
		ind.Overbought = 60
	}
	if ind.Oversold == 0 {
		ind.Oversold = 40
	}
	if ind.MinBars == 0 {
		ind.MinBars = ind.RSIWindow + 1
	}
	if cfg.Schedule.PollInterval == 0 {
		cfg.Schedule.PollInterval = Duration(300 * time.Second)
	}
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if len(c.DataSource.Symbols) == 0 {
		return fmt.Errorf("data_source.symbols must list at least one symbol")
	}
	if c.Indicators.Oversold >= c.Indicators.Overbought {
		return fmt.Errorf("indicators.oversold must be below indicators.overbought")
	}
	return nil
}
