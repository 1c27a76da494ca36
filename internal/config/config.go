// Package config provides configuration management for the trading assistant.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Watchlist   WatchlistConfig `mapstructure:"watchlist"`
	Market      MarketConfig    `mapstructure:"market"`
	Pipeline    PipelineConfig  `mapstructure:"pipeline"`
	Database    DatabaseConfig  `mapstructure:"database"`
	Logging     LoggingConfig   `mapstructure:"logging"`
	Credentials Credentials     `mapstructure:"-"` // Loaded separately
}

// WatchlistConfig holds the initial set of tickers the bot watches.
type WatchlistConfig struct {
	Tickers []string `mapstructure:"tickers"`
}

// MarketConfig holds market-data provider configuration.
type MarketConfig struct {
	Sandbox        bool `mapstructure:"sandbox"`
	CandleDays     int  `mapstructure:"candle_days"`
	TimeoutSeconds int  `mapstructure:"timeout_seconds"`
}

// PipelineConfig holds analysis pipeline configuration.
type PipelineConfig struct {
	Model       string `mapstructure:"model"`
	TailRows    int    `mapstructure:"tail_rows"`
	Concurrency int    `mapstructure:"concurrency"`
}

// DatabaseConfig holds persistence configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
	File    bool   `mapstructure:"file"`
}

// Credentials holds API credentials.
type Credentials struct {
	Tinkoff  TinkoffCredentials  `mapstructure:"tinkoff"`
	Telegram TelegramCredentials `mapstructure:"telegram"`
	OpenAI   OpenAICredentials   `mapstructure:"openai"`
}

// TinkoffCredentials holds Tinkoff Invest API credentials.
type TinkoffCredentials struct {
	Token string `mapstructure:"token"`
}

// TelegramCredentials holds Telegram Bot API credentials.
type TelegramCredentials struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

// OpenAICredentials holds OpenAI API credentials.
type OpenAICredentials struct {
	APIKey string `mapstructure:"api_key"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/tinkoff-assistant"
	}
	return filepath.Join(home, ".config", "tinkoff-assistant")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		return nil, fmt.Errorf("loading config.yaml: %w", err)
	}

	if err := loadCredentials(configDir, &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.yaml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir, name string, target interface{}) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	v.SetDefault("watchlist.tickers", []string{})
	v.SetDefault("market.sandbox", true)
	v.SetDefault("market.candle_days", 5)
	v.SetDefault("market.timeout_seconds", 30)
	v.SetDefault("pipeline.model", "gpt-4o")
	v.SetDefault("pipeline.tail_rows", 40)
	v.SetDefault("pipeline.concurrency", 4)
	v.SetDefault("database.path", filepath.Join(configDir, "memory.db"))
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", true)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
		// Missing file is fine, defaults and env apply.
	}

	return v.Unmarshal(target)
}

func loadCredentials(configDir string, creds *Credentials) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
		return nil
	}

	return v.Unmarshal(creds)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TINKOFF_TOKEN"); v != "" {
		cfg.Credentials.Tinkoff.Token = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Credentials.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Credentials.Telegram.ChatID = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Credentials.OpenAI.APIKey = v
	}
	if v := os.Getenv("WATCH_TICKERS"); v != "" {
		cfg.Watchlist.Tickers = splitTickers(v)
	}
}

func splitTickers(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	tickers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			tickers = append(tickers, strings.ToUpper(p))
		}
	}
	return tickers
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Market.CandleDays <= 0 {
		return fmt.Errorf("market.candle_days must be positive")
	}
	if c.Market.TimeoutSeconds <= 0 {
		return fmt.Errorf("market.timeout_seconds must be positive")
	}
	if c.Pipeline.TailRows <= 0 {
		return fmt.Errorf("pipeline.tail_rows must be positive")
	}
	if c.Pipeline.Concurrency <= 0 {
		return fmt.Errorf("pipeline.concurrency must be positive")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	return nil
}
