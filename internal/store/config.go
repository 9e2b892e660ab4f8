package store

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Service struct {
		BaseURL        string `yaml:"base_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		RetryAttempts  int    `yaml:"retry_attempts"`
	} `yaml:"service"`
	Backtest struct {
		DefaultSymbol  string  `yaml:"default_symbol"`
		StartDate      string  `yaml:"start_date"`
		EndDate        string  `yaml:"end_date"`
		InitialCapital float64 `yaml:"initial_capital"`
	} `yaml:"backtest"`
	Symbols struct {
		LookupEnabled  bool `yaml:"lookup_enabled"`
		TimeoutSeconds int  `yaml:"timeout_seconds"`
	} `yaml:"symbols"`
	RunLog struct {
		Dir           string `yaml:"dir"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"run_log"`
	Chart struct {
		ShortMAPeriod int `yaml:"short_ma_period"`
		LongMAPeriod  int `yaml:"long_ma_period"`
	} `yaml:"chart"`
}

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func (c *Config) Validate() error {
	if c.Service.BaseURL == "" {
		return errors.New("service.base_url cannot be empty")
	}
	if c.Service.TimeoutSeconds <= 0 {
		return fmt.Errorf("service.timeout_seconds must be positive, got %d", c.Service.TimeoutSeconds)
	}
	if c.Backtest.StartDate != "" && !datePattern.MatchString(c.Backtest.StartDate) {
		return fmt.Errorf("backtest.start_date must be YYYY-MM-DD, got '%s'", c.Backtest.StartDate)
	}
	if c.Backtest.EndDate != "" && !datePattern.MatchString(c.Backtest.EndDate) {
		return fmt.Errorf("backtest.end_date must be YYYY-MM-DD, got '%s'", c.Backtest.EndDate)
	}
	if c.Backtest.InitialCapital < 0 {
		return fmt.Errorf("backtest.initial_capital cannot be negative, got %.2f", c.Backtest.InitialCapital)
	}
	if c.Chart.ShortMAPeriod >= c.Chart.LongMAPeriod {
		return fmt.Errorf("chart.short_ma_period (%d) must be below chart.long_ma_period (%d)",
			c.Chart.ShortMAPeriod, c.Chart.LongMAPeriod)
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

	if c.Service.BaseURL == "" {
		c.Service.BaseURL = "http://localhost:8000"
	}
	if c.Service.TimeoutSeconds == 0 {
		c.Service.TimeoutSeconds = 60
	}
	if c.Service.RetryAttempts == 0 {
		c.Service.RetryAttempts = 3
	}
	if c.Backtest.DefaultSymbol == "" {
		c.Backtest.DefaultSymbol = "2330.TW"
	}
	if c.Backtest.StartDate == "" {
		c.Backtest.StartDate = "2024-01-01"
	}
	if c.Backtest.EndDate == "" {
		c.Backtest.EndDate = "2024-10-31"
	}
	if c.Symbols.TimeoutSeconds == 0 {
		c.Symbols.TimeoutSeconds = 15
	}
	if c.RunLog.Dir == "" {
		c.RunLog.Dir = "logs"
	}
	if c.Chart.ShortMAPeriod == 0 {
		c.Chart.ShortMAPeriod = 5
	}
	if c.Chart.LongMAPeriod == 0 {
		c.Chart.LongMAPeriod = 20
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}
