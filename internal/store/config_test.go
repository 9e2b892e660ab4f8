package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "service:\n  base_url: http://localhost:8000\n"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Service.TimeoutSeconds != 60 || cfg.Service.RetryAttempts != 3 {
		t.Errorf("service defaults = %d/%d", cfg.Service.TimeoutSeconds, cfg.Service.RetryAttempts)
	}
	if cfg.Backtest.DefaultSymbol != "2330.TW" {
		t.Errorf("default symbol = %q", cfg.Backtest.DefaultSymbol)
	}
	if cfg.Backtest.StartDate != "2024-01-01" || cfg.Backtest.EndDate != "2024-10-31" {
		t.Errorf("date defaults = %s / %s", cfg.Backtest.StartDate, cfg.Backtest.EndDate)
	}
	if cfg.Chart.ShortMAPeriod != 5 || cfg.Chart.LongMAPeriod != 20 {
		t.Errorf("MA defaults = %d/%d", cfg.Chart.ShortMAPeriod, cfg.Chart.LongMAPeriod)
	}
	if cfg.RunLog.Dir != "logs" {
		t.Errorf("run log dir = %q", cfg.RunLog.Dir)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `
service:
  base_url: https://backtest.example.com
  timeout_seconds: 120
backtest:
  default_symbol: 6547.TWO
  start_date: "2023-06-01"
chart:
  short_ma_period: 10
  long_ma_period: 60
`))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Service.BaseURL != "https://backtest.example.com" || cfg.Service.TimeoutSeconds != 120 {
		t.Errorf("service = %+v", cfg.Service)
	}
	if cfg.Backtest.DefaultSymbol != "6547.TWO" || cfg.Backtest.StartDate != "2023-06-01" {
		t.Errorf("backtest = %+v", cfg.Backtest)
	}
	if cfg.Chart.ShortMAPeriod != 10 || cfg.Chart.LongMAPeriod != 60 {
		t.Errorf("chart = %+v", cfg.Chart)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"bad start date", "backtest:\n  start_date: 01-01-2024\n", "start_date"},
		{"bad end date", "backtest:\n  end_date: 2024/10/31\n", "end_date"},
		{"negative capital", "backtest:\n  initial_capital: -5\n", "initial_capital"},
		{"inverted MA windows", "chart:\n  short_ma_period: 20\n  long_ma_period: 5\n", "short_ma_period"},
		{"negative timeout", "service:\n  timeout_seconds: -1\n", "timeout_seconds"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.yaml))
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
