package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"backtest-client/internal/backtest"
	"backtest-client/internal/logger"
	"backtest-client/internal/session"
	"backtest-client/internal/store"
	"backtest-client/internal/trace"
	"backtest-client/internal/tradelog"

	"github.com/joho/godotenv"
)

// initializeSystem loads the environment and brings up logging and tracing.
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
	return nil
}

// loadConfig loads and validates the client configuration.
func loadConfig(ctx context.Context, path string) (*store.Config, error) {
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	return cfg, nil
}

// setupRunLog points the run log at the configured directory and applies
// retention if BACKTEST_LOG_RETENTION_DAYS is set.
func setupRunLog(ctx context.Context, cfg *store.Config) {
	tradelog.SetDir(cfg.RunLog.Dir)
	days := cfg.RunLog.RetentionDays
	if v := os.Getenv("BACKTEST_LOG_RETENTION_DAYS"); v != "" {
		fmt.Sscanf(v, "%d", &days)
	}
	if err := tradelog.CompressOlder(days); err != nil {
		logger.Warn(ctx, "Failed to compress old run logs", "error", err)
	}
}

// buildClient wires the service client onto a fresh session.
func buildClient(cfg *store.Config) (*backtest.Client, *session.Session) {
	sess := session.New()
	client := backtest.NewClient(backtest.Params{
		BaseURL:       cfg.Service.BaseURL,
		Timeout:       time.Duration(cfg.Service.TimeoutSeconds) * time.Second,
		RetryAttempts: cfg.Service.RetryAttempts,
		Logging:       true,
	}, sess)
	return client, sess
}

// login authenticates when credentials are present in the environment.
// Unauthenticated sessions can still run backtests against public
// endpoints; strategy CRUD will be rejected by the service.
func login(ctx context.Context, client *backtest.Client) error {
	username := os.Getenv("BACKTEST_USERNAME")
	password := os.Getenv("BACKTEST_PASSWORD")
	if username == "" || password == "" {
		logger.Warn(ctx, "No credentials in environment, proceeding unauthenticated")
		return nil
	}
	if _, err := client.Login(ctx, username, password); err != nil {
		return fmt.Errorf("login as %s failed: %w", username, err)
	}
	return nil
}
