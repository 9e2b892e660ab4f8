package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"backtest-client/internal/chart"
	"backtest-client/internal/logger"
	"backtest-client/internal/report"
	"backtest-client/internal/runner"
	"backtest-client/internal/series"
	"backtest-client/internal/store"
	"backtest-client/internal/symbols"
	"backtest-client/internal/tradelog"
	"backtest-client/internal/types"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	symbolFlag := flag.String("symbol", "", "stock symbol to backtest (overrides config)")
	custom := flag.Bool("custom", false, "treat the symbol as user-typed and validate its format")
	startDate := flag.String("start", "", "backtest start date YYYY-MM-DD (overrides config)")
	endDate := flag.String("end", "", "backtest end date YYYY-MM-DD (overrides config)")
	strategyName := flag.String("strategy", "", "saved strategy name or id to run")
	listOnly := flag.Bool("list", false, "list stocks and saved strategies, then exit")
	jsonPoints := flag.Bool("points", false, "print assembled chart points as JSON")
	flag.Parse()

	must(initializeSystem())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer logger.Shutdown(context.Background())

	cfg, err := loadConfig(ctx, *configPath)
	must(err)
	setupRunLog(ctx, cfg)

	client, _ := buildClient(cfg)
	must(login(ctx, client))

	ref := runner.LoadReferenceData(ctx, client)
	logger.Info(ctx, "Reference data loaded",
		"stocks", len(ref.Stocks), "strategies", len(ref.Strategies))

	if *listOnly {
		printReferenceData(ref)
		return
	}

	symbol := *symbolFlag
	if symbol == "" {
		symbol = cfg.Backtest.DefaultSymbol
	}
	start := *startDate
	if start == "" {
		start = cfg.Backtest.StartDate
	}
	end := *endDate
	if end == "" {
		end = cfg.Backtest.EndDate
	}

	if *custom && cfg.Symbols.LookupEnabled {
		resolveSymbol(ctx, cfg, symbol)
	}

	strat := pickStrategy(ref.Strategies, *strategyName)
	run := runner.New(client)
	resp, err := run.Submit(ctx, runner.Submission{
		Strategy:     strat,
		Symbol:       symbol,
		CustomSymbol: *custom,
		StartDate:    start,
		EndDate:      end,
	})
	if err != nil {
		logger.ErrorWithErr(ctx, "Backtest failed", err, "state", run.State().String())
		os.Exit(1)
	}

	renderResult(ctx, cfg, strat, symbol, start, end, &resp.Results, *jsonPoints)
}

// resolveSymbol checks a user-typed symbol against the exchange directory.
// Lookup failures only warn: the service is the final authority on whether
// a symbol has data.
func resolveSymbol(ctx context.Context, cfg *store.Config, symbol string) {
	dir := symbols.NewDirectory(time.Duration(cfg.Symbols.TimeoutSeconds) * time.Second)
	listing, err := dir.Lookup(ctx, symbol)
	switch {
	case err != nil:
		logger.Warn(ctx, "Symbol directory lookup failed", "symbol", symbol, "error", err)
	case listing == nil:
		logger.Warn(ctx, "Symbol not found in exchange directory", "symbol", symbol)
	default:
		logger.Info(ctx, "Symbol resolved", "symbol", listing.Symbol, "name", listing.Name, "industry", listing.Industry)
	}
}

// pickStrategy selects by name or id; with no selector it falls back to the
// most recent strategy, matching the list's default ordering.
func pickStrategy(strategies []types.Strategy, selector string) *types.Strategy {
	if selector == "" {
		if len(strategies) == 0 {
			return nil
		}
		return &strategies[0]
	}
	for i := range strategies {
		if strategies[i].Name == selector || strategies[i].ID == selector {
			return &strategies[i]
		}
	}
	return nil
}

func printReferenceData(ref *runner.ReferenceData) {
	fmt.Printf("Stocks (%d):\n", len(ref.Stocks))
	for _, s := range ref.Stocks {
		fmt.Printf("  %-10s %s (%s)\n", s.Symbol, s.Name, s.Exchange)
	}
	fmt.Printf("\nStrategies (%d):\n", len(ref.Strategies))
	for _, s := range ref.Strategies {
		fmt.Printf("  %-24s %-16s capital %.0f\n", s.Name, s.StrategyType, s.InitialCapital)
	}
}

func renderResult(ctx context.Context, cfg *store.Config, strat *types.Strategy, symbol, start, end string, results *types.RawBacktestResult, jsonPoints bool) {
	normalized, err := series.Normalize(results)
	if err != nil {
		// Shape errors are fatal for the render: no chart is drawn from a
		// misaligned result.
		logger.ErrorWithErr(ctx, "Result failed normalization, not rendering", err,
			"symbol", symbol, "days", len(results.Dates), "trades", len(results.Trades))
		os.Exit(1)
	}

	points, perf, err := chart.Build(normalized, cfg.Chart.ShortMAPeriod, cfg.Chart.LongMAPeriod)
	if err != nil {
		logger.ErrorWithErr(ctx, "Result derivation failed, not rendering", err, "symbol", symbol)
		os.Exit(1)
	}

	fmt.Printf("\n%s  %s -> %s  (%d trading days)\n", symbol, start, end, len(points))
	fmt.Printf("strategy return:  %+.2f%%  [%s]\n", results.TotalReturn, perf.Label())
	fmt.Printf("buy-hold return:  %+.2f%%\n", results.BuyHoldReturn)
	fmt.Printf("final value:      %.2f (from %.2f)\n", results.FinalValue, results.InitialCapital)
	fmt.Printf("sharpe ratio:     %.2f   max drawdown: %.2f%%\n", results.SharpeRatio, results.MaxDrawdown)
	fmt.Printf("trades:           %d (win rate %.2f%%)\n\n", results.TotalTrades, results.WinRate)

	if jsonPoints {
		enc := json.NewEncoder(os.Stdout)
		for _, p := range points {
			_ = enc.Encode(p)
		}
		fmt.Println()
	}

	summary := report.Summarize(results.Trades)
	if err := report.WriteTable(os.Stdout, results.Trades, summary); err != nil {
		logger.Warn(ctx, "Failed to write trade table", "error", err)
	}

	entry := tradelog.RunEntry{
		Symbol:        symbol,
		StartDate:     start,
		EndDate:       end,
		TotalReturn:   results.TotalReturn,
		BuyHoldReturn: results.BuyHoldReturn,
		Performance:   perf.String(),
		TotalTrades:   results.TotalTrades,
		Trades:        results.Trades,
	}
	if strat != nil {
		entry.StrategyName = strat.Name
		entry.StrategyType = strat.StrategyType
	}
	if err := tradelog.Append(entry); err != nil {
		logger.Warn(ctx, "Failed to append run log", "error", err)
	}
}
