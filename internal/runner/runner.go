// Package runner gates backtest submission behind a small state machine:
// inputs are validated locally before anything reaches the network, one run
// is in flight at a time, and a completion from an abandoned run is
// discarded instead of overwriting newer state.
package runner

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"backtest-client/internal/backtest"
	"backtest-client/internal/logger"
	"backtest-client/internal/strategy"
	"backtest-client/internal/types"
)

type State int

const (
	Idle State = iota
	Validating
	Running
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrRunInFlight is returned when a submission arrives while another run is
// still out; there is no cancellation, so the caller waits or abandons.
var ErrRunInFlight = errors.New("a backtest run is already in flight")

// ErrStaleResponse marks a completion that was superseded by Abandon before
// it arrived.
var ErrStaleResponse = errors.New("stale backtest response discarded")

// ValidationError is a recoverable input problem. It never reaches the
// network layer and leaves the runner retryable.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Custom symbols must be a TWSE (.TW) or TPEx (.TWO) code.
var symbolPattern = regexp.MustCompile(`(?i)^[A-Z0-9]+\.(TW|TWO)$`)

// ValidSymbol reports whether a custom symbol matches the accepted format.
func ValidSymbol(symbol string) bool {
	return symbolPattern.MatchString(symbol)
}

type Runner struct {
	client *backtest.Client

	mu         sync.Mutex
	state      State
	generation uint64
}

func New(client *backtest.Client) *Runner {
	return &Runner{client: client}
}

func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Submission is one backtest request attempt. CustomSymbol marks symbols
// typed by the user, which are format-checked; curated list entries are
// trusted as-is.
type Submission struct {
	Strategy     *types.Strategy
	Symbol       string
	CustomSymbol bool
	StartDate    string
	EndDate      string
}

// Submit drives one pass through the lifecycle. Validation failures and
// transport errors leave the runner in Failed, from which re-submitting is
// allowed; a success leaves it in Succeeded until the next submission
// restarts the cycle.
func (r *Runner) Submit(ctx context.Context, sub Submission) (*types.BacktestResponse, error) {
	req, gen, err := r.begin(ctx, sub)
	if err != nil {
		return nil, err
	}

	resp, runErr := r.client.Run(ctx, req)
	return r.finish(ctx, gen, resp, runErr)
}

// begin validates the submission and moves Idle/Failed -> Validating ->
// Running under the lock, stamping the run with a fresh generation.
func (r *Runner) begin(ctx context.Context, sub Submission) (*types.BacktestRequest, uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == Running {
		return nil, 0, ErrRunInFlight
	}
	// A new submission after success restarts the cycle.
	if r.state == Succeeded {
		r.state = Idle
	}
	r.state = Validating

	fail := func(reason string) (*types.BacktestRequest, uint64, error) {
		r.state = Failed
		return nil, 0, &ValidationError{Reason: reason}
	}

	if sub.Strategy == nil {
		return fail("no strategy selected")
	}
	symbol := strings.ToUpper(strings.TrimSpace(sub.Symbol))
	if symbol == "" {
		return fail("no stock symbol given")
	}
	if sub.CustomSymbol && !ValidSymbol(symbol) {
		return fail(fmt.Sprintf("symbol '%s' must look like 2330.TW or 6547.TWO", symbol))
	}

	req, err := strategy.RequestFromStrategy(sub.Strategy, symbol, sub.StartDate, sub.EndDate)
	if err != nil {
		return fail(err.Error())
	}

	r.generation++
	r.state = Running
	logger.Info(ctx, "Backtest submitted",
		"symbol", symbol,
		"strategy", sub.Strategy.Name,
		"strategy_type", sub.Strategy.StrategyType,
		"generation", r.generation)
	return req, r.generation, nil
}

// finish resolves a completed run. A completion whose generation is no
// longer current was abandoned while in flight and is dropped.
func (r *Runner) finish(ctx context.Context, gen uint64, resp *types.BacktestResponse, runErr error) (*types.BacktestResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if gen != r.generation {
		logger.Warn(ctx, "Discarding stale backtest response", "generation", gen, "current", r.generation)
		return nil, ErrStaleResponse
	}
	if runErr != nil {
		r.state = Failed
		return nil, runErr
	}
	if !resp.Success {
		r.state = Failed
		return nil, fmt.Errorf("backtest rejected by service: %s", resp.Message)
	}
	r.state = Succeeded
	return resp, nil
}

// Abandon gives up on an in-flight run. The transport request cannot be
// aborted, but its eventual completion will fail the generation check and
// be discarded. The runner returns to Idle and accepts new submissions.
func (r *Runner) Abandon(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != Running {
		return
	}
	r.generation++
	r.state = Idle
	logger.Info(ctx, "Abandoned in-flight backtest", "generation", r.generation)
}

// ReferenceData is the read-only data loaded at startup.
type ReferenceData struct {
	Stocks     []types.Stock
	Strategies []types.Strategy
}

// LoadReferenceData fetches the symbol list and saved strategies
// concurrently. Either fetch failing is logged and leaves that field
// empty; the other proceeds.
func LoadReferenceData(ctx context.Context, client *backtest.Client) *ReferenceData {
	ref := &ReferenceData{}
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		stocks, err := client.Stocks(ctx)
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to load stock list", err)
			return
		}
		ref.Stocks = stocks
	}()
	go func() {
		defer wg.Done()
		strategies, err := client.Strategies(ctx, "", "")
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to load strategies", err)
			return
		}
		ref.Strategies = strategies
	}()

	wg.Wait()
	return ref
}
