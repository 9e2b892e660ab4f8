// Package series turns a raw backtest result into an index-aligned view
// and derives the chart series from it. Everything here is a pure function
// of its inputs; a shape failure aborts the whole derivation rather than
// producing a misaligned sequence.
package series

import (
	"errors"
	"fmt"

	"backtest-client/internal/types"
)

var (
	// ErrShapeMismatch means a parallel series disagrees in length with dates.
	ErrShapeMismatch = errors.New("parallel series lengths disagree")
	// ErrInvalidSeries means the price series cannot seed a baseline.
	ErrInvalidSeries = errors.New("invalid price series")
)

// Normalized is the date-indexed view of a raw result. The slices alias the
// raw result's arrays; nothing is copied.
type Normalized struct {
	Raw          *types.RawBacktestResult
	DateIndex    map[string]int // date -> 0-based position in Raw.Dates
	TradesByDate map[string]types.Trade
}

// Normalize validates shape consistency and builds the date index and
// per-date trade lookup. When several trades share a date, the last one in
// input order wins; the full Raw.Trades list stays available for the trade
// table and PnL report.
func Normalize(raw *types.RawBacktestResult) (*Normalized, error) {
	n := len(raw.Dates)
	for _, s := range []struct {
		name string
		len  int
	}{
		{"prices", len(raw.Prices)},
		{"portfolio_values", len(raw.PortfolioValues)},
		{"ohlc.open", len(raw.OHLC.Open)},
		{"ohlc.high", len(raw.OHLC.High)},
		{"ohlc.low", len(raw.OHLC.Low)},
		{"ohlc.close", len(raw.OHLC.Close)},
		{"ohlc.volume", len(raw.OHLC.Volume)},
	} {
		if s.len != n {
			return nil, fmt.Errorf("%w: %s has %d entries, dates has %d", ErrShapeMismatch, s.name, s.len, n)
		}
	}

	dateIndex := make(map[string]int, n)
	for i, d := range raw.Dates {
		dateIndex[d] = i
	}

	tradesByDate := make(map[string]types.Trade, len(raw.Trades))
	for _, t := range raw.Trades {
		tradesByDate[t.Date] = t
	}

	return &Normalized{
		Raw:          raw,
		DateIndex:    dateIndex,
		TradesByDate: tradesByDate,
	}, nil
}

// MovingAverage computes the n-period simple moving average of closes. The
// output is aligned 1:1 with the input; entries before the window fills are
// nil, never zero, so consumers skip-render instead of mis-aligning.
func MovingAverage(closes []float64, period int) []*float64 {
	out := make([]*float64, len(closes))
	if period <= 0 {
		return out
	}
	for i := period - 1; i < len(closes); i++ {
		sum := 0.0
		for j := i - period + 1; j <= i; j++ {
			sum += closes[j]
		}
		avg := sum / float64(period)
		out[i] = &avg
	}
	return out
}

// BuyHoldBaseline synthesizes the portfolio value of buying once with the
// whole initial capital and never trading. The first price seeds the share
// count, so a zero or missing first price is fatal.
func BuyHoldBaseline(prices []float64, initialCapital float64) ([]float64, error) {
	if len(prices) == 0 {
		return nil, fmt.Errorf("%w: empty price series", ErrInvalidSeries)
	}
	if prices[0] <= 0 {
		return nil, fmt.Errorf("%w: first price %.4f cannot seed a buy-and-hold position", ErrInvalidSeries, prices[0])
	}
	shares := initialCapital / prices[0]
	out := make([]float64, len(prices))
	for i, p := range prices {
		out[i] = shares * p
	}
	return out, nil
}

// Signal is the per-date overlay marker. At most one side is set: the trade
// lookup keeps one trade per date, so a date never carries both.
type Signal struct {
	Buy  *float64
	Sell *float64
}

// SignalOverlay maps each date to its trade marker, if any. The marker
// carries the traded price so the chart can pin it to the price axis.
func SignalOverlay(dates []string, tradesByDate map[string]types.Trade) []Signal {
	out := make([]Signal, len(dates))
	for i, d := range dates {
		t, ok := tradesByDate[d]
		if !ok {
			continue
		}
		price := t.Price
		switch t.Action {
		case types.ActionBuy:
			out[i].Buy = &price
		case types.ActionSell:
			out[i].Sell = &price
		}
	}
	return out
}
