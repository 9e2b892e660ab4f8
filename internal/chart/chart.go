// Package chart classifies a backtest's performance and assembles the
// normalized result plus its derived series into display-ready points.
package chart

import (
	"backtest-client/internal/series"
)

// Performance is the tri-state classification of a strategy's return
// against the buy-and-hold baseline.
type Performance int

const (
	// Loss: the strategy lost money outright.
	Loss Performance = iota
	// Underperform: the strategy gained but trailed buy-and-hold.
	Underperform
	// Outperform: the strategy gained at least as much as buy-and-hold.
	Outperform
)

// Classify maps the strategy and buy-hold returns (percent) to a category.
// A tie with a non-negative return counts as Outperform: the strategy is
// not "less than" the baseline.
func Classify(strategyReturn, buyHoldReturn float64) Performance {
	switch {
	case strategyReturn < 0:
		return Loss
	case strategyReturn < buyHoldReturn:
		return Underperform
	default:
		return Outperform
	}
}

// Color is the fixed semantic color of the category. Every surface that
// encodes performance uses these, so the same result always renders the
// same color.
func (p Performance) Color() string {
	switch p {
	case Loss:
		return "#f85149"
	case Underperform:
		return "#ffa657"
	default:
		return "#3fb950"
	}
}

func (p Performance) Label() string {
	switch p {
	case Loss:
		return "loss"
	case Underperform:
		return "below buy-and-hold"
	default:
		return "beat buy-and-hold"
	}
}

func (p Performance) String() string {
	switch p {
	case Loss:
		return "Loss"
	case Underperform:
		return "Underperform"
	default:
		return "Outperform"
	}
}

// Point is one display-ready chart entry. Optional members are pointers
// and omitted from JSON when absent; a leading point without a filled MA
// window stays in the sequence with the field unset.
type Point struct {
	Date          string   `json:"date"`
	Open          float64  `json:"open"`
	High          float64  `json:"high"`
	Low           float64  `json:"low"`
	Close         float64  `json:"close"`
	Volume        float64  `json:"volume"`
	StrategyValue float64  `json:"strategyValue"`
	BuyHoldValue  float64  `json:"buyHoldValue"`
	MA5           *float64 `json:"ma5,omitempty"`
	MA20          *float64 `json:"ma20,omitempty"`
	BuySignal     *float64 `json:"buySignal,omitempty"`
	SellSignal    *float64 `json:"sellSignal,omitempty"`
}

// Assemble merges the normalized view and the derived series into exactly
// one point per input date, in input order. Pure: equal inputs produce
// value-equal output. The derived slices must be index-aligned with the
// dates; series.Normalize and the calculators in package series guarantee
// that for their outputs.
func Assemble(n *series.Normalized, ma5, ma20 []*float64, baseline []float64, signals []series.Signal) []Point {
	raw := n.Raw
	points := make([]Point, len(raw.Dates))
	for i, date := range raw.Dates {
		p := Point{
			Date:          date,
			Open:          raw.OHLC.Open[i],
			High:          raw.OHLC.High[i],
			Low:           raw.OHLC.Low[i],
			Close:         raw.OHLC.Close[i],
			Volume:        raw.OHLC.Volume[i],
			StrategyValue: raw.PortfolioValues[i],
			BuyHoldValue:  baseline[i],
		}
		// The service may omit OHLC detail for thin data; fall back to the
		// day's price so the candle still renders.
		if p.Open == 0 {
			p.Open = raw.Prices[i]
		}
		if p.High == 0 {
			p.High = raw.Prices[i]
		}
		if p.Low == 0 {
			p.Low = raw.Prices[i]
		}
		if p.Close == 0 {
			p.Close = raw.Prices[i]
		}
		if i < len(ma5) {
			p.MA5 = ma5[i]
		}
		if i < len(ma20) {
			p.MA20 = ma20[i]
		}
		if i < len(signals) {
			p.BuySignal = signals[i].Buy
			p.SellSignal = signals[i].Sell
		}
		points[i] = p
	}
	return points
}

// Build runs the whole derivation pipeline over a normalized result with
// the given MA windows and returns the points plus the classification.
func Build(n *series.Normalized, shortPeriod, longPeriod int) ([]Point, Performance, error) {
	raw := n.Raw
	baseline, err := series.BuyHoldBaseline(raw.Prices, raw.InitialCapital)
	if err != nil {
		return nil, Loss, err
	}
	// Averages run over the same effective closes the points will show.
	closes := make([]float64, len(raw.OHLC.Close))
	for i, c := range raw.OHLC.Close {
		if c == 0 {
			c = raw.Prices[i]
		}
		closes[i] = c
	}
	maShort := series.MovingAverage(closes, shortPeriod)
	maLong := series.MovingAverage(closes, longPeriod)
	signals := series.SignalOverlay(raw.Dates, n.TradesByDate)
	points := Assemble(n, maShort, maLong, baseline, signals)
	return points, Classify(raw.TotalReturn, raw.BuyHoldReturn), nil
}
