// Package strategy models one editable strategy configuration as a tagged
// variant. A Draft keeps every variant's parameters while the user edits,
// so switching the type back and forth never loses input; the serialization
// boundary (ToBacktestRequest / ToCreateRequest) projects only the active
// variant's fields onto the wire.
package strategy

import (
	"fmt"

	"backtest-client/internal/types"
)

type Type string

const (
	TypeMovingAverage  Type = "moving_average"
	TypeRSI            Type = "rsi"
	TypeMACD           Type = "macd"
	TypeBollingerBands Type = "bollinger_bands"
	TypeGridTrading    Type = "grid_trading"
)

var allTypes = []Type{TypeMovingAverage, TypeRSI, TypeMACD, TypeBollingerBands, TypeGridTrading}

// ParseType validates a strategy type string.
func ParseType(s string) (Type, error) {
	for _, t := range allTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown strategy type '%s'", s)
}

// Draft is the editable form state. Exclusively owned by the editing
// session until saved; after a save the service's Strategy record is the
// canonical copy.
type Draft struct {
	Name           string
	Description    string
	Type           Type
	InitialCapital float64

	// moving_average
	ShortPeriod int
	LongPeriod  int

	// rsi
	RSIPeriod     int
	RSIOverbought float64
	RSIOversold   float64

	// macd
	MACDFast   int
	MACDSlow   int
	MACDSignal int

	// bollinger_bands
	BBPeriod int
	BBStdDev float64

	// grid_trading
	GridLowerPrice        float64
	GridUpperPrice        float64
	GridNumGrids          int
	GridInvestmentPerGrid float64

	// risk management, shared by all types
	StopLossPct     float64
	TakeProfitPct   float64
	PositionSizePct float64
}

// NewDraft returns a draft of the given type with every variant populated
// with its documented default, so the user can switch types without
// starting from blank fields.
func NewDraft(t Type) *Draft {
	return &Draft{
		Type:           t,
		InitialCapital: 100000,

		ShortPeriod: 5,
		LongPeriod:  20,

		RSIPeriod:     14,
		RSIOverbought: 70,
		RSIOversold:   30,

		MACDFast:   12,
		MACDSlow:   26,
		MACDSignal: 9,

		BBPeriod: 20,
		BBStdDev: 2.0,

		GridNumGrids:          10,
		GridInvestmentPerGrid: 10000,

		StopLossPct:     5.0,
		TakeProfitPct:   10.0,
		PositionSizePct: 100.0,
	}
}

// SwitchType changes the active variant. All previously entered fields are
// retained; only the serialized subset changes.
func (d *Draft) SwitchType(t Type) error {
	if _, err := ParseType(string(t)); err != nil {
		return err
	}
	d.Type = t
	return nil
}

// Validate checks the draft before submission. Failures are local and
// recoverable; the draft is never sent while invalid.
func (d *Draft) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("strategy name cannot be empty")
	}
	if d.InitialCapital <= 0 {
		return fmt.Errorf("initial capital must be positive, got %.2f", d.InitialCapital)
	}
	switch d.Type {
	case TypeMovingAverage:
		if d.ShortPeriod <= 0 || d.LongPeriod <= 0 {
			return fmt.Errorf("moving average periods must be positive, got %d/%d", d.ShortPeriod, d.LongPeriod)
		}
		if d.ShortPeriod >= d.LongPeriod {
			return fmt.Errorf("short period (%d) must be below long period (%d)", d.ShortPeriod, d.LongPeriod)
		}
	case TypeRSI:
		if d.RSIPeriod <= 0 {
			return fmt.Errorf("RSI period must be positive, got %d", d.RSIPeriod)
		}
		if d.RSIOversold >= d.RSIOverbought {
			return fmt.Errorf("RSI oversold (%.0f) must be below overbought (%.0f)", d.RSIOversold, d.RSIOverbought)
		}
	case TypeMACD:
		if d.MACDFast <= 0 || d.MACDSlow <= 0 || d.MACDSignal <= 0 {
			return fmt.Errorf("MACD periods must be positive, got %d/%d/%d", d.MACDFast, d.MACDSlow, d.MACDSignal)
		}
		if d.MACDFast >= d.MACDSlow {
			return fmt.Errorf("MACD fast period (%d) must be below slow period (%d)", d.MACDFast, d.MACDSlow)
		}
	case TypeBollingerBands:
		if d.BBPeriod <= 0 {
			return fmt.Errorf("Bollinger period must be positive, got %d", d.BBPeriod)
		}
		if d.BBStdDev <= 0 {
			return fmt.Errorf("Bollinger std dev multiple must be positive, got %.2f", d.BBStdDev)
		}
	case TypeGridTrading:
		if d.GridNumGrids <= 0 {
			return fmt.Errorf("grid count must be positive, got %d", d.GridNumGrids)
		}
		if d.GridLowerPrice >= d.GridUpperPrice {
			return fmt.Errorf("grid lower price (%.2f) must be below upper price (%.2f)", d.GridLowerPrice, d.GridUpperPrice)
		}
		if d.GridInvestmentPerGrid <= 0 {
			return fmt.Errorf("grid investment must be positive, got %.2f", d.GridInvestmentPerGrid)
		}
	default:
		return fmt.Errorf("unknown strategy type '%s'", d.Type)
	}
	return nil
}

// ToBacktestRequest projects the draft onto a run payload: common fields
// plus the active variant only. Inactive variants are left nil and never
// serialized.
func (d *Draft) ToBacktestRequest(symbol, startDate, endDate string) *types.BacktestRequest {
	req := &types.BacktestRequest{
		Symbol:         symbol,
		StartDate:      startDate,
		EndDate:        endDate,
		InitialCapital: d.InitialCapital,
		StrategyType:   string(d.Type),

		StopLossPct:     floatPtr(d.StopLossPct),
		TakeProfitPct:   floatPtr(d.TakeProfitPct),
		PositionSizePct: floatPtr(d.PositionSizePct),
	}
	switch d.Type {
	case TypeMovingAverage:
		req.ShortPeriod = intPtr(d.ShortPeriod)
		req.LongPeriod = intPtr(d.LongPeriod)
	case TypeRSI:
		req.RSIPeriod = intPtr(d.RSIPeriod)
		req.RSIOverbought = floatPtr(d.RSIOverbought)
		req.RSIOversold = floatPtr(d.RSIOversold)
	case TypeMACD:
		req.MACDFast = intPtr(d.MACDFast)
		req.MACDSlow = intPtr(d.MACDSlow)
		req.MACDSignal = intPtr(d.MACDSignal)
	case TypeBollingerBands:
		req.BBPeriod = intPtr(d.BBPeriod)
		req.BBStdDev = floatPtr(d.BBStdDev)
	case TypeGridTrading:
		req.GridLowerPrice = floatPtr(d.GridLowerPrice)
		req.GridUpperPrice = floatPtr(d.GridUpperPrice)
		req.GridNumGrids = intPtr(d.GridNumGrids)
		req.GridInvestmentPerGrid = floatPtr(d.GridInvestmentPerGrid)
	}
	return req
}

// ToCreateRequest projects the draft onto the persistence payload with the
// same active-variant rule as ToBacktestRequest.
func (d *Draft) ToCreateRequest() *types.StrategyCreate {
	req := &types.StrategyCreate{
		Name:           d.Name,
		Description:    d.Description,
		StrategyType:   string(d.Type),
		InitialCapital: d.InitialCapital,

		StopLossPct:     floatPtr(d.StopLossPct),
		TakeProfitPct:   floatPtr(d.TakeProfitPct),
		PositionSizePct: floatPtr(d.PositionSizePct),
	}
	switch d.Type {
	case TypeMovingAverage:
		req.ShortPeriod = intPtr(d.ShortPeriod)
		req.LongPeriod = intPtr(d.LongPeriod)
	case TypeRSI:
		req.RSIPeriod = intPtr(d.RSIPeriod)
		req.RSIOverbought = floatPtr(d.RSIOverbought)
		req.RSIOversold = floatPtr(d.RSIOversold)
	case TypeMACD:
		req.MACDFast = intPtr(d.MACDFast)
		req.MACDSlow = intPtr(d.MACDSlow)
		req.MACDSignal = intPtr(d.MACDSignal)
	case TypeBollingerBands:
		req.BBPeriod = intPtr(d.BBPeriod)
		req.BBStdDev = floatPtr(d.BBStdDev)
	case TypeGridTrading:
		req.GridLowerPrice = floatPtr(d.GridLowerPrice)
		req.GridUpperPrice = floatPtr(d.GridUpperPrice)
		req.GridNumGrids = intPtr(d.GridNumGrids)
		req.GridInvestmentPerGrid = floatPtr(d.GridInvestmentPerGrid)
	}
	return req
}

// FromStrategy loads a persisted record back into an editable draft.
// Absent variant fields fall back to the documented defaults so the form
// is always fully populated.
func FromStrategy(s *types.Strategy) (*Draft, error) {
	t, err := ParseType(s.StrategyType)
	if err != nil {
		return nil, err
	}
	d := NewDraft(t)
	d.Name = s.Name
	d.Description = s.Description
	if s.InitialCapital > 0 {
		d.InitialCapital = s.InitialCapital
	}

	setInt(&d.ShortPeriod, s.ShortPeriod)
	setInt(&d.LongPeriod, s.LongPeriod)
	setInt(&d.RSIPeriod, s.RSIPeriod)
	setFloat(&d.RSIOverbought, s.RSIOverbought)
	setFloat(&d.RSIOversold, s.RSIOversold)
	setInt(&d.MACDFast, s.MACDFast)
	setInt(&d.MACDSlow, s.MACDSlow)
	setInt(&d.MACDSignal, s.MACDSignal)
	setInt(&d.BBPeriod, s.BBPeriod)
	setFloat(&d.BBStdDev, s.BBStdDev)
	setFloat(&d.GridLowerPrice, s.GridLowerPrice)
	setFloat(&d.GridUpperPrice, s.GridUpperPrice)
	setInt(&d.GridNumGrids, s.GridNumGrids)
	setFloat(&d.GridInvestmentPerGrid, s.GridInvestmentPerGrid)
	setFloat(&d.StopLossPct, s.StopLossPct)
	setFloat(&d.TakeProfitPct, s.TakeProfitPct)
	setFloat(&d.PositionSizePct, s.PositionSizePct)
	return d, nil
}

// RequestFromStrategy builds a run payload directly from a saved record.
func RequestFromStrategy(s *types.Strategy, symbol, startDate, endDate string) (*types.BacktestRequest, error) {
	d, err := FromStrategy(s)
	if err != nil {
		return nil, err
	}
	return d.ToBacktestRequest(symbol, startDate, endDate), nil
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}
