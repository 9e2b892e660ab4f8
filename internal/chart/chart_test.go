package chart

import (
	"reflect"
	"testing"

	"backtest-client/internal/series"
	"backtest-client/internal/types"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name             string
		strategy, buyHold float64
		want             Performance
	}{
		{"negative return is a loss", -2, 5, Loss},
		{"loss even against a worse baseline", -2, -5, Loss},
		{"gain below baseline underperforms", 3, 5, Underperform},
		{"gain above baseline outperforms", 10, 5, Outperform},
		{"tie counts as outperform", 5, 5, Outperform},
		{"zero return tie counts as outperform", 0, 0, Outperform},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.strategy, tt.buyHold); got != tt.want {
				t.Errorf("Classify(%v, %v) = %v, want %v", tt.strategy, tt.buyHold, got, tt.want)
			}
		})
	}
}

func TestPerformanceSemantics(t *testing.T) {
	// The color/label pair is fixed per category so the same result renders
	// identically on every surface.
	if Loss.Color() == Underperform.Color() || Underperform.Color() == Outperform.Color() {
		t.Error("categories must have distinct colors")
	}
	if Loss.Color() != "#f85149" || Underperform.Color() != "#ffa657" || Outperform.Color() != "#3fb950" {
		t.Error("category colors changed; every performance surface depends on these")
	}
}

func testResult() *types.RawBacktestResult {
	return &types.RawBacktestResult{
		InitialCapital:  1000,
		TotalReturn:     8,
		BuyHoldReturn:   5,
		Dates:           []string{"2024-03-01", "2024-03-04", "2024-03-05", "2024-03-06"},
		Prices:          []float64{100, 110, 90, 120},
		PortfolioValues: []float64{1000, 1050, 1020, 1080},
		Trades: []types.Trade{
			{Date: "2024-03-01", Action: types.ActionBuy, Price: 50, Shares: 10, Amount: 500},
		},
		OHLC: types.OHLC{
			Open:   []float64{99, 109, 91, 119},
			High:   []float64{101, 111, 92, 121},
			Low:    []float64{98, 108, 89, 118},
			Close:  []float64{100, 110, 90, 120},
			Volume: []float64{1000, 1100, 900, 1200},
		},
	}
}

func TestAssembleOnePointPerDate(t *testing.T) {
	raw := testResult()
	n, err := series.Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	points, perf, err := Build(n, 2, 3)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if perf != Outperform {
		t.Errorf("expected Outperform, got %v", perf)
	}
	if len(points) != len(raw.Dates) {
		t.Fatalf("expected %d points, got %d", len(raw.Dates), len(points))
	}
	for i, p := range points {
		if p.Date != raw.Dates[i] {
			t.Errorf("point %d: date %s out of input order", i, p.Date)
		}
		if p.StrategyValue != raw.PortfolioValues[i] {
			t.Errorf("point %d: strategy value %f, want %f", i, p.StrategyValue, raw.PortfolioValues[i])
		}
	}
	// 1000/100 shares held throughout.
	if points[3].BuyHoldValue != 1200 {
		t.Errorf("expected buy-hold value 1200 at the last point, got %f", points[3].BuyHoldValue)
	}
}

func TestAssembleSignals(t *testing.T) {
	raw := testResult()
	n, _ := series.Normalize(raw)
	points, _, err := Build(n, 2, 3)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if points[0].BuySignal == nil || *points[0].BuySignal != 50 {
		t.Errorf("expected buy signal 50 at the trade date, got %v", points[0].BuySignal)
	}
	if points[0].SellSignal != nil {
		t.Error("trade date must not carry the opposite signal")
	}
	for _, p := range points[1:] {
		if p.BuySignal != nil || p.SellSignal != nil {
			t.Errorf("point %s: expected no signals", p.Date)
		}
	}
}

func TestAssembleLeadingMA(t *testing.T) {
	raw := testResult()
	n, _ := series.Normalize(raw)
	points, _, err := Build(n, 2, 3)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	// Leading points stay in the sequence with the MA unset rather than
	// being dropped or zeroed.
	if points[0].MA5 != nil {
		t.Error("first point must have no short MA")
	}
	if points[1].MA5 == nil || *points[1].MA5 != 105 {
		t.Errorf("second point: expected short MA 105, got %v", points[1].MA5)
	}
	if points[1].MA20 != nil {
		t.Error("second point must have no long MA yet")
	}
	if points[2].MA20 == nil || *points[2].MA20 != 100 {
		t.Errorf("third point: expected long MA 100, got %v", points[2].MA20)
	}
}

func TestBuildIdempotent(t *testing.T) {
	raw := testResult()
	n, _ := series.Normalize(raw)
	a, _, err := Build(n, 2, 3)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	b, _, err := Build(n, 2, 3)
	if err != nil {
		t.Fatalf("second Build failed: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("Build on identical inputs must produce value-equal output")
	}
}

func TestBuildInvalidBaseline(t *testing.T) {
	raw := testResult()
	raw.Prices[0] = 0
	n, err := series.Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if _, _, err := Build(n, 2, 3); err == nil {
		t.Fatal("expected an error for a zero first price")
	}
}
