package series

import (
	"errors"
	"math"
	"testing"

	"backtest-client/internal/types"
)

func rawResult(n int) *types.RawBacktestResult {
	raw := &types.RawBacktestResult{
		InitialCapital: 100000,
	}
	for i := 0; i < n; i++ {
		raw.Dates = append(raw.Dates, dateFor(i))
		raw.Prices = append(raw.Prices, 100+float64(i))
		raw.PortfolioValues = append(raw.PortfolioValues, 100000+float64(i)*10)
		raw.OHLC.Open = append(raw.OHLC.Open, 99+float64(i))
		raw.OHLC.High = append(raw.OHLC.High, 101+float64(i))
		raw.OHLC.Low = append(raw.OHLC.Low, 98+float64(i))
		raw.OHLC.Close = append(raw.OHLC.Close, 100+float64(i))
		raw.OHLC.Volume = append(raw.OHLC.Volume, 1000)
	}
	return raw
}

func dateFor(i int) string {
	return "2024-03-" + string(rune('0'+(i+1)/10)) + string(rune('0'+(i+1)%10))
}

func TestNormalizeBuildsDateIndex(t *testing.T) {
	raw := rawResult(5)
	n, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if len(n.DateIndex) != 5 {
		t.Fatalf("expected 5 index entries, got %d", len(n.DateIndex))
	}
	for i, d := range raw.Dates {
		if n.DateIndex[d] != i {
			t.Errorf("date %s indexed at %d, want %d", d, n.DateIndex[d], i)
		}
	}
}

func TestNormalizeShapeMismatch(t *testing.T) {
	raw := rawResult(5)
	raw.OHLC.Volume = raw.OHLC.Volume[:4]
	_, err := Normalize(raw)
	if err == nil {
		t.Fatal("expected shape error for short volume series")
	}
	if !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch, got %v", err)
	}

	raw = rawResult(5)
	raw.Prices = append(raw.Prices, 1)
	if _, err := Normalize(raw); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch for long prices, got %v", err)
	}
}

func TestNormalizeLastTradeWins(t *testing.T) {
	raw := rawResult(5)
	raw.Trades = []types.Trade{
		{Date: raw.Dates[1], Action: types.ActionBuy, Price: 50},
		{Date: raw.Dates[1], Action: types.ActionSell, Price: 60},
	}
	n, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	trade, ok := n.TradesByDate[raw.Dates[1]]
	if !ok {
		t.Fatal("expected a trade at the shared date")
	}
	if trade.Action != types.ActionSell || trade.Price != 60 {
		t.Errorf("expected the last trade to win, got %+v", trade)
	}
}

func TestMovingAverageWindow(t *testing.T) {
	closes := []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}
	ma := MovingAverage(closes, 5)

	if len(ma) != len(closes) {
		t.Fatalf("expected aligned output, got %d entries for %d closes", len(ma), len(closes))
	}
	for i := 0; i < 4; i++ {
		if ma[i] != nil {
			t.Errorf("index %d: expected nil before the window fills, got %v", i, *ma[i])
		}
	}
	if ma[4] == nil || *ma[4] != 30 {
		t.Errorf("index 4: expected mean of closes[0..4] = 30, got %v", ma[4])
	}
	if ma[9] == nil || *ma[9] != 80 {
		t.Errorf("index 9: expected mean of closes[5..9] = 80, got %v", ma[9])
	}
}

func TestMovingAverageDegenerate(t *testing.T) {
	for _, period := range []int{0, -1} {
		for _, v := range MovingAverage([]float64{1, 2, 3}, period) {
			if v != nil {
				t.Fatalf("period %d: expected all-nil output", period)
			}
		}
	}
	ma := MovingAverage([]float64{1, 2}, 5)
	for _, v := range ma {
		if v != nil {
			t.Fatal("window longer than series: expected all-nil output")
		}
	}
}

func TestBuyHoldBaseline(t *testing.T) {
	baseline, err := BuyHoldBaseline([]float64{100, 110, 90}, 1000)
	if err != nil {
		t.Fatalf("BuyHoldBaseline failed: %v", err)
	}
	want := []float64{1000, 1100, 900}
	for i := range want {
		if math.Abs(baseline[i]-want[i]) > 1e-9 {
			t.Errorf("baseline[%d] = %f, want %f", i, baseline[i], want[i])
		}
	}
}

func TestBuyHoldBaselineInvalid(t *testing.T) {
	if _, err := BuyHoldBaseline([]float64{0, 110}, 1000); !errors.Is(err, ErrInvalidSeries) {
		t.Errorf("zero first price: expected ErrInvalidSeries, got %v", err)
	}
	if _, err := BuyHoldBaseline(nil, 1000); !errors.Is(err, ErrInvalidSeries) {
		t.Errorf("empty series: expected ErrInvalidSeries, got %v", err)
	}
}

func TestSignalOverlay(t *testing.T) {
	dates := []string{"2024-03-01", "2024-03-02", "2024-03-03"}
	trades := map[string]types.Trade{
		"2024-03-01": {Date: "2024-03-01", Action: types.ActionBuy, Price: 50},
		"2024-03-03": {Date: "2024-03-03", Action: types.ActionSell, Price: 55},
	}
	signals := SignalOverlay(dates, trades)

	if signals[0].Buy == nil || *signals[0].Buy != 50 {
		t.Errorf("expected buy signal at 50, got %v", signals[0].Buy)
	}
	if signals[0].Sell != nil {
		t.Error("buy date must not carry a sell signal")
	}
	if signals[1].Buy != nil || signals[1].Sell != nil {
		t.Error("tradeless date must carry no signals")
	}
	if signals[2].Sell == nil || *signals[2].Sell != 55 {
		t.Errorf("expected sell signal at 55, got %v", signals[2].Sell)
	}
}
