package report

import (
	"bytes"
	"strings"
	"testing"

	"backtest-client/internal/types"

	"github.com/shopspring/decimal"
)

func sampleTrades() []types.Trade {
	return []types.Trade{
		{Date: "2024-03-01", Action: types.ActionBuy, Price: 100.10, Shares: 100, Amount: 10010},
		{Date: "2024-03-05", Action: types.ActionBuy, Price: 99.90, Shares: 100, Amount: 9990},
		{Date: "2024-04-02", Action: types.ActionSell, Price: 105.25, Shares: 200, Amount: 21050},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleTrades())

	if s.BuyCount != 2 || s.SellCount != 1 {
		t.Errorf("counts = %d buys, %d sells", s.BuyCount, s.SellCount)
	}
	if !s.BuyValue.Equal(decimal.RequireFromString("20000")) {
		t.Errorf("BuyValue = %s", s.BuyValue)
	}
	if !s.SellValue.Equal(decimal.RequireFromString("21050")) {
		t.Errorf("SellValue = %s", s.SellValue)
	}
	if !s.Realized.Equal(decimal.RequireFromString("1050")) {
		t.Errorf("Realized = %s", s.Realized)
	}
	if !s.AvgBuyPrice.Equal(decimal.RequireFromString("100")) {
		t.Errorf("AvgBuyPrice = %s", s.AvgBuyPrice)
	}
	if !s.AvgSellPrice.Equal(decimal.RequireFromString("105.25")) {
		t.Errorf("AvgSellPrice = %s", s.AvgSellPrice)
	}
}

func TestSummarizeExactAccumulation(t *testing.T) {
	// 0.1 repeated does not accumulate drift in decimal.
	trades := make([]types.Trade, 10)
	for i := range trades {
		trades[i] = types.Trade{Action: types.ActionBuy, Price: 0.1, Shares: 1, Amount: 0.1}
	}
	s := Summarize(trades)
	if !s.BuyValue.Equal(decimal.RequireFromString("1")) {
		t.Errorf("BuyValue = %s, want exactly 1", s.BuyValue)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.BuyCount != 0 || s.SellCount != 0 {
		t.Errorf("counts = %d/%d", s.BuyCount, s.SellCount)
	}
	if !s.AvgBuyPrice.IsZero() || !s.AvgSellPrice.IsZero() {
		t.Error("averages of no trades must be zero, not a division error")
	}
	if !s.Realized.IsZero() {
		t.Errorf("Realized = %s", s.Realized)
	}
}

func TestWriteTable(t *testing.T) {
	trades := sampleTrades()
	var buf bytes.Buffer
	if err := WriteTable(&buf, trades, Summarize(trades)); err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"DATE", "2024-03-01", "BUY", "SELL", "21050", "realized", "1050"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}
