// Package report aggregates the sparse trade log of a backtest into money
// totals. All arithmetic is decimal so the trade-table footer adds up to
// the cent regardless of how many fills it sums.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"backtest-client/internal/types"

	"github.com/shopspring/decimal"
)

// Summary is the aggregate of one backtest's trade list.
type Summary struct {
	BuyCount  int
	SellCount int

	BuyValue  decimal.Decimal // total spent on buys
	SellValue decimal.Decimal // total received from sells
	Realized  decimal.Decimal // SellValue - BuyValue over closed volume

	AvgBuyPrice  decimal.Decimal
	AvgSellPrice decimal.Decimal
}

// Summarize walks the trade list in order and accumulates per-side totals.
// Amounts and share counts come from the service's own fill records; the
// per-share averages are value divided by shares.
func Summarize(trades []types.Trade) Summary {
	var s Summary
	var buyShares, sellShares decimal.Decimal

	for _, t := range trades {
		amount := decimal.NewFromFloat(t.Amount)
		shares := decimal.NewFromFloat(t.Shares)

		switch t.Action {
		case types.ActionBuy:
			s.BuyCount++
			s.BuyValue = s.BuyValue.Add(amount)
			buyShares = buyShares.Add(shares)
		case types.ActionSell:
			s.SellCount++
			s.SellValue = s.SellValue.Add(amount)
			sellShares = sellShares.Add(shares)
		}
	}

	if !buyShares.IsZero() {
		s.AvgBuyPrice = s.BuyValue.Div(buyShares).Round(2)
	}
	if !sellShares.IsZero() {
		s.AvgSellPrice = s.SellValue.Div(sellShares).Round(2)
	}
	s.Realized = s.SellValue.Sub(s.BuyValue).Round(2)
	return s
}

// WriteTable prints the trade list and its summary as an aligned table.
func WriteTable(w io.Writer, trades []types.Trade, s Summary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tACTION\tPRICE\tSHARES\tAMOUNT\tSIGNAL")
	for _, t := range trades {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%.0f\t%.2f\t%s\n",
			t.Date, t.Action, t.Price, t.Shares, t.Amount, t.Signal)
	}
	fmt.Fprintf(tw, "\t\t\t\t\t\n")
	fmt.Fprintf(tw, "buys\t%d\t\t\t%s\t\n", s.BuyCount, s.BuyValue.Round(2))
	fmt.Fprintf(tw, "sells\t%d\t\t\t%s\t\n", s.SellCount, s.SellValue.Round(2))
	fmt.Fprintf(tw, "realized\t\t\t\t%s\t\n", s.Realized)
	return tw.Flush()
}
