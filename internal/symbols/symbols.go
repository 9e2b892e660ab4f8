// Package symbols resolves custom stock codes against the exchange's
// public ISIN directory, so a typo like 2B30.TW fails before a simulation
// is wasted on it. The listed (.TW) and over-the-counter (.TWO) boards are
// scraped separately.
package symbols

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"backtest-client/internal/logger"
)

// Listing is one resolved directory entry.
type Listing struct {
	Code     string // 2330
	Symbol   string // 2330.TW
	Name     string
	Market   string
	Industry string
}

// board describes one section of the ISIN directory.
type board struct {
	Name   string
	URL    string
	Suffix string
}

var boards = []board{
	{
		Name:   "TWSE listed",
		URL:    "https://isin.twse.com.tw/isin/C_public.jsp?strMode=2",
		Suffix: ".TW",
	},
	{
		Name:   "TPEx over-the-counter",
		URL:    "https://isin.twse.com.tw/isin/C_public.jsp?strMode=4",
		Suffix: ".TWO",
	},
}

// Directory scrapes and caches the ISIN listing tables.
type Directory struct {
	timeout time.Duration
	cache   map[string]map[string]Listing // suffix -> code -> listing
}

func NewDirectory(timeout time.Duration) *Directory {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Directory{
		timeout: timeout,
		cache:   make(map[string]map[string]Listing),
	}
}

// Lookup resolves a full symbol such as 2330.TW. A symbol whose code is
// absent from its board's directory resolves to (nil, nil); errors are
// reserved for malformed input and fetch failures.
func (d *Directory) Lookup(ctx context.Context, symbol string) (*Listing, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	code, b, err := splitSymbol(symbol)
	if err != nil {
		return nil, err
	}

	listings, ok := d.cache[b.Suffix]
	if !ok {
		listings, err = d.fetchBoard(ctx, b)
		if err != nil {
			return nil, err
		}
		d.cache[b.Suffix] = listings
	}

	if l, ok := listings[code]; ok {
		return &l, nil
	}
	return nil, nil
}

func splitSymbol(symbol string) (string, *board, error) {
	for i := range boards {
		if code, ok := strings.CutSuffix(symbol, boards[i].Suffix); ok {
			return code, &boards[i], nil
		}
	}
	return "", nil, fmt.Errorf("symbol '%s' has no .TW or .TWO suffix", symbol)
}

// fetchBoard scrapes one directory page. Rows put the code and the name in
// the first cell separated by a full-width space; market and industry
// follow in later cells.
func (d *Directory) fetchBoard(ctx context.Context, b *board) (map[string]Listing, error) {
	listings := make(map[string]Listing)

	c := colly.NewCollector(
		colly.DetectCharset(),
	)
	c.SetRequestTimeout(d.timeout)

	var scrapeErr error
	c.OnError(func(_ *colly.Response, err error) {
		scrapeErr = err
	})

	c.OnHTML("table.h4", func(e *colly.HTMLElement) {
		e.DOM.Find("tr").Each(func(_ int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() < 6 {
				return
			}
			code, name, ok := splitCodeName(cells.Eq(0).Text())
			if !ok {
				return
			}
			listings[code] = Listing{
				Code:     code,
				Symbol:   code + b.Suffix,
				Name:     name,
				Market:   strings.TrimSpace(cells.Eq(3).Text()),
				Industry: strings.TrimSpace(cells.Eq(4).Text()),
			}
		})
	})

	logger.Debug(ctx, "Fetching symbol directory", "board", b.Name, "url", b.URL)
	if err := c.Visit(b.URL); err != nil {
		return nil, fmt.Errorf("fetch %s directory: %w", b.Name, err)
	}
	c.Wait()
	if scrapeErr != nil {
		return nil, fmt.Errorf("fetch %s directory: %w", b.Name, scrapeErr)
	}
	if len(listings) == 0 {
		return nil, fmt.Errorf("%s directory returned no rows", b.Name)
	}

	logger.Info(ctx, "Symbol directory loaded", "board", b.Name, "count", len(listings))
	return listings, nil
}

// splitCodeName splits "2330　台積電" into its code and name. Rows whose
// first cell has no full-width space are section headers, not listings.
func splitCodeName(cell string) (code, name string, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(cell), "　", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	code = strings.TrimSpace(parts[0])
	name = strings.TrimSpace(parts[1])
	if code == "" || name == "" {
		return "", "", false
	}
	return code, name, true
}
