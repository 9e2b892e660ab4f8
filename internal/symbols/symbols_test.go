package symbols

import (
	"context"
	"testing"
	"time"
)

func TestSplitSymbol(t *testing.T) {
	code, b, err := splitSymbol("2330.TW")
	if err != nil {
		t.Fatalf("splitSymbol failed: %v", err)
	}
	if code != "2330" || b.Suffix != ".TW" {
		t.Errorf("got %q on board %q", code, b.Suffix)
	}

	code, b, err = splitSymbol("6547.TWO")
	if err != nil {
		t.Fatalf("splitSymbol failed: %v", err)
	}
	if code != "6547" || b.Suffix != ".TWO" {
		t.Errorf("got %q on board %q", code, b.Suffix)
	}

	if _, _, err := splitSymbol("AAPL"); err == nil {
		t.Error("expected an error for a suffix-less symbol")
	}
}

func TestSplitCodeName(t *testing.T) {
	code, name, ok := splitCodeName("2330　台積電")
	if !ok || code != "2330" || name != "台積電" {
		t.Errorf("got %q/%q ok=%v", code, name, ok)
	}

	// Section-header rows have no full-width separator and are skipped.
	if _, _, ok := splitCodeName("股票"); ok {
		t.Error("header row must not parse as a listing")
	}
	if _, _, ok := splitCodeName("　"); ok {
		t.Error("blank cell must not parse as a listing")
	}
	if _, _, ok := splitCodeName("2330　"); ok {
		t.Error("a code with an empty name must not parse")
	}
}

func TestLookupMalformedSymbol(t *testing.T) {
	d := NewDirectory(time.Second)
	if _, err := d.Lookup(context.Background(), "2330"); err == nil {
		t.Error("expected an error before any fetch for a malformed symbol")
	}
}

func TestLookupCached(t *testing.T) {
	d := NewDirectory(time.Second)
	d.cache[".TW"] = map[string]Listing{
		"2330": {Code: "2330", Symbol: "2330.TW", Name: "台積電", Market: "上市", Industry: "半導體業"},
	}

	l, err := d.Lookup(context.Background(), " 2330.tw ")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if l == nil || l.Symbol != "2330.TW" {
		t.Errorf("listing = %+v", l)
	}

	// Absent codes resolve to nothing rather than an error.
	l, err = d.Lookup(context.Background(), "9999.TW")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if l != nil {
		t.Errorf("expected no listing, got %+v", l)
	}
}
