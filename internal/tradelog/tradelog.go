// Package tradelog appends every completed backtest run to a daily
// JSON-lines file, so past runs can be compared after the fact. Files
// rotate per Taipei calendar day and old ones are gzip-compressed.
package tradelog

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"backtest-client/internal/types"
)

var mu sync.Mutex

// RunEntry is one logged backtest run.
type RunEntry struct {
	Time          string        `json:"time"`
	Symbol        string        `json:"symbol"`
	StrategyName  string        `json:"strategy_name"`
	StrategyType  string        `json:"strategy_type"`
	StartDate     string        `json:"start_date"`
	EndDate       string        `json:"end_date"`
	TotalReturn   float64       `json:"total_return"`
	BuyHoldReturn float64       `json:"buy_hold_return"`
	Performance   string        `json:"performance"`
	TotalTrades   int           `json:"total_trades"`
	Trades        []types.Trade `json:"trades,omitempty"`
}

var dir = "logs"

// SetDir overrides the log directory; the BACKTEST_LOG_DIR environment
// variable takes precedence over both this and the default.
func SetDir(d string) {
	if d != "" {
		dir = d
	}
}

func logDir() string {
	if v := os.Getenv("BACKTEST_LOG_DIR"); v != "" {
		return v
	}
	return dir
}

func taipeiNow() time.Time {
	return time.Now().In(time.FixedZone("CST", 8*3600))
}

func dailyFilepath(t time.Time) string {
	return filepath.Join(logDir(), "runs", t.Format("2006-01-02")+".txt")
}

// Append writes a run entry to today's file, stamping it with the current
// Taipei time.
func Append(e RunEntry) error {
	mu.Lock()
	defer mu.Unlock()
	now := taipeiNow()
	e.Time = now.Format("2006-01-02 15:04:05")
	p := dailyFilepath(now)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// CompressOlder gzips run-log files older than retentionDays. A file whose
// compressed twin already exists is just removed.
func CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	return filepath.WalkDir(logDir(), func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(p) != ".txt" {
			return nil
		}
		info, err := os.Stat(p)
		if err != nil || !info.ModTime().Before(cutoff) {
			return nil
		}
		gz := p + ".gz"
		if _, err := os.Stat(gz); err == nil {
			return os.Remove(p)
		}
		if err := compressFile(p, gz); err != nil {
			return nil
		}
		return os.Remove(p)
	})
}

func compressFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	gw := gzip.NewWriter(out)
	if _, err := io.Copy(gw, in); err != nil {
		gw.Close()
		return err
	}
	return gw.Close()
}
