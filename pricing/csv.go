package pricing

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/fxtargets/market"
)

// CSVSource reads <PAIR>.csv files from Dir. Each file needs a header with
// "date" (YYYY-MM-DD or RFC3339), "high" and "low" columns; other columns
// are ignored. The "time", "h", "l" header of oanda.DownloadCandlesToCSV
// is accepted too.
type CSVSource struct {
	Dir string
}

func (s CSVSource) DailyBars(ctx context.Context, base, quote string) ([]market.PriceBar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(s.Dir, strings.ToUpper(base+quote)+".csv")
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: no file %s", ErrDataUnavailable, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	defer f.Close()

	bars, err := ReadBarsCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDataUnavailable, path, err)
	}
	return bars, nil
}

// ReadBarsCSV parses a bar history. Later rows for an already seen date are dropped.
func ReadBarsCSV(r io.Reader) ([]market.PriceBar, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	dateCol, highCol, lowCol := -1, -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "date", "time":
			dateCol = i
		case "high", "h":
			highCol = i
		case "low", "l":
			lowCol = i
		}
	}
	if dateCol < 0 || highCol < 0 || lowCol < 0 {
		return nil, fmt.Errorf("header must contain date, high and low columns: %v", header)
	}

	seen := make(map[string]bool)
	var bars []market.PriceBar
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(rec) <= dateCol || len(rec) <= highCol || len(rec) <= lowCol {
			return nil, fmt.Errorf("line %d: short record", line)
		}

		day, err := parseDate(rec[dateCol])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		key := day.Format(market.DateLayout)
		if seen[key] {
			continue
		}
		seen[key] = true

		high, err := decimal.NewFromString(strings.TrimSpace(rec[highCol]))
		if err != nil {
			return nil, fmt.Errorf("line %d: high: %w", line, err)
		}
		low, err := decimal.NewFromString(strings.TrimSpace(rec[lowCol]))
		if err != nil {
			return nil, fmt.Errorf("line %d: low: %w", line, err)
		}
		b := market.PriceBar{Date: day, High: high, Low: low}
		if err := b.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		bars = append(bars, b)
	}
	return bars, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) == len(market.DateLayout) {
		return market.ParseDay(s)
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return market.Day(t), nil
}
