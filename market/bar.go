package market

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidBar is returned for bars that break the high >= low > 0 invariant.
var ErrInvalidBar = errors.New("invalid price bar")

const DateLayout = "2006-01-02"

// PriceBar is one daily high/low observation for a pair.
type PriceBar struct {
	Date time.Time
	High decimal.Decimal
	Low  decimal.Decimal
}

// Day normalizes t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD date.
func ParseDay(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

func (b PriceBar) Validate() error {
	switch {
	case b.Date.IsZero():
		return fmt.Errorf("%w: missing date", ErrInvalidBar)
	case !b.Low.IsPositive():
		return fmt.Errorf("%w: %s low %s must be positive", ErrInvalidBar, b.Date.Format(DateLayout), b.Low)
	case b.High.LessThan(b.Low):
		return fmt.Errorf("%w: %s high %s below low %s", ErrInvalidBar, b.Date.Format(DateLayout), b.High, b.Low)
	}
	return nil
}

// Range is the single bar range, high - low.
func (b PriceBar) Range() decimal.Decimal {
	return b.High.Sub(b.Low)
}

// SortRecentFirst returns a copy of bars ordered by date, most recent first.
func SortRecentFirst(bars []PriceBar) []PriceBar {
	out := make([]PriceBar, len(bars))
	copy(out, bars)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}
