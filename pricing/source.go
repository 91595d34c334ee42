// Package pricing defines where daily price bars come from.
package pricing

import (
	"context"
	"errors"

	"github.com/rustyeddy/fxtargets/market"
)

// ErrDataUnavailable means the feed returned no usable series for a pair,
// e.g. because the provider throttled the request or does not know the pair.
var ErrDataUnavailable = errors.New("price data unavailable")

// BarSource yields the daily high/low history of a currency pair.
// The returned bars are in no particular order and carry at most one bar per date.
type BarSource interface {
	DailyBars(ctx context.Context, base, quote string) ([]market.PriceBar, error)
}

// BarSourceFunc adapts a function to a BarSource.
type BarSourceFunc func(ctx context.Context, base, quote string) ([]market.PriceBar, error)

func (f BarSourceFunc) DailyBars(ctx context.Context, base, quote string) ([]market.PriceBar, error) {
	return f(ctx, base, quote)
}

// Fetch calls src for the instrument's base and quote currencies.
func Fetch(ctx context.Context, src BarSource, inst market.Instrument) ([]market.PriceBar, error) {
	return src.DailyBars(ctx, inst.Base(), inst.Quote())
}
