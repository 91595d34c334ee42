package indicators

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/fxtargets/market"
)

// DefaultATRWindow is the number of daily bars averaged by ComputeATR.
const DefaultATRWindow = 14

// ErrInsufficientHistory is returned when the feed has fewer bars than the window.
var ErrInsufficientHistory = errors.New("insufficient price history")

// HistoryError carries how many bars were needed and how many were available.
type HistoryError struct {
	Need int
	Got  int
}

func (e *HistoryError) Error() string {
	return fmt.Sprintf("%s: need %d bars, got %d", ErrInsufficientHistory, e.Need, e.Got)
}

func (e *HistoryError) Is(target error) bool {
	return target == ErrInsufficientHistory
}

// Estimate is an average true range for one instrument.
// The zero value means "no estimate".
type Estimate struct {
	Instrument    market.Instrument
	Value         decimal.Decimal
	Window        int
	DecimalPlaces int32
	AsOf          time.Time // date of the most recent bar used
}

// Valid reports whether e holds a computed value.
func (e Estimate) Valid() bool {
	return e.Window > 0 && !e.Value.IsNegative()
}

// Rounded is the value at the instrument's quoting precision.
func (e Estimate) Rounded() decimal.Decimal {
	return e.Value.Round(e.DecimalPlaces)
}

func (e Estimate) String() string {
	if !e.Valid() {
		return ""
	}
	return e.Value.StringFixed(e.DecimalPlaces)
}

// ComputeATR averages the range of the most recent window daily bars.
//
// The true range of a bar is simplified to high - low; the gap from the
// previous close is ignored, and there is no Wilder smoothing. Bars may be
// passed in any order, the most recent window by date are used.
func ComputeATR(inst market.Instrument, bars []market.PriceBar, window int) (Estimate, error) {
	if window <= 0 {
		return Estimate{}, fmt.Errorf("window must be positive, got %d", window)
	}
	if len(bars) < window {
		return Estimate{}, &HistoryError{Need: window, Got: len(bars)}
	}

	recent := market.SortRecentFirst(bars)[:window]

	sum := decimal.Zero
	for _, b := range recent {
		if err := b.Validate(); err != nil {
			return Estimate{}, err
		}
		sum = sum.Add(b.Range())
	}

	return Estimate{
		Instrument:    inst,
		Value:         sum.Div(decimal.NewFromInt(int64(window))),
		Window:        window,
		DecimalPlaces: market.DecimalPlaces(inst),
		AsOf:          recent[0].Date,
	}, nil
}
