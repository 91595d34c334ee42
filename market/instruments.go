package market

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidInstrument is returned when an instrument code is not six letters.
var ErrInvalidInstrument = errors.New("invalid instrument")

// Instrument is a six letter currency pair code such as "USDJPY":
// the first three letters are the base currency, the last three the quote.
type Instrument string

// Catalog lists the supported instruments, in display order.
var Catalog = []Instrument{
	"USDJPY", "EURJPY", "EURUSD", "GBPUSD", "AUDUSD", "NZDUSD", "USDCHF",
}

// DefaultInstrument is selected when nothing else is configured.
const DefaultInstrument Instrument = "USDJPY"

type InstrumentMeta struct {
	Instrument    Instrument `json:"instrument"`
	BaseCurrency  string     `json:"base"`
	QuoteCurrency string     `json:"quote"`
	PipLocation   int        `json:"pip_location"`
	DecimalPlaces int32      `json:"decimal_places"`
}

// ParseInstrument accepts "USDJPY", "usd_jpy" or "USD/JPY" and returns
// the canonical six letter code.
func ParseInstrument(s string) (Instrument, error) {
	code := strings.ToUpper(strings.TrimSpace(s))
	code = strings.NewReplacer("_", "", "/", "").Replace(code)
	if len(code) != 6 {
		return "", fmt.Errorf("%w: %q", ErrInvalidInstrument, s)
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return "", fmt.Errorf("%w: %q", ErrInvalidInstrument, s)
		}
	}
	return Instrument(code), nil
}

// Base returns the base currency, or "" for a malformed code.
func (i Instrument) Base() string {
	if len(i) != 6 {
		return ""
	}
	return string(i[:3])
}

// Quote returns the quote currency, or "" for a malformed code.
func (i Instrument) Quote() string {
	if len(i) != 6 {
		return ""
	}
	return string(i[3:])
}

// OANDA returns the broker style name, e.g. "USD_JPY".
func (i Instrument) OANDA() string {
	return i.Base() + "_" + i.Quote()
}

func (i Instrument) IsJPYQuoted() bool {
	return strings.HasSuffix(string(i), "JPY")
}

func (i Instrument) String() string {
	return string(i)
}

// Supported reports whether i is in the Catalog.
func Supported(i Instrument) bool {
	for _, c := range Catalog {
		if c == i {
			return true
		}
	}
	return false
}

// DecimalPlaces is the quoting precision of an instrument: 2 for JPY
// quoted pairs (1 pip = 0.01), 4 for everything else (1 pip = 0.0001).
func DecimalPlaces(i Instrument) int32 {
	if i.IsJPYQuoted() {
		return 2
	}
	return 4
}

// PipLocation is the power of ten of one pip, e.g. -4 for EURUSD.
func PipLocation(i Instrument) int {
	return -int(DecimalPlaces(i))
}

// PipSize returns the size of one pip in price units.
func PipSize(i Instrument) decimal.Decimal {
	return decimal.New(1, int32(PipLocation(i)))
}

func Meta(i Instrument) InstrumentMeta {
	return InstrumentMeta{
		Instrument:    i,
		BaseCurrency:  i.Base(),
		QuoteCurrency: i.Quote(),
		PipLocation:   PipLocation(i),
		DecimalPlaces: DecimalPlaces(i),
	}
}
