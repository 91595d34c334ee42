package risk

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrValidation is matched by every *ValidationError.
var ErrValidation = errors.New("validation error")

// ValidationError reports a missing or malformed input to a calculation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Bounds on user supplied numbers. Exponents are checked before magnitude
// since comparing against a huge exponent rescales the coefficient.
const (
	maxPriceExp   = 12
	minPriceExp   = -18
	maxPriceInput = 64
)

var maxPrice = decimal.New(1, maxPriceExp)

// ParsePrice parses a user supplied price. Anything that is not a plain
// finite decimal number, or lies outside +/-1e12 with at most 18 decimal
// places, fails with a ValidationError naming field.
func ParsePrice(field, s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, invalid(field, "missing")
	}
	if len(s) > maxPriceInput {
		return decimal.Zero, invalid(field, "too long")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, invalid(field, "%q is not a number", s)
	}
	if d.Exponent() > maxPriceExp || d.Exponent() < minPriceExp || d.Abs().GreaterThan(maxPrice) {
		return decimal.Zero, invalid(field, "%q is out of range", s)
	}
	return d, nil
}
