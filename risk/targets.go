package risk

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/fxtargets/indicators"
)

// DefaultRiskReward is the reward:risk ratio, 2:1.
var DefaultRiskReward = decimal.NewFromInt(2)

type Direction int

const (
	Long Direction = iota + 1
	Short
)

func (d Direction) String() string {
	switch d {
	case Long:
		return "long"
	case Short:
		return "short"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// ParseDirection accepts long/buy and short/sell, case insensitive.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "long", "buy":
		return Long, nil
	case "short", "sell":
		return Short, nil
	}
	return 0, invalid("direction", "%q is not long or short", s)
}

// PriceTargets are the stop-loss and take-profit levels for one trade,
// rounded to DecimalPlaces.
type PriceTargets struct {
	StopLoss      decimal.Decimal
	TakeProfit    decimal.Decimal
	DecimalPlaces int32
}

// Format returns stop-loss and take-profit at fixed precision.
func (t PriceTargets) Format() (sl, tp string) {
	return t.StopLoss.StringFixed(t.DecimalPlaces), t.TakeProfit.StringFixed(t.DecimalPlaces)
}

// StopDistance is the absolute distance from entry to the stop.
func (t PriceTargets) StopDistance(entry decimal.Decimal) decimal.Decimal {
	return entry.Sub(t.StopLoss).Abs()
}

// RewardDistance is the absolute distance from entry to the target.
func (t PriceTargets) RewardDistance(entry decimal.Decimal) decimal.Decimal {
	return t.TakeProfit.Sub(entry).Abs()
}

// ComputeTargets places the stop one ATR away from entry and the target
// riskReward ATRs away on the other side:
//
//	Long:  SL = entry - atr, TP = entry + atr*rr
//	Short: SL = entry + atr, TP = entry - atr*rr
//
// The ATR is taken at its display precision so that the levels agree with
// the ATR shown to the user, and both levels are rounded to that precision.
func ComputeTargets(entry decimal.Decimal, atr indicators.Estimate, dir Direction, riskReward decimal.Decimal) (PriceTargets, error) {
	if !atr.Valid() {
		return PriceTargets{}, invalid("atr", "no volatility estimate available")
	}
	if !riskReward.IsPositive() {
		return PriceTargets{}, invalid("risk_reward", "%s must be positive", riskReward)
	}

	a := atr.Rounded()
	reward := a.Mul(riskReward)

	var sl, tp decimal.Decimal
	switch dir {
	case Long:
		sl = entry.Sub(a)
		tp = entry.Add(reward)
	case Short:
		sl = entry.Add(a)
		tp = entry.Sub(reward)
	default:
		return PriceTargets{}, invalid("direction", "%s is not long or short", dir)
	}

	places := atr.DecimalPlaces
	return PriceTargets{
		StopLoss:      sl.Round(places),
		TakeProfit:    tp.Round(places),
		DecimalPlaces: places,
	}, nil
}

// ComputeTargetsFromText parses entry and direction as typed by a user and
// computes targets at the default 2:1 ratio.
func ComputeTargetsFromText(entry string, atr indicators.Estimate, direction string) (PriceTargets, error) {
	price, err := ParsePrice("entry_price", entry)
	if err != nil {
		return PriceTargets{}, err
	}
	dir, err := ParseDirection(direction)
	if err != nil {
		return PriceTargets{}, err
	}
	return ComputeTargets(price, atr, dir, DefaultRiskReward)
}
