// Package desk ties a price feed to the ATR and target calculations and
// holds the one piece of state a trader needs: the current estimate for the
// currently selected instrument.
package desk

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/fxtargets/indicators"
	"github.com/rustyeddy/fxtargets/market"
	"github.com/rustyeddy/fxtargets/pricing"
	"github.com/rustyeddy/fxtargets/risk"
)

// Measure fetches the daily history of inst and computes its ATR.
func Measure(ctx context.Context, src pricing.BarSource, inst market.Instrument, window int) (indicators.Estimate, error) {
	bars, err := pricing.Fetch(ctx, src, inst)
	if err != nil {
		return indicators.Estimate{}, err
	}
	est, err := indicators.ComputeATR(inst, bars, window)
	if err != nil {
		return indicators.Estimate{}, fmt.Errorf("%s: %w", inst, err)
	}
	return est, nil
}

// Calculation is one set of targets together with the inputs that produced it.
type Calculation struct {
	Instrument market.Instrument
	Direction  risk.Direction
	Entry      decimal.Decimal
	RiskReward decimal.Decimal
	ATR        indicators.Estimate
	Targets    risk.PriceTargets
}

// Calculate runs risk.ComputeTargets and keeps its inputs alongside the result.
func Calculate(entry decimal.Decimal, atr indicators.Estimate, dir risk.Direction, riskReward decimal.Decimal) (Calculation, error) {
	t, err := risk.ComputeTargets(entry, atr, dir, riskReward)
	if err != nil {
		return Calculation{}, err
	}
	return Calculation{
		Instrument: atr.Instrument,
		Direction:  dir,
		Entry:      entry,
		RiskReward: riskReward,
		ATR:        atr,
		Targets:    t,
	}, nil
}
