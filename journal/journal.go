// Package journal keeps a SQLite log of volatility estimates and the
// targets computed from them.
package journal

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/fxtargets/desk"
	"github.com/rustyeddy/fxtargets/indicators"
	"github.com/rustyeddy/fxtargets/pkg/id"
)

type EstimateRecord struct {
	ID            string
	Instrument    string
	ATR           decimal.Decimal
	Window        int
	DecimalPlaces int32
	AsOf          time.Time
	RecordedAt    time.Time
}

type CalculationRecord struct {
	ID            string
	Instrument    string
	Direction     string
	Entry         decimal.Decimal
	ATR           decimal.Decimal
	RiskReward    decimal.Decimal
	StopLoss      decimal.Decimal
	TakeProfit    decimal.Decimal
	DecimalPlaces int32
	CreatedAt     time.Time
	Note          string
}

type Journal interface {
	RecordEstimate(EstimateRecord) error
	RecordCalculation(CalculationRecord) error
	Close() error
}

// NewEstimateRecord stamps est with a fresh id and the current time.
func NewEstimateRecord(est indicators.Estimate) EstimateRecord {
	return EstimateRecord{
		ID:            id.New(),
		Instrument:    est.Instrument.String(),
		ATR:           est.Value,
		Window:        est.Window,
		DecimalPlaces: est.DecimalPlaces,
		AsOf:          est.AsOf.UTC(),
		RecordedAt:    time.Now().UTC(),
	}
}

// NewCalculationRecord stamps c with a fresh id and the current time.
// The ATR is stored at the precision it was used at.
func NewCalculationRecord(c desk.Calculation) CalculationRecord {
	return CalculationRecord{
		ID:            id.New(),
		Instrument:    c.Instrument.String(),
		Direction:     c.Direction.String(),
		Entry:         c.Entry,
		ATR:           c.ATR.Rounded(),
		RiskReward:    c.RiskReward,
		StopLoss:      c.Targets.StopLoss,
		TakeProfit:    c.Targets.TakeProfit,
		DecimalPlaces: c.Targets.DecimalPlaces,
		CreatedAt:     time.Now().UTC(),
	}
}
