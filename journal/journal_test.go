package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/fxtargets/desk"
	"github.com/rustyeddy/fxtargets/indicators"
	"github.com/rustyeddy/fxtargets/risk"
)

func TestNewCalculationRecord(t *testing.T) {
	t.Parallel()

	est := indicators.Estimate{
		Instrument:    "USDJPY",
		Value:         dec("0.7514"),
		Window:        14,
		DecimalPlaces: 2,
		AsOf:          time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC),
	}
	c, err := desk.Calculate(dec("150.00"), est, risk.Long, risk.DefaultRiskReward)
	require.NoError(t, err)

	rec := NewCalculationRecord(c)
	assert.Len(t, rec.ID, 26)
	assert.Equal(t, "USDJPY", rec.Instrument)
	assert.Equal(t, "long", rec.Direction)
	assert.Equal(t, "0.75", rec.ATR.String())
	assert.Equal(t, "149.25", rec.StopLoss.StringFixed(2))
	assert.Equal(t, "151.50", rec.TakeProfit.StringFixed(2))
	assert.False(t, rec.CreatedAt.IsZero())

	e := NewEstimateRecord(est)
	assert.True(t, e.ATR.Equal(est.Value))
	assert.NotEqual(t, rec.ID, e.ID)
}
