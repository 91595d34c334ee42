package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCalculation(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	created := time.Date(2024, 4, 10, 9, 0, 0, 0, time.UTC)
	want := sampleCalculation("C123", created)
	require.NoError(t, j.RecordCalculation(want))

	got, err := j.GetCalculation("C123")
	require.NoError(t, err)

	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Instrument, got.Instrument)
	assert.Equal(t, want.Direction, got.Direction)
	assert.True(t, got.Entry.Equal(want.Entry))
	assert.True(t, got.ATR.Equal(want.ATR))
	assert.True(t, got.RiskReward.Equal(want.RiskReward))
	assert.True(t, got.StopLoss.Equal(want.StopLoss))
	assert.True(t, got.TakeProfit.Equal(want.TakeProfit))
	assert.Equal(t, want.DecimalPlaces, got.DecimalPlaces)
	assert.True(t, got.CreatedAt.Equal(created))
}

func TestGetCalculation_NotFound(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	_, err := j.GetCalculation("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListCalculationsBetween(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	day := time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, j.RecordCalculation(sampleCalculation("B", day.Add(15*time.Hour))))
	require.NoError(t, j.RecordCalculation(sampleCalculation("A", day.Add(9*time.Hour))))
	require.NoError(t, j.RecordCalculation(sampleCalculation("Y", day.Add(-time.Hour))))
	require.NoError(t, j.RecordCalculation(sampleCalculation("T", day.Add(24*time.Hour))))

	got, err := j.ListCalculationsBetween(day, day.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].ID)
	assert.Equal(t, "B", got[1].ID)
}

func TestListRecent(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	base := time.Date(2024, 4, 10, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"C1", "C2", "C3"} {
		require.NoError(t, j.RecordCalculation(sampleCalculation(id, base.Add(time.Duration(i)*time.Minute))))
	}

	got, err := j.ListRecent(2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "C3", got[0].ID)
	assert.Equal(t, "C2", got[1].ID)

	empty, _ := newTestSQLite(t)
	defer empty.Close()
	none, err := empty.ListRecent(0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLatestEstimate(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	_, err := j.LatestEstimate("USDJPY")
	assert.ErrorIs(t, err, ErrNotFound)

	at := time.Date(2024, 4, 10, 9, 0, 0, 0, time.UTC)
	for i, atr := range []string{"0.71", "0.75"} {
		require.NoError(t, j.RecordEstimate(EstimateRecord{
			ID:            "E" + atr,
			Instrument:    "USDJPY",
			ATR:           dec(atr),
			Window:        14,
			DecimalPlaces: 2,
			AsOf:          at,
			RecordedAt:    at.Add(time.Duration(i) * time.Hour),
		}))
	}

	got, err := j.LatestEstimate("USDJPY")
	require.NoError(t, err)
	assert.Equal(t, "0.75", got.ATR.StringFixed(2))
}
