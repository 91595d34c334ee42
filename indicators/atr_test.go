package indicators

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/fxtargets/market"
)

var day0 = time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

// dailyBars returns n bars ending at day0, most recent first, with the
// given high and low offsets from base.
func dailyBars(n int, base, rng string) []market.PriceBar {
	b := decimal.RequireFromString(base)
	r := decimal.RequireFromString(rng)
	bars := make([]market.PriceBar, n)
	for i := range bars {
		bars[i] = market.PriceBar{
			Date: day0.AddDate(0, 0, -i),
			High: b.Add(r),
			Low:  b,
		}
	}
	return bars
}

func TestComputeATR_USDJPYExample(t *testing.T) {
	t.Parallel()

	bars := dailyBars(14, "110.00", "0.30")
	est, err := ComputeATR("USDJPY", bars, DefaultATRWindow)
	require.NoError(t, err)

	assert.True(t, est.Value.Equal(decimal.RequireFromString("0.3")))
	assert.Equal(t, int32(2), est.DecimalPlaces)
	assert.Equal(t, 14, est.Window)
	assert.Equal(t, "0.30", est.String())
	assert.Equal(t, day0, est.AsOf)
	assert.True(t, est.Valid())
}

func TestComputeATR_MeanOfRanges(t *testing.T) {
	t.Parallel()

	bars := make([]market.PriceBar, 14)
	for i := range bars {
		rng := decimal.New(int64(i+1), -1) // 0.1 .. 1.4
		bars[i] = market.PriceBar{
			Date: day0.AddDate(0, 0, -i),
			High: decimal.NewFromInt(100).Add(rng),
			Low:  decimal.NewFromInt(100),
		}
	}

	est, err := ComputeATR("EURJPY", bars, 14)
	require.NoError(t, err)
	assert.Equal(t, "0.75", est.Value.String())
}

func TestComputeATR_UsesMostRecentBars(t *testing.T) {
	t.Parallel()

	recent := dailyBars(14, "1.1000", "0.0050")
	older := make([]market.PriceBar, 10)
	for i := range older {
		older[i] = market.PriceBar{
			Date: day0.AddDate(0, 0, -20-i),
			High: decimal.RequireFromString("1.2000"),
			Low:  decimal.RequireFromString("1.0000"),
		}
	}

	// interleave and shuffle so order carries no information
	all := append(append([]market.PriceBar{}, older...), recent...)
	rand.New(rand.NewSource(7)).Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })

	est, err := ComputeATR("EURUSD", all, 14)
	require.NoError(t, err)
	assert.Equal(t, "0.0050", est.String())
	assert.Equal(t, day0, est.AsOf)
}

func TestComputeATR_InsufficientHistory(t *testing.T) {
	t.Parallel()

	_, err := ComputeATR("USDJPY", dailyBars(13, "110", "0.3"), 14)
	require.ErrorIs(t, err, ErrInsufficientHistory)

	var he *HistoryError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, 14, he.Need)
	assert.Equal(t, 13, he.Got)

	_, err = ComputeATR("USDJPY", nil, 14)
	require.ErrorIs(t, err, ErrInsufficientHistory)

	_, err = ComputeATR("USDJPY", dailyBars(14, "110", "0.3"), 14)
	require.NoError(t, err)
}

func TestComputeATR_BadWindow(t *testing.T) {
	t.Parallel()

	_, err := ComputeATR("USDJPY", dailyBars(14, "110", "0.3"), 0)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInsufficientHistory)
}

func TestComputeATR_InvalidBar(t *testing.T) {
	t.Parallel()

	bars := dailyBars(14, "110", "0.3")
	bars[3].High, bars[3].Low = bars[3].Low, bars[3].High

	_, err := ComputeATR("USDJPY", bars, 14)
	require.ErrorIs(t, err, market.ErrInvalidBar)
}

func TestComputeATR_ZeroOnlyWhenFlat(t *testing.T) {
	t.Parallel()

	est, err := ComputeATR("USDCHF", dailyBars(14, "0.9", "0"), 14)
	require.NoError(t, err)
	assert.True(t, est.Value.IsZero())
	assert.True(t, est.Valid())

	bars := dailyBars(14, "0.9", "0")
	bars[13].High = decimal.RequireFromString("0.9001")
	est, err = ComputeATR("USDCHF", bars, 14)
	require.NoError(t, err)
	assert.True(t, est.Value.IsPositive())
}

func TestComputeATR_NonNegative(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewSource(42))
	for trial := 0; trial < 200; trial++ {
		n := 14 + r.Intn(20)
		bars := make([]market.PriceBar, n)
		for i := range bars {
			low := decimal.NewFromFloat(0.5 + r.Float64()*150).Round(4)
			bars[i] = market.PriceBar{
				Date: day0.AddDate(0, 0, -i),
				High: low.Add(decimal.NewFromFloat(r.Float64()).Round(4)),
				Low:  low,
			}
		}
		est, err := ComputeATR("GBPUSD", bars, 14)
		require.NoError(t, err)
		assert.False(t, est.Value.IsNegative())
	}
}

func TestEstimate_ZeroValue(t *testing.T) {
	t.Parallel()

	var est Estimate
	assert.False(t, est.Valid())
	assert.Equal(t, "", est.String())
}

func TestEstimate_Rounded(t *testing.T) {
	t.Parallel()

	est := Estimate{Value: decimal.RequireFromString("0.004975"), Window: 14, DecimalPlaces: 4}
	assert.Equal(t, "0.005", est.Rounded().String())
	assert.Equal(t, "0.0050", est.String())
}
