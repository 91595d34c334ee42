package pricing

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/fxtargets/market"
)

func TestReadBarsCSV(t *testing.T) {
	t.Parallel()

	in := `date,open,high,low,close
2024-01-03,110.1,110.6,110.0,110.2
2024-01-02,110.0,110.5,109.9,110.1
2024-01-03,1,2,1,1
`
	bars, err := ReadBarsCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, bars, 2)

	assert.Equal(t, "2024-01-03", bars[0].Date.Format(market.DateLayout))
	assert.Equal(t, "110.6", bars[0].High.String())
	assert.Equal(t, "110", bars[0].Low.String())
}

func TestReadBarsCSV_OandaExport(t *testing.T) {
	t.Parallel()

	in := `time,instrument,granularity,complete,volume,o,h,l,c
2024-01-01T22:00:00.000000000Z,USD_JPY,D,true,10,141.0,141.5,140.8,141.2
`
	bars, err := ReadBarsCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, "2024-01-01", bars[0].Date.Format(market.DateLayout))
	assert.Equal(t, "141.5", bars[0].High.String())
	assert.Equal(t, "140.8", bars[0].Low.String())
}

func TestReadBarsCSV_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", "read header"},
		{"no low column", "date,high\n2024-01-02,1\n", "header must contain"},
		{"bad date", "date,high,low\nyesterday,1,1\n", "line 2"},
		{"bad high", "date,high,low\n2024-01-02,x,1\n", "high"},
		{"inverted", "date,high,low\n2024-01-02,1,2\n", "invalid price bar"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ReadBarsCSV(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCSVSource(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "EURUSD.csv"),
		[]byte("date,high,low\n2024-01-02,1.1050,1.1000\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "GBPUSD.csv"),
		[]byte("date,high,low\n2024-01-02,1.2,1.3\n"), 0o644))

	src := CSVSource{Dir: dir}

	bars, err := src.DailyBars(context.Background(), "EUR", "USD")
	require.NoError(t, err)
	require.Len(t, bars, 1)

	_, err = src.DailyBars(context.Background(), "USD", "JPY")
	require.ErrorIs(t, err, ErrDataUnavailable)

	_, err = src.DailyBars(context.Background(), "GBP", "USD")
	require.ErrorIs(t, err, ErrDataUnavailable)

	// Dir is a regular file, so open fails with ENOTDIR rather than not-exist
	notDir := CSVSource{Dir: filepath.Join(dir, "EURUSD.csv")}
	_, err = notDir.DailyBars(context.Background(), "AUD", "USD")
	require.ErrorIs(t, err, ErrDataUnavailable)
	assert.NotErrorIs(t, err, os.ErrNotExist)
}
