package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInstrument(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Instrument
		wantErr bool
	}{
		{"USDJPY", "USDJPY", false},
		{"usdjpy", "USDJPY", false},
		{" EUR_USD ", "EURUSD", false},
		{"GBP/USD", "GBPUSD", false},
		{"EURUS", "", true},
		{"EURUSDX", "", true},
		{"EUR1SD", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseInstrument(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidInstrument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInstrumentParts(t *testing.T) {
	t.Parallel()

	i := Instrument("USDJPY")
	assert.Equal(t, "USD", i.Base())
	assert.Equal(t, "JPY", i.Quote())
	assert.Equal(t, "USD_JPY", i.OANDA())

	bad := Instrument("USD")
	assert.Equal(t, "", bad.Base())
	assert.Equal(t, "", bad.Quote())
}

func TestDecimalPlaces_Catalog(t *testing.T) {
	t.Parallel()

	for _, inst := range Catalog {
		want := int32(4)
		if inst.Quote() == "JPY" {
			want = 2
		}
		assert.Equal(t, want, DecimalPlaces(inst), inst)
	}
}

func TestPipSize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0.01", PipSize("USDJPY").String())
	assert.Equal(t, "0.0001", PipSize("EURUSD").String())
	assert.Equal(t, -2, PipLocation("EURJPY"))
}

func TestSupported(t *testing.T) {
	t.Parallel()

	assert.True(t, Supported("EURUSD"))
	assert.False(t, Supported("EURGBP"))
	assert.True(t, Supported(DefaultInstrument))
}

func TestMeta(t *testing.T) {
	t.Parallel()

	m := Meta("AUDUSD")
	assert.Equal(t, "AUD", m.BaseCurrency)
	assert.Equal(t, "USD", m.QuoteCurrency)
	assert.Equal(t, -4, m.PipLocation)
	assert.Equal(t, int32(4), m.DecimalPlaces)
}
