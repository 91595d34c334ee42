package oanda

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/fxtargets/market"
	"github.com/rustyeddy/fxtargets/pricing"
)

func TestBaseURL(t *testing.T) {
	t.Parallel()

	u, err := BaseURL("practice")
	require.NoError(t, err)
	assert.Equal(t, PracticeURL, u)

	_, err = BaseURL("live")
	require.Error(t, err)

	_, err = BaseURL("moon")
	require.Error(t, err)
}

func TestDownloadCandlesToCSV_MissingInputs(t *testing.T) {
	t.Parallel()

	opts := CandlesOptions{Instrument: "EUR_USD", Granularity: "D"}

	tests := []struct {
		name   string
		client Client
		opts   CandlesOptions
		want   string
	}{
		{
			name:   "missing token",
			client: Client{BaseURL: "http://example.com"},
			opts:   opts,
			want:   "missing token",
		},
		{
			name:   "missing base url",
			client: Client{Token: "t"},
			opts:   opts,
			want:   "missing base url",
		},
		{
			name:   "missing instrument",
			client: Client{Token: "t", BaseURL: "http://example.com"},
			opts:   CandlesOptions{Granularity: "D"},
			want:   "missing instrument",
		},
		{
			name:   "missing granularity",
			client: Client{Token: "t", BaseURL: "http://example.com"},
			opts:   CandlesOptions{Instrument: "EUR_USD"},
			want:   "missing granularity",
		},
		{
			name:   "bid ask",
			client: Client{Token: "t", BaseURL: "http://example.com"},
			opts:   CandlesOptions{Instrument: "EUR_USD", Granularity: "D", Price: "BA"},
			want:   "price=BA not supported",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			_, err := tt.client.DownloadCandlesToCSV(context.Background(), tt.opts, &buf)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func candleServer(t *testing.T, wantInstrument string, candles []map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v3/instruments/"+wantInstrument+"/candles", r.URL.Path)
		require.Equal(t, "D", r.URL.Query().Get("granularity"))
		require.Equal(t, "M", r.URL.Query().Get("price"))
		require.Equal(t, "Bearer token", r.Header.Get("Authorization"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"instrument":  wantInstrument,
			"granularity": "D",
			"candles":     candles,
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func mid(h, l string) map[string]string {
	return map[string]string{"o": l, "h": h, "l": l, "c": h}
}

func TestDownloadCandlesToCSV_WritesCSV(t *testing.T) {
	t.Parallel()

	srv := candleServer(t, "EUR_USD", []map[string]any{
		{"complete": true, "time": "2024-01-01T22:00:00.000000000Z", "volume": 10, "mid": mid("1.1050", "1.1000")},
		{"complete": false, "time": "2024-01-02T22:00:00.000000000Z", "volume": 5, "mid": mid("1.1060", "1.1010")},
	})

	client := Client{BaseURL: srv.URL, Token: "token"}

	var buf bytes.Buffer
	written, err := client.DownloadCandlesToCSV(context.Background(),
		CandlesOptions{Instrument: "EUR_USD", Granularity: "D", Count: 2}, &buf)
	require.NoError(t, err)
	require.Equal(t, 2, written)

	rows, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, []string{"time", "instrument", "granularity", "complete", "volume", "o", "h", "l", "c"}, rows[0])
	require.Equal(t, []string{"2024-01-01T22:00:00.000000000Z", "EUR_USD", "D", "true", "10", "1.1000", "1.1050", "1.1000", "1.1050"}, rows[1])

	// the export is readable as a bar history
	bars, err := pricing.ReadBarsCSV(strings.NewReader(buf.String()))
	require.NoError(t, err)
	require.Len(t, bars, 2)
}

func TestDailyBars(t *testing.T) {
	t.Parallel()

	srv := candleServer(t, "USD_JPY", []map[string]any{
		{"complete": true, "time": "2024-01-01T22:00:00.000000000Z", "volume": 10, "mid": mid("141.30", "141.00")},
		{"complete": true, "time": "2024-01-02T22:00:00.000000000Z", "volume": 10, "mid": mid("141.50", "141.10")},
		{"complete": false, "time": "2024-01-03T22:00:00.000000000Z", "volume": 2, "mid": mid("141.90", "141.20")},
	})

	client := &Client{BaseURL: srv.URL, Token: "token"}
	bars, err := pricing.Fetch(context.Background(), client, market.Instrument("USDJPY"))
	require.NoError(t, err)
	require.Len(t, bars, 2)

	assert.Equal(t, "2024-01-01", bars[0].Date.Format(market.DateLayout))
	assert.Equal(t, "0.3", bars[0].Range().String())
}

func TestDailyBars_Unavailable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errorMessage":"Invalid value specified for 'instrument'"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	client := &Client{BaseURL: srv.URL, Token: "token"}
	_, err := client.DailyBars(context.Background(), "XXX", "YYY")
	require.ErrorIs(t, err, pricing.ErrDataUnavailable)
	assert.Contains(t, err.Error(), "oanda http 400")
}

func TestDailyBars_NoCompleteCandles(t *testing.T) {
	t.Parallel()

	srv := candleServer(t, "EUR_USD", []map[string]any{
		{"complete": false, "time": "2024-01-03T22:00:00.000000000Z", "volume": 2, "mid": mid("1.1", "1.0")},
	})

	client := &Client{BaseURL: srv.URL, Token: "token"}
	_, err := client.DailyBars(context.Background(), "EUR", "USD")
	require.ErrorIs(t, err, pricing.ErrDataUnavailable)
}
