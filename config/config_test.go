package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/fxtargets/market"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, ProviderAlphaVantage, cfg.Feed.Provider)
	assert.Equal(t, 14, cfg.Calc.Window)
	assert.Equal(t, 2.0, cfg.Calc.RiskReward)
	assert.Equal(t, market.DefaultInstrument, cfg.Instrument())
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{"valid config", func(*Config) {}, ""},
		{"unknown provider", func(c *Config) { c.Feed.Provider = "bloomberg" }, "feed.provider must be one of"},
		{"csv without dir", func(c *Config) { c.Feed.Provider = ProviderCSV; c.Feed.CSVDir = "" }, "feed.csv_dir required"},
		{"oanda live", func(c *Config) { c.Feed.Provider = ProviderOANDA; c.Feed.OandaEnv = "live" }, "feed.oanda_env"},
		{"bad timeout", func(c *Config) { c.Feed.Timeout = "soon" }, "feed.timeout"},
		{"zero window", func(c *Config) { c.Calc.Window = 0 }, "calc.window must be positive"},
		{"negative ratio", func(c *Config) { c.Calc.RiskReward = -1 }, "calc.risk_reward must be positive"},
		{"malformed instrument", func(c *Config) { c.Calc.Instrument = "EUR" }, "calc.instrument"},
		{"unknown instrument", func(c *Config) { c.Calc.Instrument = "USDTRY" }, "unknown instrument"},
		{"journal without path", func(c *Config) { c.Journal.Enabled = true; c.Journal.DBPath = "" }, "journal.db_path required"},
		{"bad cron", func(c *Config) { c.Server.RefreshCron = "every day" }, "server.refresh_cron"},
		{"good cron", func(c *Config) { c.Server.RefreshCron = "0 */15 * * * *" }, ""},
		{"bad level", func(c *Config) { c.Log.Level = "chatty" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		ext  string
	}{
		{"json format", ".json"},
		{"yaml format", ".yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Calc.Instrument = "EURUSD"
			cfg.Calc.RiskReward = 3
			cfg.Feed.APIKey = "secret"
			path := filepath.Join(tmpDir, "test"+tt.ext)

			require.NoError(t, cfg.SaveToFile(path))

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.NotContains(t, string(data), "secret")

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)

			assert.Equal(t, "EURUSD", loaded.Calc.Instrument)
			assert.Equal(t, 3.0, loaded.Calc.RiskReward)
			assert.Equal(t, cfg.Feed.Provider, loaded.Feed.Provider)
			assert.Equal(t, cfg.Server.Addr, loaded.Server.Addr)
		})
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("calc:\n  instrument: GBPUSD\n"), 0o600))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "GBPUSD", cfg.Calc.Instrument)
	assert.Equal(t, 14, cfg.Calc.Window)
	assert.Equal(t, ProviderAlphaVantage, cfg.Feed.Provider)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path.yaml")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("calc: [1, 2"), 0o600))
	_, err = LoadFromFile(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("FXTARGETS_API_KEY", "")
	t.Setenv("ALPHAVANTAGE_API_KEY", "av-key")
	t.Setenv("OANDA_TOKEN", "oanda-token")

	cfg := Default()
	cfg.ApplyEnv()
	assert.Equal(t, "av-key", cfg.Feed.APIKey)

	cfg = Default()
	cfg.Feed.APIKey = "from-file"
	cfg.ApplyEnv()
	assert.Equal(t, "from-file", cfg.Feed.APIKey)
}

func TestTimeoutDuration(t *testing.T) {
	tests := []struct {
		timeout  string
		expected string
		wantErr  bool
	}{
		{"15s", "15s", false},
		{"1m", "1m0s", false},
		{"", "0s", false},
		{"invalid", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.timeout, func(t *testing.T) {
			d, err := FeedConfig{Timeout: tt.timeout}.TimeoutDuration()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, d.String())
		})
	}
}
