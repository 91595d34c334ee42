package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/fxtargets/market"
	"github.com/rustyeddy/fxtargets/oanda"
)

// Feed providers.
const (
	ProviderAlphaVantage = "alphavantage"
	ProviderOANDA        = "oanda"
	ProviderCSV          = "csv"
)

// Environment variables consulted by ApplyEnv, in order of precedence.
var apiKeyEnv = []string{"FXTARGETS_API_KEY", "ALPHAVANTAGE_API_KEY", "OANDA_TOKEN"}

// Config is the complete fxtargets configuration
type Config struct {
	Feed    FeedConfig    `json:"feed" yaml:"feed"`
	Calc    CalcConfig    `json:"calc" yaml:"calc"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
	Server  ServerConfig  `json:"server" yaml:"server"`
	Log     LogConfig     `json:"log" yaml:"log"`
}

// FeedConfig selects and configures the daily price feed
type FeedConfig struct {
	Provider string `json:"provider" yaml:"provider"`
	BaseURL  string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	// APIKey is normally supplied through the environment, see ApplyEnv.
	APIKey   string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	OandaEnv string `json:"oanda_env,omitempty" yaml:"oanda_env,omitempty"`
	CSVDir   string `json:"csv_dir,omitempty" yaml:"csv_dir,omitempty"`
	Timeout  string `json:"timeout,omitempty" yaml:"timeout,omitempty"` // e.g. "15s"
}

// TimeoutDuration converts the timeout string to time.Duration
func (f FeedConfig) TimeoutDuration() (time.Duration, error) {
	if f.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(f.Timeout)
}

// CalcConfig holds the ATR window and target parameters
type CalcConfig struct {
	Window     int     `json:"window" yaml:"window"`
	RiskReward float64 `json:"risk_reward" yaml:"risk_reward"`
	Instrument string  `json:"instrument" yaml:"instrument"`
}

// RiskRewardDecimal returns the configured ratio as a decimal.
func (c CalcConfig) RiskRewardDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.RiskReward)
}

type JournalConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	DBPath  string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

type ServerConfig struct {
	Addr    string `json:"addr" yaml:"addr"`
	Metrics bool   `json:"metrics" yaml:"metrics"`
	// RefreshCron is a six field cron spec (with seconds); empty disables
	// scheduled refreshes.
	RefreshCron string `json:"refresh_cron,omitempty" yaml:"refresh_cron,omitempty"`
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"` // "console" or "json"
}

// LoadFromFile loads configuration from a file (YAML, falling back to JSON)
// and applies environment overrides before validating.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = Default()
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration as YAML for .yaml/.yml paths and JSON otherwise.
// The API key is never written out.
func (c *Config) SaveToFile(path string) error {
	out := *c
	out.Feed.APIKey = ""

	var data []byte
	var err error
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(&out)
	} else {
		data, err = json.MarshalIndent(&out, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// ApplyEnv fills feed.api_key from the environment when it is not set.
func (c *Config) ApplyEnv() {
	if c.Feed.APIKey != "" {
		return
	}
	for _, name := range apiKeyEnv {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			c.Feed.APIKey = v
			return
		}
	}
}

// Validate checks if the configuration is valid. Missing credentials are
// not an error here; the feed reports them when first used.
func (c *Config) Validate() error {
	switch c.Feed.Provider {
	case ProviderAlphaVantage:
	case ProviderOANDA:
		if _, err := oanda.BaseURL(c.Feed.OandaEnv); err != nil {
			return fmt.Errorf("feed.oanda_env: %w", err)
		}
	case ProviderCSV:
		if c.Feed.CSVDir == "" {
			return fmt.Errorf("feed.csv_dir required for csv provider")
		}
	default:
		return fmt.Errorf("feed.provider must be one of %s, %s, %s", ProviderAlphaVantage, ProviderOANDA, ProviderCSV)
	}
	if d, err := c.Feed.TimeoutDuration(); err != nil || d < 0 {
		return fmt.Errorf("feed.timeout %q is not a valid duration", c.Feed.Timeout)
	}

	if c.Calc.Window <= 0 {
		return fmt.Errorf("calc.window must be positive")
	}
	if c.Calc.RiskReward <= 0 {
		return fmt.Errorf("calc.risk_reward must be positive")
	}
	inst, err := market.ParseInstrument(c.Calc.Instrument)
	if err != nil {
		return fmt.Errorf("calc.instrument: %w", err)
	}
	if !market.Supported(inst) {
		return fmt.Errorf("unknown instrument: %s", c.Calc.Instrument)
	}

	if c.Journal.Enabled && c.Journal.DBPath == "" {
		return fmt.Errorf("journal.db_path required when journal is enabled")
	}

	if c.Server.RefreshCron != "" {
		parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
		if _, err := parser.Parse(c.Server.RefreshCron); err != nil {
			return fmt.Errorf("server.refresh_cron: %w", err)
		}
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error")
	}
	if c.Log.Format != "" && c.Log.Format != "console" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be 'console' or 'json'")
	}
	return nil
}

// Instrument returns the configured default instrument. Call after Validate.
func (c *Config) Instrument() market.Instrument {
	inst, err := market.ParseInstrument(c.Calc.Instrument)
	if err != nil {
		return market.DefaultInstrument
	}
	return inst
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Feed: FeedConfig{
			Provider: ProviderAlphaVantage,
			OandaEnv: "practice",
			CSVDir:   "./data",
			Timeout:  "15s",
		},
		Calc: CalcConfig{
			Window:     14,
			RiskReward: 2,
			Instrument: string(market.DefaultInstrument),
		},
		Journal: JournalConfig{
			Enabled: false,
			DBPath:  "./fxtargets.db",
		},
		Server: ServerConfig{
			Addr:    ":8080",
			Metrics: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
