package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/fxtargets/config"
	"github.com/rustyeddy/fxtargets/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "fxtargets",
	Short: "ATR based stop-loss and take-profit levels for FX pairs",
	Long: `fxtargets measures the recent volatility of a currency pair as a 14 day
average true range and places a stop one ATR from the entry and a target
two ATRs away on the other side.

It provides tools for:
  - Computing the ATR of a pair from a daily price feed
  - Computing stop-loss and take-profit levels and position size
  - Scanning every supported pair
  - Serving the calculations over a JSON HTTP API
  - Journaling calculations to SQLite

Price data comes from Alpha Vantage, OANDA (practice) or local CSV files.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

var (
	cfgFile     string
	providerArg string
	logLevelArg string

	cfg *config.Config
	log = zap.NewNop()
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&providerArg, "provider", "", "price feed: alphavantage, oanda or csv")
	rootCmd.PersistentFlags().StringVar(&logLevelArg, "log-level", "", "log level: debug, info, warn, error")
}

// loadConfig reads --config (or the defaults), applies flag and
// environment overrides and builds the logger.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFromFile(cfgFile)
		if err != nil {
			return err
		}
	} else {
		cfg = config.Default()
		cfg.ApplyEnv()
	}

	if providerArg != "" {
		cfg.Feed.Provider = providerArg
	}
	if logLevelArg != "" {
		cfg.Log.Level = logLevelArg
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log, err = logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	return nil
}
