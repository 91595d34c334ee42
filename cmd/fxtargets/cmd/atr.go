package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxtargets/desk"
	"github.com/rustyeddy/fxtargets/market"
)

var atrCmd = &cobra.Command{
	Use:   "atr <PAIR>",
	Short: "Compute the average true range of a pair",
	Long: `Fetch the daily history of a pair and print its average true range.

The true range of a day is simplified to high - low.

Example:
  fxtargets atr USDJPY
  fxtargets atr EUR_USD --window 20`,
	Args: cobra.ExactArgs(1),
	RunE: runATR,
}

var atrWindow int

func init() {
	rootCmd.AddCommand(atrCmd)
	atrCmd.Flags().IntVarP(&atrWindow, "window", "w", 0, "number of daily bars (default from config)")
}

func runATR(cmd *cobra.Command, args []string) error {
	inst, err := market.ParseInstrument(args[0])
	if err != nil {
		return err
	}
	src, err := newSource(cfg, log)
	if err != nil {
		return err
	}

	window := cfg.Calc.Window
	if atrWindow > 0 {
		window = atrWindow
	}

	est, err := desk.Measure(cmd.Context(), src, inst, window)
	if err != nil {
		return fmt.Errorf("atr: %w", err)
	}
	recordEstimate(est)

	fmt.Fprintf(cmd.OutOrStdout(), "%s ATR(%d) = %s (as of %s)\n",
		inst, est.Window, est, est.AsOf.Format(market.DateLayout))
	return nil
}
