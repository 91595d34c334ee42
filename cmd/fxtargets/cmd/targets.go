package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxtargets/desk"
	"github.com/rustyeddy/fxtargets/market"
	"github.com/rustyeddy/fxtargets/risk"
)

var targetsCmd = &cobra.Command{
	Use:   "targets <PAIR> <long|short> <ENTRY>",
	Short: "Compute stop-loss and take-profit levels",
	Long: `Fetch the ATR of a pair and place the stop one ATR from the entry and
the target --rr ATRs away on the other side.

With --equity the position size that risks --risk-pct of equity at the
stop is printed too. For pairs not quoted in the account currency pass
--quote-rate, the price of one unit of the quote currency in account
currency (for USDJPY with a USD account, 1/USDJPY).

Examples:
  fxtargets targets USDJPY long 150.25
  fxtargets targets EURUSD short 1.0850 --rr 3
  fxtargets targets USDJPY long 150.25 --equity 10000 --risk-pct 0.005 --quote-rate 0.00666`,
	Args: cobra.ExactArgs(3),
	RunE: runTargets,
}

var (
	targetsRR        string
	targetsEquity    string
	targetsRiskPct   string
	targetsQuoteRate string
	targetsNote      string
)

func init() {
	rootCmd.AddCommand(targetsCmd)

	targetsCmd.Flags().StringVar(&targetsRR, "rr", "", "reward:risk ratio (default from config)")
	targetsCmd.Flags().StringVar(&targetsEquity, "equity", "", "account equity for position sizing")
	targetsCmd.Flags().StringVar(&targetsRiskPct, "risk-pct", risk.DefaultPolicy().DefaultRiskPct.String(), "fraction of equity to risk")
	targetsCmd.Flags().StringVar(&targetsQuoteRate, "quote-rate", "1", "quote currency to account currency rate")
	targetsCmd.Flags().StringVar(&targetsNote, "note", "", "note stored with the journal entry")
}

func runTargets(cmd *cobra.Command, args []string) error {
	// Parse everything before touching the feed.
	inst, err := market.ParseInstrument(args[0])
	if err != nil {
		return err
	}
	dir, err := risk.ParseDirection(args[1])
	if err != nil {
		return err
	}
	entry, err := risk.ParsePrice("entry_price", args[2])
	if err != nil {
		return err
	}
	rr := cfg.Calc.RiskRewardDecimal()
	if targetsRR != "" {
		if rr, err = risk.ParsePrice("rr", targetsRR); err != nil {
			return err
		}
	}

	src, err := newSource(cfg, log)
	if err != nil {
		return err
	}
	est, err := desk.Measure(cmd.Context(), src, inst, cfg.Calc.Window)
	if err != nil {
		return fmt.Errorf("atr: %w", err)
	}
	recordEstimate(est)

	c, err := desk.Calculate(entry, est, dir, rr)
	if err != nil {
		return err
	}
	id := recordCalculation(c, targetsNote)

	out := cmd.OutOrStdout()
	printCalculation(out, c)
	if id != "" {
		fmt.Fprintf(out, "Journal:     %s\n", id)
	}

	if targetsEquity == "" {
		return nil
	}
	return printPositionSize(out, c)
}

func printCalculation(w io.Writer, c desk.Calculation) {
	sl, tp := c.Targets.Format()
	places := c.Targets.DecimalPlaces
	fmt.Fprintf(w, "Instrument:  %s\n", c.Instrument)
	fmt.Fprintf(w, "Direction:   %s\n", c.Direction)
	fmt.Fprintf(w, "Entry:       %s\n", c.Entry.StringFixed(places))
	fmt.Fprintf(w, "ATR(%d):     %s (as of %s)\n", c.ATR.Window, c.ATR, c.ATR.AsOf.Format(market.DateLayout))
	fmt.Fprintf(w, "Stop-loss:   %s\n", sl)
	fmt.Fprintf(w, "Take-profit: %s\n", tp)
	fmt.Fprintf(w, "Reward:risk: %s:1\n", risk.RR(c.Entry, c.Targets.StopLoss, c.Targets.TakeProfit).StringFixed(2))
}

func printPositionSize(w io.Writer, c desk.Calculation) error {
	equity, err := risk.ParsePrice("equity", targetsEquity)
	if err != nil {
		return err
	}
	pct, err := risk.ParsePrice("risk_pct", targetsRiskPct)
	if err != nil {
		return err
	}
	rate, err := risk.ParsePrice("quote_rate", targetsQuoteRate)
	if err != nil {
		return err
	}

	res, err := risk.PositionSize(risk.Inputs{
		Instrument:     c.Instrument,
		Equity:         equity,
		RiskPct:        pct,
		EntryPrice:     c.Entry,
		StopPrice:      c.Targets.StopLoss,
		QuoteToAccount: rate,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Stop pips:   %s\n", res.StopPips.StringFixed(1))
	fmt.Fprintf(w, "Risk:        %s\n", res.RiskAmount.StringFixed(2))
	fmt.Fprintf(w, "Units:       %s\n", res.Units.StringFixed(0))
	if res.Units.IsZero() {
		fmt.Fprintln(w, "warning: position size rounds to zero units")
	}
	for _, v := range risk.Evaluate(risk.DefaultPolicy(), c.Entry, c.Targets, pct).Violations {
		fmt.Fprintf(w, "warning: %s: %s\n", v.Code, v.Msg)
	}
	return nil
}
