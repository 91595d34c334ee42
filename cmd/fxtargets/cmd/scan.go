package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/fxtargets/desk"
	"github.com/rustyeddy/fxtargets/indicators"
	"github.com/rustyeddy/fxtargets/market"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Compute the ATR of every supported pair",
	Long: `Fetch every supported pair concurrently and print a table of ATRs.
A pair that fails is listed with its error; the others are unaffected.

Example:
  fxtargets scan --parallel 2`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

var scanParallel int

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().IntVarP(&scanParallel, "parallel", "p", 4, "concurrent fetches")
}

type scanResult struct {
	est indicators.Estimate
	err error
}

func runScan(cmd *cobra.Command, args []string) error {
	src, err := newSource(cfg, log)
	if err != nil {
		return err
	}

	results := make([]scanResult, len(market.Catalog))

	g, ctx := errgroup.WithContext(cmd.Context())
	if scanParallel > 0 {
		g.SetLimit(scanParallel)
	}
	for i, inst := range market.Catalog {
		g.Go(func() error {
			est, err := desk.Measure(ctx, src, inst, cfg.Calc.Window)
			if err != nil {
				log.Debug("scan failed", zap.Stringer("instrument", inst), zap.Error(err))
			}
			results[i] = scanResult{est: est, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PAIR\tATR\tPIPS\tAS OF\tERROR")
	failed := 0
	for i, inst := range market.Catalog {
		r := results[i]
		if r.err != nil {
			failed++
			fmt.Fprintf(tw, "%s\t-\t-\t-\t%v\n", inst, r.err)
			continue
		}
		recordEstimate(r.est)
		pips := r.est.Rounded().Div(market.PipSize(inst)).StringFixed(0)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", inst, r.est, pips, r.est.AsOf.Format(market.DateLayout))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if failed == len(market.Catalog) {
		return fmt.Errorf("scan: every pair failed")
	}
	return nil
}
