package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxtargets/market"
	"github.com/rustyeddy/fxtargets/oanda"
)

var downloadCmd = &cobra.Command{
	Use:   "download <PAIR>",
	Short: "Download OANDA daily candles to CSV",
	Long: `Download daily mid candles from the OANDA practice API into a CSV file
that the csv provider can read.

Requires an OANDA API token (feed.api_key or the OANDA_TOKEN environment variable).

Example:
  fxtargets download USDJPY --count 120 --out data/USDJPY.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runDownload,
}

var (
	downloadOut   string
	downloadCount int
)

func init() {
	rootCmd.AddCommand(downloadCmd)
	downloadCmd.Flags().StringVarP(&downloadOut, "out", "o", "", "output CSV path (default <csv_dir>/<PAIR>.csv)")
	downloadCmd.Flags().IntVar(&downloadCount, "count", oanda.DailyCount, "number of daily candles")
}

func runDownload(cmd *cobra.Command, args []string) error {
	inst, err := market.ParseInstrument(args[0])
	if err != nil {
		return err
	}
	if downloadCount <= 0 || downloadCount > 5000 {
		return fmt.Errorf("--count must be between 1 and 5000")
	}

	client, err := newOANDA(cfg)
	if err != nil {
		return err
	}
	if client.Token == "" {
		return fmt.Errorf("missing token: set feed.api_key or OANDA_TOKEN")
	}

	out := downloadOut
	if out == "" {
		out = filepath.Join(cfg.Feed.CSVDir, inst.String()+".csv")
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	n, err := client.DownloadCandlesToCSV(cmd.Context(), oanda.CandlesOptions{
		Instrument:  inst.OANDA(),
		Granularity: "D",
		Price:       "M",
		Count:       downloadCount,
	}, f)
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Downloaded %d candles to %s\n", n, out)
	return nil
}
