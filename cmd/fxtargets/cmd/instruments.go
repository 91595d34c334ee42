package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxtargets/market"
)

var instrumentsCmd = &cobra.Command{
	Use:   "instruments",
	Short: "List the supported pairs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "PAIR\tBASE\tQUOTE\tDECIMALS\tPIP")
		for _, inst := range market.Catalog {
			m := market.Meta(inst)
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", m.Instrument, m.BaseCurrency, m.QuoteCurrency, m.DecimalPlaces, market.PipSize(inst))
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(instrumentsCmd)
}
