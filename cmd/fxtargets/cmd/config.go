package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxtargets/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate configuration files",
	Long: `Manage fxtargets configuration files.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  fxtargets config init -o fxtargets.yaml
  fxtargets config validate -f fxtargets.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

var (
	configInitOutput   string
	configValidatePath string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "fxtargets.yaml", "output config file path")
	configValidateCmd.Flags().StringVarP(&configValidatePath, "file", "f", "", "path to config file (required)")
	configValidateCmd.MarkFlagRequired("file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if err := config.Default().SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created default configuration: %s\n", configInitOutput)
	fmt.Fprintln(out, "\nSet ALPHAVANTAGE_API_KEY (or OANDA_TOKEN) and run with:")
	fmt.Fprintf(out, "  fxtargets --config %s atr USDJPY\n", configInitOutput)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	c, err := config.LoadFromFile(configValidatePath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Configuration valid: %s\n", configValidatePath)
	fmt.Fprintf(out, "  Feed: %s\n", c.Feed.Provider)
	fmt.Fprintf(out, "  Calc: %s, window %d, reward:risk %g:1\n", c.Calc.Instrument, c.Calc.Window, c.Calc.RiskReward)
	fmt.Fprintf(out, "  Journal: %t (%s)\n", c.Journal.Enabled, c.Journal.DBPath)
	return nil
}
