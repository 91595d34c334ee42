package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/fxtargets/desk"
	"github.com/rustyeddy/fxtargets/indicators"
	"github.com/rustyeddy/fxtargets/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query the calculation journal",
	Long: `Query and display journaled target calculations as Org-mode entries.

Subcommands:
  show    - Details of a single calculation by ID
  recent  - The most recent calculations
  today   - Calculations made today
  day     - Calculations made on a specific day

Examples:
  fxtargets journal show 01HZX3ABCDEFGHJKMNPQRSTVWX
  fxtargets journal recent -n 5
  fxtargets journal day 2024-01-15`,
}

var journalShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a single calculation",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalShow,
}

var journalRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List the most recent calculations",
	Args:  cobra.NoArgs,
	RunE:  runJournalRecent,
}

var journalTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "List calculations made today",
	Args:  cobra.NoArgs,
	RunE:  runJournalToday,
}

var journalDayCmd = &cobra.Command{
	Use:   "day <YYYY-MM-DD>",
	Short: "List calculations made on a specific day",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalDay,
}

var (
	journalDBPath string
	journalLimit  int
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalShowCmd)
	journalCmd.AddCommand(journalRecentCmd)
	journalCmd.AddCommand(journalTodayCmd)
	journalCmd.AddCommand(journalDayCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "", "path to SQLite journal DB (default from config)")
	journalRecentCmd.Flags().IntVarP(&journalLimit, "limit", "n", 10, "number of calculations")
}

func openJournal() (*journal.SQLite, error) {
	path := journalDBPath
	if path == "" {
		path = cfg.Journal.DBPath
	}
	j, err := journal.NewSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}

func runJournalShow(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	rec, err := j.GetCalculation(args[0])
	if err != nil {
		return fmt.Errorf("get calculation: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatCalculationOrg(rec))
	return nil
}

func runJournalRecent(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	recs, err := j.ListRecent(journalLimit)
	if err != nil {
		return fmt.Errorf("query calculations: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatCalculationsOrg(recs))
	return nil
}

func runJournalToday(cmd *cobra.Command, args []string) error {
	return listDay(cmd, time.Now().In(time.Local).Format("2006-01-02"))
}

func runJournalDay(cmd *cobra.Command, args []string) error {
	return listDay(cmd, args[0])
}

func listDay(cmd *cobra.Command, day string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	start, end, err := dayBounds(time.Local, day)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}

	recs, err := j.ListCalculationsBetween(start, end)
	if err != nil {
		return fmt.Errorf("query calculations: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatCalculationsOrg(recs))
	return nil
}

func dayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1), nil
}

// recordEstimate and recordCalculation write to the journal when it is
// enabled. Journal failures are logged and never fail the command.
func recordEstimate(est indicators.Estimate) {
	if !cfg.Journal.Enabled {
		return
	}
	j, err := openJournal()
	if err != nil {
		log.Warn("journal unavailable", zap.Error(err))
		return
	}
	defer j.Close()
	if err := j.RecordEstimate(journal.NewEstimateRecord(est)); err != nil {
		log.Warn("journal estimate", zap.Error(err))
	}
}

func recordCalculation(c desk.Calculation, note string) string {
	if !cfg.Journal.Enabled {
		return ""
	}
	j, err := openJournal()
	if err != nil {
		log.Warn("journal unavailable", zap.Error(err))
		return ""
	}
	defer j.Close()

	rec := journal.NewCalculationRecord(c)
	rec.Note = note
	if err := j.RecordCalculation(rec); err != nil {
		log.Warn("journal calculation", zap.Error(err))
		return ""
	}
	return rec.ID
}
