package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/fxtargets/desk"
	"github.com/rustyeddy/fxtargets/journal"
	"github.com/rustyeddy/fxtargets/metrics"
	"github.com/rustyeddy/fxtargets/scheduler"
	"github.com/rustyeddy/fxtargets/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the calculations over HTTP",
	Long: `Start the JSON HTTP API.

The server keeps one desk: a selected pair and its current ATR. When
server.refresh_cron is set the desk is refreshed on that schedule.

Example:
  fxtargets serve --addr :8080 --select USDJPY`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveAddr   string
	serveSelect bool
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	serveCmd.Flags().BoolVar(&serveSelect, "select", true, "select the configured instrument on start")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer log.Sync() //nolint:errcheck

	src, err := newSource(cfg, log)
	if err != nil {
		return err
	}

	var m *metrics.Metrics
	if cfg.Server.Metrics {
		m = metrics.New()
	}

	var j *journal.SQLite
	if cfg.Journal.Enabled {
		if j, err = openJournal(); err != nil {
			return err
		}
		defer j.Close()
	}

	opts := []desk.Option{
		desk.WithWindow(cfg.Calc.Window),
		desk.WithRiskReward(cfg.Calc.RiskRewardDecimal()),
		desk.WithLogger(log.Named("desk")),
	}
	if m != nil {
		opts = append(opts, desk.WithObserver(m))
	}
	d := desk.New(src, opts...)

	scfg := server.Config{
		Source:     src,
		Desk:       d,
		Logger:     log.Named("http"),
		Window:     cfg.Calc.Window,
		RiskReward: cfg.Calc.RiskRewardDecimal(),
	}
	if m != nil {
		scfg.Metrics = m
	}
	if j != nil {
		scfg.Journal = j
	}
	srv := server.New(scfg)

	if serveSelect {
		d.Select(context.WithoutCancel(ctx), cfg.Instrument())
	}

	if cfg.Server.RefreshCron != "" {
		sopts := []scheduler.Option{scheduler.WithLogger(log.Named("scheduler"))}
		if j != nil {
			sopts = append(sopts, scheduler.OnUpdate(func(u desk.Update) {
				if u.Err != nil {
					return
				}
				if err := j.RecordEstimate(journal.NewEstimateRecord(u.Estimate)); err != nil {
					log.Warn("journal estimate", zap.Error(err))
				}
			}))
		}
		sched := scheduler.New(ctx, d, sopts...)
		if _, err := sched.Register(cfg.Server.RefreshCron); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	return srv.ListenAndServe(ctx, addr)
}
