// Package server exposes the ATR and target calculations as a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rustyeddy/fxtargets/desk"
	"github.com/rustyeddy/fxtargets/indicators"
	"github.com/rustyeddy/fxtargets/journal"
	"github.com/rustyeddy/fxtargets/metrics"
	"github.com/rustyeddy/fxtargets/pkg/logger"
	"github.com/rustyeddy/fxtargets/pricing"
	"github.com/rustyeddy/fxtargets/risk"
)

type Config struct {
	Source pricing.BarSource
	Desk   *desk.Desk

	// Optional.
	Journal    journal.Journal
	Metrics    *metrics.Metrics
	Logger     *zap.Logger
	Window     int
	RiskReward decimal.Decimal
}

type Server struct {
	src        pricing.BarSource
	desk       *desk.Desk
	journal    journal.Journal
	metrics    *metrics.Metrics
	log        *zap.Logger
	window     int
	riskReward decimal.Decimal
	validate   *validator.Validate
	started    time.Time
}

func New(cfg Config) *Server {
	s := &Server{
		src:        cfg.Source,
		desk:       cfg.Desk,
		journal:    cfg.Journal,
		metrics:    cfg.Metrics,
		log:        logger.OrNop(cfg.Logger),
		window:     cfg.Window,
		riskReward: cfg.RiskReward,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		started:    time.Now(),
	}
	s.validate.RegisterTagNameFunc(jsonFieldName)
	if s.window <= 0 {
		s.window = indicators.DefaultATRWindow
	}
	if !s.riskReward.IsPositive() {
		s.riskReward = risk.DefaultRiskReward
	}
	if s.desk == nil {
		opts := []desk.Option{desk.WithWindow(s.window), desk.WithRiskReward(s.riskReward), desk.WithLogger(s.log)}
		if s.metrics != nil {
			opts = append(opts, desk.WithObserver(s.metrics))
		}
		s.desk = desk.New(s.src, opts...)
	}
	return s
}

// Handler returns the routed API wrapped in request id, logging and
// metrics middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/health", s.handleHealth)
	mux.HandleFunc("GET /api/v1/instruments", s.handleInstruments)
	mux.HandleFunc("GET /api/v1/atr", s.handleATR)
	mux.HandleFunc("POST /api/v1/targets", s.handleTargets)

	mux.HandleFunc("GET /api/v1/desk", s.handleDesk)
	mux.HandleFunc("POST /api/v1/desk/select", s.handleDeskSelect)
	mux.HandleFunc("POST /api/v1/desk/refresh", s.handleDeskRefresh)
	mux.HandleFunc("POST /api/v1/desk/targets", s.handleDeskTargets)

	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	return s.withRequestID(s.withLogging(mux))
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.desk.Wait()
	s.log.Info("http server stopped")
	return nil
}

func (s *Server) recordEstimate(est indicators.Estimate) {
	if s.journal == nil || !est.Valid() {
		return
	}
	if err := s.journal.RecordEstimate(journal.NewEstimateRecord(est)); err != nil {
		s.log.Error("journal estimate", zap.Error(err))
	}
}

func (s *Server) recordCalculation(c desk.Calculation, note string) string {
	if s.journal == nil {
		return ""
	}
	rec := journal.NewCalculationRecord(c)
	rec.Note = note
	if err := s.journal.RecordCalculation(rec); err != nil {
		s.log.Error("journal calculation", zap.Error(err))
		return ""
	}
	return rec.ID
}
