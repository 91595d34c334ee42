// Package metrics exposes Prometheus collectors for feed fetches, estimates and targets.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rustyeddy/fxtargets/indicators"
	"github.com/rustyeddy/fxtargets/market"
	"github.com/rustyeddy/fxtargets/pricing"
	"github.com/rustyeddy/fxtargets/risk"
)

type Metrics struct {
	FetchesTotal   *prometheus.CounterVec // labels: instrument, outcome
	FetchDur       prometheus.Histogram
	ATR            *prometheus.GaugeVec // labels: instrument
	StaleDiscards  prometheus.Counter
	TargetsTotal   *prometheus.CounterVec // labels: direction, outcome
	HTTPRequests   *prometheus.CounterVec // labels: route, code
	HTTPRequestDur *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		FetchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fxtargets_fetches_total",
			Help: "Price history fetches by instrument and outcome",
		}, []string{"instrument", "outcome"}),
		FetchDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fxtargets_fetch_duration_seconds",
			Help:    "Time to fetch a daily price history",
			Buckets: prometheus.DefBuckets,
		}),
		ATR: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "fxtargets_atr",
			Help: "Most recently applied average true range",
		}, []string{"instrument"}),
		StaleDiscards: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fxtargets_stale_refreshes_total",
			Help: "Refresh results dropped because the selection changed",
		}),
		TargetsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fxtargets_targets_total",
			Help: "Target calculations by direction and outcome",
		}, []string{"direction", "outcome"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fxtargets_http_requests_total",
			Help: "HTTP API requests by route and status code",
		}, []string{"route", "code"}),
		HTTPRequestDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fxtargets_http_request_duration_seconds",
			Help:    "HTTP API latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		gatherer: reg,
	}
	reg.MustRegister(
		m.FetchesTotal,
		m.FetchDur,
		m.ATR,
		m.StaleDiscards,
		m.TargetsTotal,
		m.HTTPRequests,
		m.HTTPRequestDur,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Outcome classifies an error for metric labels.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, indicators.ErrInsufficientHistory):
		return "insufficient_history"
	case errors.Is(err, pricing.ErrDataUnavailable):
		return "unavailable"
	case errors.Is(err, risk.ErrValidation):
		return "invalid"
	}
	return "error"
}

func (m *Metrics) FetchDone(inst market.Instrument, took time.Duration, err error) {
	m.FetchesTotal.WithLabelValues(inst.String(), Outcome(err)).Inc()
	m.FetchDur.Observe(took.Seconds())
}

func (m *Metrics) EstimateApplied(est indicators.Estimate) {
	v, _ := est.Value.Float64()
	m.ATR.WithLabelValues(est.Instrument.String()).Set(v)
}

// EstimateCleared drops the ATR gauge of an instrument whose refresh failed.
func (m *Metrics) EstimateCleared(inst market.Instrument) {
	m.ATR.DeleteLabelValues(inst.String())
}

func (m *Metrics) StaleDiscarded(market.Instrument) {
	m.StaleDiscards.Inc()
}

func (m *Metrics) TargetsComputed(dir risk.Direction, err error) {
	m.TargetsTotal.WithLabelValues(dir.String(), Outcome(err)).Inc()
}

func (m *Metrics) RequestDone(route string, code int, took time.Duration) {
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.HTTPRequestDur.WithLabelValues(route).Observe(took.Seconds())
}
