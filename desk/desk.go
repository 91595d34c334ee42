package desk

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rustyeddy/fxtargets/indicators"
	"github.com/rustyeddy/fxtargets/market"
	"github.com/rustyeddy/fxtargets/pricing"
	"github.com/rustyeddy/fxtargets/risk"
)

var (
	// ErrStale is reported for refresh results dropped because another
	// instrument was selected while they were in flight.
	ErrStale = errors.New("stale refresh")

	ErrNoSelection = errors.New("no instrument selected")
)

// Observer is told about fetches and calculations. metrics.Metrics implements it.
type Observer interface {
	FetchDone(inst market.Instrument, took time.Duration, err error)
	EstimateApplied(est indicators.Estimate)
	EstimateCleared(inst market.Instrument)
	StaleDiscarded(inst market.Instrument)
	TargetsComputed(dir risk.Direction, err error)
}

type nopObserver struct{}

func (nopObserver) FetchDone(market.Instrument, time.Duration, error) {}
func (nopObserver) EstimateApplied(indicators.Estimate)               {}
func (nopObserver) EstimateCleared(market.Instrument)                 {}
func (nopObserver) StaleDiscarded(market.Instrument)                  {}
func (nopObserver) TargetsComputed(risk.Direction, error)             {}

// Update is the outcome of one refresh.
type Update struct {
	Instrument market.Instrument
	Seq        uint64
	Estimate   indicators.Estimate
	Err        error
	Applied    bool // the estimate (or its clearing on error) became current
}

// Desk holds the selected instrument and its current estimate.
//
// Every refresh is tagged with the selection it was issued for. A result is
// applied when it completes, provided the selection has not changed since;
// otherwise it is dropped with ErrStale. Among results for the current
// selection the last one to complete wins. A failed refresh clears the
// estimate.
type Desk struct {
	src        pricing.BarSource
	window     int
	riskReward decimal.Decimal
	log        *zap.Logger
	obs        Observer

	mu       sync.Mutex
	selected market.Instrument
	epoch    uint64 // bumped when the selection changes
	seq      uint64
	estimate indicators.Estimate
	lastErr  error
	updated  time.Time

	wg sync.WaitGroup
}

type Option func(*Desk)

func WithWindow(n int) Option {
	return func(d *Desk) { d.window = n }
}

func WithRiskReward(rr decimal.Decimal) Option {
	return func(d *Desk) { d.riskReward = rr }
}

func WithLogger(l *zap.Logger) Option {
	return func(d *Desk) {
		if l != nil {
			d.log = l
		}
	}
}

func WithObserver(o Observer) Option {
	return func(d *Desk) {
		if o != nil {
			d.obs = o
		}
	}
}

func New(src pricing.BarSource, opts ...Option) *Desk {
	d := &Desk{
		src:        src,
		window:     indicators.DefaultATRWindow,
		riskReward: risk.DefaultRiskReward,
		log:        zap.NewNop(),
		obs:        nopObserver{},
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Select makes inst current and starts a refresh for it. Changing the
// instrument clears the estimate immediately. The returned channel
// receives exactly one Update and is then closed.
func (d *Desk) Select(ctx context.Context, inst market.Instrument) <-chan Update {
	d.mu.Lock()
	if inst != d.selected {
		d.selected = inst
		d.epoch++
		d.estimate = indicators.Estimate{}
		d.lastErr = nil
		d.log.Info("instrument selected", zap.Stringer("instrument", inst))
	}
	epoch := d.epoch
	d.mu.Unlock()

	return d.refresh(ctx, inst, epoch)
}

// Refresh re-fetches the selected instrument.
func (d *Desk) Refresh(ctx context.Context) <-chan Update {
	d.mu.Lock()
	inst, epoch := d.selected, d.epoch
	d.mu.Unlock()

	if inst == "" {
		ch := make(chan Update, 1)
		ch <- Update{Err: ErrNoSelection}
		close(ch)
		return ch
	}
	return d.refresh(ctx, inst, epoch)
}

func (d *Desk) refresh(ctx context.Context, inst market.Instrument, epoch uint64) <-chan Update {
	d.mu.Lock()
	d.seq++
	seq := d.seq
	d.mu.Unlock()

	ch := make(chan Update, 1)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer close(ch)

		start := time.Now()
		est, err := Measure(ctx, d.src, inst, d.window)
		d.obs.FetchDone(inst, time.Since(start), err)
		ch <- d.apply(inst, epoch, seq, est, err)
	}()
	return ch
}

func (d *Desk) apply(inst market.Instrument, epoch, seq uint64, est indicators.Estimate, err error) Update {
	d.mu.Lock()
	defer d.mu.Unlock()

	u := Update{Instrument: inst, Seq: seq, Estimate: est, Err: err}
	if epoch != d.epoch {
		d.log.Debug("dropping stale refresh",
			zap.Stringer("instrument", inst),
			zap.Uint64("seq", seq),
			zap.Stringer("selected", d.selected),
		)
		d.obs.StaleDiscarded(inst)
		u.Estimate = indicators.Estimate{}
		u.Err = fmt.Errorf("%w: %s is no longer selected", ErrStale, inst)
		return u
	}

	u.Applied = true
	d.updated = time.Now()
	if err != nil {
		d.estimate = indicators.Estimate{}
		d.lastErr = err
		d.obs.EstimateCleared(inst)
		d.log.Warn("refresh failed, estimate cleared", zap.Stringer("instrument", inst), zap.Error(err))
		return u
	}

	d.estimate = est
	d.lastErr = nil
	d.obs.EstimateApplied(est)
	d.log.Info("estimate updated",
		zap.Stringer("instrument", inst),
		zap.String("atr", est.String()),
		zap.Time("as_of", est.AsOf),
		zap.Uint64("seq", seq),
	)
	return u
}

// Wait blocks until all refreshes in flight have been applied or dropped.
func (d *Desk) Wait() {
	d.wg.Wait()
}

func (d *Desk) Selected() market.Instrument {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.selected
}

// Estimate returns the current estimate and whether there is one.
func (d *Desk) Estimate() (indicators.Estimate, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.estimate, d.estimate.Valid()
}

// LastError is the error of the last applied refresh, nil after a success.
func (d *Desk) LastError() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastErr
}

// Snapshot is a consistent view of the desk state.
type Snapshot struct {
	Instrument market.Instrument
	Estimate   indicators.Estimate
	Err        error
	Updated    time.Time
}

func (d *Desk) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Snapshot{
		Instrument: d.selected,
		Estimate:   d.estimate,
		Err:        d.lastErr,
		Updated:    d.updated,
	}
}

// Targets computes targets from the current estimate. It leaves the
// estimate untouched whether or not it succeeds.
func (d *Desk) Targets(entry decimal.Decimal, dir risk.Direction) (Calculation, error) {
	est, _ := d.Estimate()
	c, err := Calculate(entry, est, dir, d.riskReward)
	d.obs.TargetsComputed(dir, err)
	return c, err
}
