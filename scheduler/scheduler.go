// Package scheduler refreshes the desk estimate on a cron schedule.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/rustyeddy/fxtargets/desk"
)

// Refresher is the part of *desk.Desk the scheduler drives.
type Refresher interface {
	Refresh(ctx context.Context) <-chan desk.Update
}

// Scheduler manages the cron refresh job.
type Scheduler struct {
	Cron *cron.Cron

	ctx      context.Context
	desk     Refresher
	log      *zap.Logger
	onUpdate func(desk.Update)
}

type Option func(*Scheduler)

func WithLogger(l *zap.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.log = l
		}
	}
}

// OnUpdate registers fn to receive every applied refresh result.
func OnUpdate(fn func(desk.Update)) Option {
	return func(s *Scheduler) { s.onUpdate = fn }
}

// New creates a scheduler using a six field (with seconds) cron parser.
// Jobs stop issuing refreshes once ctx is done.
func New(ctx context.Context, d Refresher, opts ...Option) *Scheduler {
	s := &Scheduler{
		Cron: cron.New(cron.WithSeconds()),
		ctx:  ctx,
		desk: d,
		log:  zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Register adds a refresh job for spec, e.g. "0 */15 * * * *".
func (s *Scheduler) Register(spec string) (cron.EntryID, error) {
	id, err := s.Cron.AddFunc(spec, s.RunNow)
	if err != nil {
		return 0, fmt.Errorf("register refresh %q: %w", spec, err)
	}
	s.log.Info("refresh scheduled", zap.String("spec", spec))
	return id, nil
}

func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info("scheduler started")
}

// Stop halts the cron and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// RunNow performs one refresh synchronously.
func (s *Scheduler) RunNow() {
	if s.ctx.Err() != nil {
		return
	}

	u := <-s.desk.Refresh(s.ctx)
	switch {
	case u.Err == nil:
		s.log.Debug("scheduled refresh done", zap.Stringer("instrument", u.Instrument), zap.Uint64("seq", u.Seq))
	case u.Applied:
		s.log.Warn("scheduled refresh failed", zap.Stringer("instrument", u.Instrument), zap.Error(u.Err))
	default:
		s.log.Debug("scheduled refresh not applied", zap.Error(u.Err))
	}
	if u.Applied && s.onUpdate != nil {
		s.onUpdate(u)
	}
}
