package pricing

import (
	"context"
	"fmt"
	"sync"

	"github.com/rustyeddy/fxtargets/market"
)

// StaticSource serves bars held in memory, keyed by six letter pair code.
type StaticSource struct {
	mu   sync.RWMutex
	bars map[string][]market.PriceBar
}

func NewStaticSource() *StaticSource {
	return &StaticSource{bars: make(map[string][]market.PriceBar)}
}

// Set replaces the history for an instrument.
func (s *StaticSource) Set(inst market.Instrument, bars []market.PriceBar) {
	cp := make([]market.PriceBar, len(bars))
	copy(cp, bars)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.bars[inst.String()] = cp
}

func (s *StaticSource) DailyBars(ctx context.Context, base, quote string) ([]market.PriceBar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	bars, ok := s.bars[base+quote]
	if !ok {
		return nil, fmt.Errorf("%w: no series for %s%s", ErrDataUnavailable, base, quote)
	}
	out := make([]market.PriceBar, len(bars))
	copy(out, bars)
	return out, nil
}
