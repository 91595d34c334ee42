package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/rustyeddy/fxtargets/desk"
	"github.com/rustyeddy/fxtargets/market"
	"github.com/rustyeddy/fxtargets/risk"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleInstruments(w http.ResponseWriter, r *http.Request) {
	out := make([]market.InstrumentMeta, 0, len(market.Catalog))
	for _, inst := range market.Catalog {
		out = append(out, market.Meta(inst))
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /api/v1/atr?instrument=USDJPY[&window=14]
func (s *Server) handleATR(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	inst, err := market.ParseInstrument(q.Get("instrument"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	window := s.window
	if v := q.Get("window"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 100 {
			s.writeError(w, r, &risk.ValidationError{Field: "window", Reason: "must be an integer between 1 and 100"})
			return
		}
		window = n
	}

	est, err := desk.Measure(r.Context(), s.src, inst, window)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.recordEstimate(est)
	writeJSON(w, http.StatusOK, newEstimateResponse(est))
}

// POST /api/v1/targets fetches a fresh ATR for the instrument and computes
// targets from it. The desk is not involved.
func (s *Server) handleTargets(w http.ResponseWriter, r *http.Request) {
	var req targetsRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	// Input errors are reported before any fetch.
	inst, err := market.ParseInstrument(req.Instrument)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	entry, err := risk.ParsePrice("entry_price", req.EntryPrice)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	dir, err := risk.ParseDirection(req.Direction)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rr := s.riskReward
	if req.RiskReward != "" {
		if rr, err = risk.ParsePrice("risk_reward", req.RiskReward); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	est, err := desk.Measure(r.Context(), s.src, inst, s.window)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.recordEstimate(est)

	c, err := desk.Calculate(entry, est, dir, rr)
	if s.metrics != nil {
		s.metrics.TargetsComputed(dir, err)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id := s.recordCalculation(c, req.Note)
	writeJSON(w, http.StatusOK, newTargetsResponse(c, id))
}

func (s *Server) handleDesk(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newDeskResponse(s.desk.Snapshot()))
}

// POST /api/v1/desk/select waits for the refresh it starts and returns
// the desk state. A result superseded by a later selection is a 409.
func (s *Server) handleDeskSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	inst, err := market.ParseInstrument(req.Instrument)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.awaitUpdate(w, r, s.desk.Select(detach(r.Context()), inst))
}

func (s *Server) handleDeskRefresh(w http.ResponseWriter, r *http.Request) {
	s.awaitUpdate(w, r, s.desk.Refresh(detach(r.Context())))
}

func (s *Server) awaitUpdate(w http.ResponseWriter, r *http.Request, ch <-chan desk.Update) {
	var u desk.Update
	select {
	case u = <-ch:
	case <-r.Context().Done():
		// the refresh keeps running and is applied when it completes
		return
	}
	if u.Err != nil {
		s.writeError(w, r, u.Err)
		return
	}
	s.recordEstimate(u.Estimate)
	writeJSON(w, http.StatusOK, newDeskResponse(s.desk.Snapshot()))
}

// POST /api/v1/desk/targets computes targets from the current desk estimate.
func (s *Server) handleDeskTargets(w http.ResponseWriter, r *http.Request) {
	var req deskTargetsRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	entry, err := risk.ParsePrice("entry_price", req.EntryPrice)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	dir, err := risk.ParseDirection(req.Direction)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	c, err := s.desk.Targets(entry, dir)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id := s.recordCalculation(c, req.Note)
	writeJSON(w, http.StatusOK, newTargetsResponse(c, id))
}

// detach keeps request values but not its cancellation, so a desk refresh
// outlives a client that hangs up.
func detach(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}
