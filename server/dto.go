package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/rustyeddy/fxtargets/desk"
	"github.com/rustyeddy/fxtargets/indicators"
	"github.com/rustyeddy/fxtargets/market"
)

const maxBodyBytes = 1 << 16

type targetsRequest struct {
	Instrument string `json:"instrument" validate:"required,min=6,max=7"`
	Direction  string `json:"direction" validate:"required"`
	EntryPrice string `json:"entry_price" validate:"required"`
	RiskReward string `json:"risk_reward" validate:"omitempty,numeric"`
	Note       string `json:"note" validate:"max=500"`
}

type selectRequest struct {
	Instrument string `json:"instrument" validate:"required,min=6,max=7"`
}

type deskTargetsRequest struct {
	Direction  string `json:"direction" validate:"required"`
	EntryPrice string `json:"entry_price" validate:"required"`
	Note       string `json:"note" validate:"max=500"`
}

type estimateResponse struct {
	Instrument    market.Instrument `json:"instrument"`
	ATR           string            `json:"atr"`
	Window        int               `json:"window"`
	DecimalPlaces int32             `json:"decimal_places"`
	AsOf          string            `json:"as_of"`
}

func newEstimateResponse(est indicators.Estimate) *estimateResponse {
	if !est.Valid() {
		return nil
	}
	return &estimateResponse{
		Instrument:    est.Instrument,
		ATR:           est.String(),
		Window:        est.Window,
		DecimalPlaces: est.DecimalPlaces,
		AsOf:          est.AsOf.Format(market.DateLayout),
	}
}

type targetsResponse struct {
	ID            string            `json:"id,omitempty"`
	Instrument    market.Instrument `json:"instrument"`
	Direction     string            `json:"direction"`
	EntryPrice    string            `json:"entry_price"`
	ATR           string            `json:"atr"`
	RiskReward    string            `json:"risk_reward"`
	StopLoss      string            `json:"stop_loss"`
	TakeProfit    string            `json:"take_profit"`
	DecimalPlaces int32             `json:"decimal_places"`
	AsOf          string            `json:"as_of"`
}

func newTargetsResponse(c desk.Calculation, id string) targetsResponse {
	sl, tp := c.Targets.Format()
	places := c.Targets.DecimalPlaces
	return targetsResponse{
		ID:            id,
		Instrument:    c.Instrument,
		Direction:     c.Direction.String(),
		EntryPrice:    c.Entry.StringFixed(places),
		ATR:           c.ATR.String(),
		RiskReward:    c.RiskReward.String(),
		StopLoss:      sl,
		TakeProfit:    tp,
		DecimalPlaces: places,
		AsOf:          c.ATR.AsOf.Format(market.DateLayout),
	}
}

type deskResponse struct {
	Instrument market.Instrument `json:"instrument,omitempty"`
	Estimate   *estimateResponse `json:"estimate"`
	Error      string            `json:"error,omitempty"`
	Updated    *time.Time        `json:"updated,omitempty"`
}

func newDeskResponse(snap desk.Snapshot) deskResponse {
	resp := deskResponse{
		Instrument: snap.Instrument,
		Estimate:   newEstimateResponse(snap.Estimate),
	}
	if snap.Err != nil {
		resp.Error = snap.Err.Error()
	}
	if !snap.Updated.IsZero() {
		u := snap.Updated.UTC()
		resp.Updated = &u
	}
	return resp
}

// decode reads a JSON body into dst and runs struct validation.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: decode body: %v", errBadRequest, err)
	}
	if err := s.validate.Struct(dst); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			return describeValidation(verrs)
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return f.Name
	}
	return name
}
