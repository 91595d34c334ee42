package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/rustyeddy/fxtargets/desk"
	"github.com/rustyeddy/fxtargets/indicators"
	"github.com/rustyeddy/fxtargets/market"
	"github.com/rustyeddy/fxtargets/pricing"
	"github.com/rustyeddy/fxtargets/risk"
)

type errorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind"`
	RequestID string `json:"request_id,omitempty"`
}

// classify maps an error to its HTTP status and a stable kind string.
func classify(err error) (int, string) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs),
		errors.Is(err, risk.ErrValidation),
		errors.Is(err, market.ErrInvalidInstrument),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "validation"
	case errors.Is(err, indicators.ErrInsufficientHistory):
		return http.StatusUnprocessableEntity, "insufficient_history"
	case errors.Is(err, pricing.ErrDataUnavailable), errors.Is(err, market.ErrInvalidBar):
		return http.StatusBadGateway, "data_unavailable"
	case errors.Is(err, desk.ErrStale):
		return http.StatusConflict, "stale"
	case errors.Is(err, desk.ErrNoSelection):
		return http.StatusConflict, "no_selection"
	}
	return http.StatusInternalServerError, "internal"
}

var errBadRequest = errors.New("bad request")

func describeValidation(verrs validator.ValidationErrors) error {
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", errBadRequest, strings.Join(parts, "; "))
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := classify(err)
	if status >= 500 {
		s.log.Error("request failed", zap.String("request_id", requestID(r.Context())), zap.Error(err))
	}
	writeJSON(w, status, errorResponse{
		Error:     err.Error(),
		Kind:      kind,
		RequestID: requestID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
