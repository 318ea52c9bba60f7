package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/wonny/bondlab/internal/bond"
	"github.com/wonny/bondlab/internal/curve"
	"github.com/wonny/bondlab/internal/hedge"
	"github.com/wonny/bondlab/internal/portfolio"
	"github.com/wonny/bondlab/internal/scenarioconfig"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

var errBadRequest = errors.New("bad request")

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// statusFor maps analytics errors to HTTP status codes:
// invalid input → 400, analytic failure → 422.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, curve.ErrInvalidCurveInput),
		errors.Is(err, bond.ErrInvalidBond),
		errors.Is(err, portfolio.ErrInvalidPortfolio),
		errors.Is(err, hedge.ErrInvalidLiability),
		errors.Is(err, hedge.ErrInvalidConstraints):
		return http.StatusBadRequest
	case errors.Is(err, bond.ErrNoSolutionFound),
		errors.Is(err, bond.ErrDegenerateBond),
		errors.Is(err, portfolio.ErrDegeneratePortfolio),
		errors.Is(err, hedge.ErrInfeasibleHedge):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes a size-limited body, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", errBadRequest, err)
	}
	return nil
}

func validateShock(bp float64) error {
	if math.IsNaN(bp) || math.Abs(bp) > scenarioconfig.MaxShockBP {
		return fmt.Errorf("%w: shock_bp must be within ±%d", errBadRequest, scenarioconfig.MaxShockBP)
	}
	return nil
}

// CurveSpec optionally overrides the server's base curve for one request.
type CurveSpec struct {
	Yields   map[string]float64 `json:"yields,omitempty"`
	FlatRate *float64           `json:"flat_rate,omitempty"`
}

func (s *CurveSpec) build() (curve.Curve, error) {
	switch {
	case s == nil:
		return nil, nil
	case s.FlatRate != nil && len(s.Yields) > 0:
		return nil, fmt.Errorf("%w: set either yields or flat_rate", errBadRequest)
	case s.FlatRate != nil:
		if math.IsNaN(*s.FlatRate) || math.IsInf(*s.FlatRate, 0) {
			return nil, fmt.Errorf("%w: flat_rate must be finite", curve.ErrInvalidCurveInput)
		}
		return curve.NewFlat(*s.FlatRate), nil
	case len(s.Yields) > 0:
		return curve.NewYieldCurve(s.Yields)
	default:
		return nil, nil
	}
}
