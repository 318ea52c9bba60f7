package handlers

import (
	"fmt"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/wonny/bondlab/internal/curve"
)

// CurvePoint is the curve evaluated at one maturity.
type CurvePoint struct {
	Maturity       float64 `json:"maturity"`
	Rate           float64 `json:"rate"`
	DiscountFactor float64 `json:"discount_factor"`
	InstForward    float64 `json:"instantaneous_forward"`
	Extrapolated   bool    `json:"extrapolated"`
}

// ForwardPoint is a forward rate between consecutive maturities.
type ForwardPoint struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Rate  float64 `json:"rate"`
}

// CurveResponse describes the base curve.
type CurveResponse struct {
	Source   string         `json:"source"`
	AsOf     string         `json:"as_of"`
	Nodes    []curve.Point  `json:"nodes"`
	Points   []CurvePoint   `json:"points"`
	Forwards []ForwardPoint `json:"forwards"`
}

// GetCurve returns the base curve nodes and evaluated points
// GET /api/curve?maturities=0.5,1,2,5
func (h *AnalyticsHandler) GetCurve(w http.ResponseWriter, r *http.Request) {
	maturities, err := parseMaturities(r.URL.Query().Get("maturities"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap := h.store.Current()
	yc := snap.Curve
	fwd := curve.InstantaneousForwards(yc, maturities)

	resp := CurveResponse{
		Source: snap.Source,
		AsOf:   snap.AsOf.Format("2006-01-02"),
		Nodes:  yc.Points(),
		Points: make([]CurvePoint, len(maturities)),
	}
	for i, t := range maturities {
		resp.Points[i] = CurvePoint{
			Maturity:       t,
			Rate:           yc.Rate(t),
			DiscountFactor: yc.DiscountFactor(t),
			InstForward:    fwd[i],
			Extrapolated:   !yc.InRange(t),
		}
	}
	for i := 1; i < len(maturities); i++ {
		f, err := curve.ForwardRate(yc, maturities[i-1], maturities[i])
		if err != nil {
			h.fail(w, "curve", err)
			return
		}
		resp.Forwards = append(resp.Forwards, ForwardPoint{Start: maturities[i-1], End: maturities[i], Rate: f})
	}

	respondJSON(w, http.StatusOK, resp)
}

// parseMaturities parses a comma-separated list of positive years. An empty
// list yields the canonical maturities. Duplicates are removed.
func parseMaturities(raw string) ([]float64, error) {
	if strings.TrimSpace(raw) == "" {
		out := make([]float64, 0, len(curve.MaturityYears))
		for _, l := range curve.Labels() {
			out = append(out, curve.MaturityYears[l])
		}
		return out, nil
	}

	seen := make(map[float64]bool)
	var out []float64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		t, err := strconv.ParseFloat(part, 64)
		if err != nil {
			if years, lerr := curve.LabelYears(strings.ToUpper(part)); lerr == nil {
				t, err = years, nil
			}
		}
		if err != nil || !(t > 0) || math.IsInf(t, 0) {
			return nil, fmt.Errorf("invalid maturity %q", part)
		}
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	sort.Float64s(out)
	return out, nil
}
