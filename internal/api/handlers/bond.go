package handlers

import (
	"fmt"
	"net/http"

	"github.com/wonny/bondlab/internal/bond"
	"github.com/wonny/bondlab/internal/curve"
)

// BondRequest is the body of POST /api/bonds/analyze.
type BondRequest struct {
	Bond         bond.Bond  `json:"bond"`
	ShockBP      float64    `json:"shock_bp"`       // parallel scenario; 0 → 1bp sensitivities only
	KeyRates     []string   `json:"key_rates"`      // labels; empty → all canonical
	KeyRateWidth float64    `json:"key_rate_width"` // <= 0 → configured default
	MarketPrice  *float64   `json:"market_price"`   // optional: solve YTM for this price
	Curve        *CurveSpec `json:"curve"`
}

// BondResponse is the analytics bundle plus scenario results.
type BondResponse struct {
	*bond.Analytics
	MarketYield  *float64 `json:"market_yield,omitempty"`
	ShockBP      float64  `json:"shock_bp"`
	ShockedPrice float64  `json:"shocked_price"`
	PriceChange  float64  `json:"price_change"`
	Extrapolated bool     `json:"extrapolated"`
}

// AnalyzeBond prices a bond and computes its sensitivities
// POST /api/bonds/analyze
func (h *AnalyticsHandler) AnalyzeBond(w http.ResponseWriter, r *http.Request) {
	var req BondRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, "bond", err)
		return
	}
	if err := validateShock(req.ShockBP); err != nil {
		h.fail(w, "bond", err)
		return
	}

	base, err := h.baseCurve(req.Curve)
	if err != nil {
		h.fail(w, "bond", err)
		return
	}

	keys, err := keyRateYears(req.KeyRates)
	if err != nil {
		h.fail(w, "bond", err)
		return
	}

	opts := bond.AnalyzeOptions{
		ShockBP:      1,
		KeyRates:     keys,
		KeyRateWidth: h.keyRateWidth(req.KeyRateWidth),
	}
	a, err := bond.Analyze(req.Bond, base, opts)
	if err != nil {
		h.fail(w, "bond", err)
		return
	}

	resp := BondResponse{Analytics: a, ShockBP: req.ShockBP}

	shocked, err := bond.Price(req.Bond, curve.NewParallelShock(base, req.ShockBP))
	if err != nil {
		h.fail(w, "bond", err)
		return
	}
	resp.ShockedPrice = shocked
	resp.PriceChange = shocked - a.Price

	if req.MarketPrice != nil {
		y, err := bond.YieldToMaturity(req.Bond, *req.MarketPrice)
		if err != nil {
			h.fail(w, "bond", err)
			return
		}
		resp.MarketYield = &y
	}

	if yc, ok := base.(interface{ InRange(float64) bool }); ok {
		resp.Extrapolated = !yc.InRange(req.Bond.LastPaymentTime())
	}

	respondJSON(w, http.StatusOK, resp)
}

// keyRateYears resolves labels, defaulting to every canonical maturity.
func keyRateYears(labels []string) ([]float64, error) {
	if len(labels) == 0 {
		return bond.DefaultAnalyzeOptions().KeyRates, nil
	}
	out := make([]float64, 0, len(labels))
	for _, l := range labels {
		years, err := curve.LabelYears(l)
		if err != nil {
			return nil, fmt.Errorf("%w: key_rates: %v", errBadRequest, err)
		}
		out = append(out, years)
	}
	return out, nil
}
