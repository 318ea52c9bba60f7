package handlers

import (
	"fmt"
	"math"
	"net/http"

	"github.com/wonny/bondlab/internal/portfolio"
)

// PortfolioRequest is the body of POST /api/portfolio/analyze.
type PortfolioRequest struct {
	Holdings  []portfolio.Holding `json:"holdings"`
	Normalize bool                `json:"normalize"` // divide weights by Σ|w| first
	ShockBP   float64             `json:"shock_bp"`
	Horizon   float64             `json:"horizon"` // years; 0 → skip future value
	Curve     *CurveSpec          `json:"curve"`
}

// PortfolioResponse holds the aggregate measures.
type PortfolioResponse struct {
	Holdings    []portfolio.Holding      `json:"holdings"`
	Price       float64                  `json:"price"`
	Duration    float64                  `json:"duration"`
	Convexity   float64                  `json:"convexity"`
	FutureValue *float64                 `json:"future_value,omitempty"`
	Horizon     float64                  `json:"horizon,omitempty"`
	Shock       *portfolio.ShockResult   `json:"shock,omitempty"`
	Profile     []portfolio.ProfilePoint `json:"profile"`
}

// AnalyzePortfolio aggregates analytics across holdings
// POST /api/portfolio/analyze
func (h *AnalyticsHandler) AnalyzePortfolio(w http.ResponseWriter, r *http.Request) {
	var req PortfolioRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, "portfolio", err)
		return
	}
	if err := validateShock(req.ShockBP); err != nil {
		h.fail(w, "portfolio", err)
		return
	}
	if req.Horizon < 0 || math.IsNaN(req.Horizon) {
		h.fail(w, "portfolio", fmt.Errorf("%w: horizon must be >= 0", errBadRequest))
		return
	}

	base, err := h.baseCurve(req.Curve)
	if err != nil {
		h.fail(w, "portfolio", err)
		return
	}

	holdings := req.Holdings
	if req.Normalize {
		if holdings, err = portfolio.NormalizeWeights(holdings); err != nil {
			h.fail(w, "portfolio", err)
			return
		}
	}

	p, err := portfolio.New(holdings)
	if err != nil {
		h.fail(w, "portfolio", err)
		return
	}

	resp := PortfolioResponse{Holdings: p.Holdings()}
	if resp.Price, err = p.Price(base); err != nil {
		h.fail(w, "portfolio", err)
		return
	}
	if resp.Duration, err = p.Duration(base); err != nil {
		h.fail(w, "portfolio", err)
		return
	}
	if resp.Convexity, err = p.Convexity(base); err != nil {
		h.fail(w, "portfolio", err)
		return
	}

	if req.Horizon > 0 {
		fv, err := p.FutureValue(base, req.Horizon)
		if err != nil {
			h.fail(w, "portfolio", err)
			return
		}
		resp.FutureValue = &fv
		resp.Horizon = req.Horizon
	}

	if req.ShockBP != 0 {
		if resp.Shock, err = p.ShockPnL(base, req.ShockBP); err != nil {
			h.fail(w, "portfolio", err)
			return
		}
	}

	if resp.Profile, err = p.PriceProfile(base, portfolio.DefaultShockGrid()); err != nil {
		h.fail(w, "portfolio", err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}
