package handlers

import (
	"fmt"
	"net/http"

	"github.com/wonny/bondlab/internal/bond"
	"github.com/wonny/bondlab/internal/hedge"
)

// HedgeRequest is the body of POST /api/hedge/optimize.
type HedgeRequest struct {
	Instruments []bond.Bond       `json:"instruments"`
	Liabilities []hedge.Liability `json:"liabilities"`
	ShockBP     *float64          `json:"shock_bp"`   // nil → configured default
	Width       float64           `json:"width"`      // <= 0 → configured default
	MaxWeight   float64           `json:"max_weight"` // 0 → uncapped
	KeyRate     string            `json:"key_rate"`   // PV profile center; empty → last liability
	Curve       *CurveSpec        `json:"curve"`
}

// HedgeResponse is the optimal hedge with attribution and PV profile.
type HedgeResponse struct {
	*hedge.Result
	Attribution []hedge.Attribution `json:"attribution"`
	ProfileAt   float64             `json:"profile_key_rate"`
	Profile     []hedge.PVPoint     `json:"profile"`
}

// OptimizeHedge solves the liability hedge linear program
// POST /api/hedge/optimize
func (h *AnalyticsHandler) OptimizeHedge(w http.ResponseWriter, r *http.Request) {
	var req HedgeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, "hedge", err)
		return
	}

	cons := hedge.DefaultConstraints()
	cons.ShockBP = float64(h.defaults.HedgeShockBP)
	if req.ShockBP != nil {
		cons.ShockBP = *req.ShockBP
	}
	if err := validateShock(cons.ShockBP); err != nil {
		h.fail(w, "hedge", err)
		return
	}
	cons.Width = h.liabilityWidth(req.Width)
	cons.MaxWeight = req.MaxWeight

	base, err := h.baseCurve(req.Curve)
	if err != nil {
		h.fail(w, "hedge", err)
		return
	}

	schedule, err := hedge.NewSchedule(req.Liabilities)
	if err != nil {
		h.fail(w, "hedge", err)
		return
	}

	result, err := hedge.NewOptimizer(cons).Optimize(base, req.Instruments, schedule)
	if err != nil {
		h.fail(w, "hedge", err)
		return
	}

	attrShock := cons.ShockBP
	if attrShock == 0 {
		attrShock = 1
	}
	attribution, err := schedule.AttributeAll(base, attrShock, cons.Width)
	if err != nil {
		h.fail(w, "hedge", err)
		return
	}

	center := schedule.LastTime()
	if req.KeyRate != "" {
		if center, err = keyRateLabel(req.KeyRate); err != nil {
			h.fail(w, "hedge", err)
			return
		}
	}

	hp, err := hedge.HedgePortfolio(req.Instruments, result.Weights)
	if err != nil {
		h.fail(w, "hedge", err)
		return
	}
	profile, err := hedge.PVProfile(base, hp, schedule, center, hedge.DefaultPVGrid(), cons.Width)
	if err != nil {
		h.fail(w, "hedge", err)
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"run_id":      result.RunID,
		"instruments": len(req.Instruments),
		"scenarios":   len(result.Coverage),
		"cost":        result.Cost,
		"binding":     result.Binding,
	}).Info("Hedge optimized")

	respondJSON(w, http.StatusOK, HedgeResponse{
		Result:      result,
		Attribution: attribution,
		ProfileAt:   center,
		Profile:     profile,
	})
}

func keyRateLabel(label string) (float64, error) {
	years, err := keyRateYears([]string{label})
	if err != nil {
		return 0, fmt.Errorf("key_rate: %w", err)
	}
	return years[0], nil
}
