package hedge

import (
	"fmt"

	"github.com/wonny/bondlab/internal/bond"
	"github.com/wonny/bondlab/internal/curve"
	"github.com/wonny/bondlab/internal/portfolio"
)

// PVPoint compares hedge and liability value under one key-rate shock.
type PVPoint struct {
	ShockBP     float64 `json:"shock_bp"`
	HedgePV     float64 `json:"hedge_pv"`
	LiabilityPV float64 `json:"liability_pv"`
	Gap         float64 `json:"gap"` // hedge - liability
}

// DefaultPVGrid returns -200..200bp in 20bp steps.
func DefaultPVGrid() []float64 {
	return portfolio.ShockGrid(-200, 200, 20)
}

// HedgePortfolio pairs instruments with optimized weights.
func HedgePortfolio(instruments []bond.Bond, weights []float64) (*portfolio.Portfolio, error) {
	if len(instruments) != len(weights) {
		return nil, fmt.Errorf("%w: %d instruments but %d weights", portfolio.ErrInvalidPortfolio, len(instruments), len(weights))
	}
	holdings := make([]portfolio.Holding, len(instruments))
	for i := range instruments {
		holdings[i] = portfolio.Holding{Bond: instruments[i], Weight: weights[i]}
	}
	return portfolio.New(holdings)
}

// PVProfile revalues the hedge and the liabilities under localized shocks
// of each size centered at keyRate.
func PVProfile(base curve.Curve, hp *portfolio.Portfolio, liabilities *Schedule, keyRate float64, shocks []float64, width float64) ([]PVPoint, error) {
	out := make([]PVPoint, 0, len(shocks))
	for _, bp := range shocks {
		shocked := curve.NewLocalizedShock(base, keyRate, bp, width)
		hv, err := hp.Price(shocked)
		if err != nil {
			return nil, fmt.Errorf("shock %+gbp: %w", bp, err)
		}
		lv := liabilities.PV(shocked)
		out = append(out, PVPoint{
			ShockBP:     bp,
			HedgePV:     hv,
			LiabilityPV: lv,
			Gap:         hv - lv,
		})
	}
	return out, nil
}
