package portfolio

import (
	"fmt"
	"math"

	"github.com/wonny/bondlab/internal/curve"
)

// ShockResult is the portfolio revaluation under one parallel shock.
type ShockResult struct {
	ShockBP      float64 `json:"shock_bp"`
	BaseValue    float64 `json:"base_value"`
	ShockedValue float64 `json:"shocked_value"`
	PnL          float64 `json:"pnl"`
	PnLPct       float64 `json:"pnl_pct"` // percent of |BaseValue|
}

// ProfilePoint is one point of a value-vs-shock profile.
type ProfilePoint struct {
	ShockBP float64 `json:"shock_bp"`
	Value   float64 `json:"value"`
}

// DefaultShockGrid returns -200..200bp in 10bp steps.
func DefaultShockGrid() []float64 {
	return ShockGrid(-200, 200, 10)
}

// ShockGrid returns from, from+step, ... up to and including to.
func ShockGrid(from, to, step float64) []float64 {
	if step <= 0 || to < from {
		return nil
	}
	n := int(math.Floor((to-from)/step+1e-9)) + 1
	grid := make([]float64, n)
	for i := range grid {
		grid[i] = from + float64(i)*step
	}
	return grid
}

// ShockPnL revalues the portfolio under a parallel shift of shockBP.
func (p *Portfolio) ShockPnL(base curve.Curve, shockBP float64) (*ShockResult, error) {
	v0, err := p.Price(base)
	if err != nil {
		return nil, err
	}
	if err := checkValue(v0, math.Abs(v0)); err != nil {
		return nil, err
	}
	v1, err := p.Price(curve.NewParallelShock(base, shockBP))
	if err != nil {
		return nil, err
	}

	pnl := v1 - v0
	return &ShockResult{
		ShockBP:      shockBP,
		BaseValue:    v0,
		ShockedValue: v1,
		PnL:          pnl,
		PnLPct:       pnl / math.Abs(v0) * 100,
	}, nil
}

// PriceProfile values the portfolio under each parallel shock.
func (p *Portfolio) PriceProfile(base curve.Curve, shocks []float64) ([]ProfilePoint, error) {
	out := make([]ProfilePoint, 0, len(shocks))
	for _, bp := range shocks {
		v, err := p.Price(curve.NewParallelShock(base, bp))
		if err != nil {
			return nil, fmt.Errorf("shock %+gbp: %w", bp, err)
		}
		out = append(out, ProfilePoint{ShockBP: bp, Value: v})
	}
	return out, nil
}
