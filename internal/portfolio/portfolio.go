// Package portfolio aggregates bond analytics over weighted holdings.
package portfolio

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/wonny/bondlab/internal/bond"
	"github.com/wonny/bondlab/internal/curve"
)

var (
	// ErrInvalidPortfolio is returned for holdings that cannot form a portfolio.
	ErrInvalidPortfolio = errors.New("invalid portfolio")
	// ErrDegeneratePortfolio is returned when the portfolio value is zero or
	// not finite and cannot be used as a weighting base.
	ErrDegeneratePortfolio = errors.New("degenerate portfolio")
)

// valueEpsilon is the relative size below which a net value counts as zero.
const valueEpsilon = 1e-12

// Holding is one weighted bond position. Negative weights are short positions.
type Holding struct {
	Bond   bond.Bond `json:"bond"`
	Weight float64   `json:"weight"`
}

// Portfolio is an ordered, immutable set of holdings.
// Weights are used as given; see NormalizeWeights.
type Portfolio struct {
	holdings []Holding
}

// New validates holdings and returns a portfolio.
func New(holdings []Holding) (*Portfolio, error) {
	if len(holdings) == 0 {
		return nil, fmt.Errorf("%w: no holdings", ErrInvalidPortfolio)
	}
	for i, h := range holdings {
		if err := h.Bond.Validate(); err != nil {
			return nil, fmt.Errorf("%w: holding %d: %w", ErrInvalidPortfolio, i, err)
		}
		if math.IsNaN(h.Weight) || math.IsInf(h.Weight, 0) {
			return nil, fmt.Errorf("%w: holding %d: weight must be finite", ErrInvalidPortfolio, i)
		}
	}

	cp := make([]Holding, len(holdings))
	copy(cp, holdings)
	return &Portfolio{holdings: cp}, nil
}

// Holdings returns a copy of the holdings.
func (p *Portfolio) Holdings() []Holding {
	cp := make([]Holding, len(p.holdings))
	copy(cp, p.holdings)
	return cp
}

// Weights returns the holding weights in order.
func (p *Portfolio) Weights() []float64 {
	w := make([]float64, len(p.holdings))
	for i, h := range p.holdings {
		w[i] = h.Weight
	}
	return w
}

// NormalizeWeights divides every weight by Σ|w|, so gross exposure is 1.
func NormalizeWeights(holdings []Holding) ([]Holding, error) {
	gross := 0.0
	for _, h := range holdings {
		gross += math.Abs(h.Weight)
	}
	if !(gross > 0) || math.IsInf(gross, 0) {
		return nil, fmt.Errorf("%w: gross weight is %v", ErrInvalidPortfolio, gross)
	}

	out := make([]Holding, len(holdings))
	for i, h := range holdings {
		out[i] = Holding{Bond: h.Bond, Weight: h.Weight / gross}
	}
	return out, nil
}

// =============================================================================
// Aggregates
// =============================================================================

func (p *Portfolio) prices(c curve.Curve) ([]float64, error) {
	out := make([]float64, len(p.holdings))
	for i, h := range p.holdings {
		price, err := bond.Price(h.Bond, c)
		if err != nil {
			return nil, fmt.Errorf("holding %d: %w", i, err)
		}
		out[i] = price
	}
	return out, nil
}

// Price returns Σ w·price.
func (p *Portfolio) Price(c curve.Curve) (float64, error) {
	prices, err := p.prices(c)
	if err != nil {
		return 0, err
	}
	return floats.Dot(p.Weights(), prices), nil
}

// Duration returns the value-weighted Macaulay duration
// Σ w·price·D / value. Fails with ErrDegeneratePortfolio when the net value
// is zero (relative to gross exposure) or not finite.
func (p *Portfolio) Duration(c curve.Curve) (float64, error) {
	weights := p.Weights()
	prices, err := p.prices(c)
	if err != nil {
		return 0, err
	}

	value := floats.Dot(weights, prices)
	gross := 0.0
	for i := range weights {
		gross += math.Abs(weights[i] * prices[i])
	}
	if err := checkValue(value, gross); err != nil {
		return 0, err
	}

	num := 0.0
	for i, h := range p.holdings {
		d, err := bond.MacaulayDuration(h.Bond, c)
		if err != nil {
			return 0, fmt.Errorf("holding %d: %w", i, err)
		}
		num += weights[i] * prices[i] * d
	}
	return num / value, nil
}

// Convexity returns Σ w·convexity. Unlike Duration this is not
// value-weighted; the two measures are aggregated differently.
func (p *Portfolio) Convexity(c curve.Curve) (float64, error) {
	cx := make([]float64, len(p.holdings))
	for i, h := range p.holdings {
		v, err := bond.Convexity(h.Bond, c)
		if err != nil {
			return 0, fmt.Errorf("holding %d: %w", i, err)
		}
		cx[i] = v
	}
	return floats.Dot(p.Weights(), cx), nil
}

// FutureValue reinvests every cashflow paid at or before horizon to the
// horizon at exp(r·τ) with τ = horizon - t and r = c.Rate(τ). Cashflows after
// the horizon are excluded.
func (p *Portfolio) FutureValue(c curve.Curve, horizon float64) (float64, error) {
	if !(horizon > 0) || math.IsInf(horizon, 0) {
		return 0, fmt.Errorf("%w: horizon must be positive, got %v", ErrInvalidPortfolio, horizon)
	}

	fv := 0.0
	for i, h := range p.holdings {
		cfs, err := h.Bond.Cashflows()
		if err != nil {
			return 0, fmt.Errorf("holding %d: %w", i, err)
		}
		for _, cf := range cfs {
			if cf.Time > horizon {
				break
			}
			tau := horizon - cf.Time
			fv += h.Weight * cf.Amount * math.Exp(c.Rate(tau)*tau)
		}
	}
	return fv, nil
}

func checkValue(value, gross float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%w: value is %v", ErrDegeneratePortfolio, value)
	}
	if value == 0 || math.Abs(value) <= valueEpsilon*gross {
		return fmt.Errorf("%w: net value %.6g is zero against gross %.6g", ErrDegeneratePortfolio, value, gross)
	}
	return nil
}
