package hedge

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/wonny/bondlab/internal/bond"
	"github.com/wonny/bondlab/internal/curve"
)

const (
	simplexTol  = 1e-10
	feasibleTol = 1e-8
)

// =============================================================================
// Optimizer - 순수 계산기
// =============================================================================

// Optimizer chooses non-negative instrument weights w minimizing the base
// cost Σ w·price subject to Σ w·price(s) >= PV_liab(s) in every scenario s.
type Optimizer struct {
	constraints Constraints
}

// NewOptimizer creates an optimizer with the given constraints.
func NewOptimizer(constraints Constraints) *Optimizer {
	return &Optimizer{constraints: constraints}
}

// Constraints returns the optimizer constraints.
func (o *Optimizer) Constraints() Constraints {
	return o.constraints
}

// ScenarioCoverage reports hedge and liability value in one scenario.
type ScenarioCoverage struct {
	Name        string  `json:"name"`
	Center      float64 `json:"center"`
	ShockBP     float64 `json:"shock_bp"`
	HedgePV     float64 `json:"hedge_pv"`
	LiabilityPV float64 `json:"liability_pv"`
	Surplus     float64 `json:"surplus"`
}

// Result is an optimal hedge.
type Result struct {
	RunID       string             `json:"run_id"`
	Weights     []float64          `json:"weights"`
	Prices      []float64          `json:"prices"` // base-curve instrument prices
	Cost        float64            `json:"cost"`
	LiabilityPV float64            `json:"liability_pv"`
	Coverage    []ScenarioCoverage `json:"coverage"`
	Binding     string             `json:"binding_scenario"` // smallest surplus
}

// Optimize solves the hedge LP on base for the given instruments and
// liabilities. Returns ErrInfeasibleHedge when no admissible weights exist;
// a solution is never clipped into feasibility.
func (o *Optimizer) Optimize(base curve.Curve, instruments []bond.Bond, liabilities *Schedule) (*Result, error) {
	if err := o.constraints.Validate(); err != nil {
		return nil, err
	}
	if liabilities == nil {
		return nil, fmt.Errorf("%w: nil schedule", ErrInvalidLiability)
	}
	if len(instruments) == 0 {
		return nil, fmt.Errorf("%w: no hedge instruments", ErrInfeasibleHedge)
	}
	for j, b := range instruments {
		if err := b.Validate(); err != nil {
			return nil, fmt.Errorf("instrument %d: %w", j, err)
		}
	}

	// an instrument paying only after the last liability cannot fund it
	last := liabilities.LastTime()
	reachable := false
	for _, b := range instruments {
		if b.FirstPaymentTime() <= last {
			reachable = true
			break
		}
	}
	if !reachable {
		return nil, fmt.Errorf("%w: no instrument pays at or before %gY", ErrInfeasibleHedge, last)
	}

	scenarios := Scenarios(base, liabilities.Times(), o.constraints.ShockBP, o.constraints.Width)

	prices, liabPV, err := scenarioValues(scenarios, instruments, liabilities)
	if err != nil {
		return nil, err
	}

	weights, err := o.solve(prices, liabPV)
	if err != nil {
		return nil, err
	}

	coverage, binding, err := o.verify(scenarios, prices, liabPV, weights)
	if err != nil {
		return nil, err
	}

	return &Result{
		RunID:       uuid.New().String(),
		Weights:     weights,
		Prices:      prices[0],
		Cost:        floats.Dot(weights, prices[0]),
		LiabilityPV: liabPV[0],
		Coverage:    coverage,
		Binding:     binding,
	}, nil
}

// scenarioValues prices every instrument and the liabilities in every scenario.
func scenarioValues(scenarios []Scenario, instruments []bond.Bond, liabilities *Schedule) ([][]float64, []float64, error) {
	prices := make([][]float64, len(scenarios))
	liabPV := make([]float64, len(scenarios))

	for i, s := range scenarios {
		row := make([]float64, len(instruments))
		for j, b := range instruments {
			p, err := bond.Price(b, s.Curve)
			if err != nil {
				return nil, nil, fmt.Errorf("instrument %d: %w", j, err)
			}
			if math.IsNaN(p) || math.IsInf(p, 0) {
				return nil, nil, fmt.Errorf("%w: instrument %d price in %s is %v", bond.ErrDegenerateBond, j, s.Name, p)
			}
			row[j] = p
		}
		prices[i] = row

		pv := liabilities.PV(s.Curve)
		if math.IsNaN(pv) || math.IsInf(pv, 0) {
			return nil, nil, fmt.Errorf("%w: liability PV in %s is %v", ErrInvalidLiability, s.Name, pv)
		}
		liabPV[i] = pv
	}
	return prices, liabPV, nil
}

// solve builds the standard-form LP
//
//	min  cᵀw
//	s.t. P_i·w - s_i = L_i        (one surplus s_i >= 0 per scenario)
//	     w_j + u_j   = MaxWeight  (one slack u_j >= 0 per capped instrument)
//	     w, s, u >= 0
//
// and returns w.
func (o *Optimizer) solve(prices [][]float64, liabPV []float64) ([]float64, error) {
	m := len(prices)
	n := len(prices[0])
	k := 0
	if o.constraints.capped() {
		k = n
	}

	rows, cols := m+k, n+m+k
	A := mat.NewDense(rows, cols, nil)
	b := make([]float64, rows)
	c := make([]float64, cols)
	copy(c, prices[0])

	for i := 0; i < m; i++ {
		sign := 1.0
		if liabPV[i] < 0 {
			sign = -1 // keep b >= 0
		}
		for j := 0; j < n; j++ {
			A.Set(i, j, sign*prices[i][j])
		}
		A.Set(i, n+i, -sign)
		b[i] = sign * liabPV[i]
	}
	for j := 0; j < k; j++ {
		A.Set(m+j, j, 1)
		A.Set(m+j, n+m+j, 1)
		b[m+j] = o.constraints.MaxWeight
	}

	_, x, err := lp.Simplex(c, A, b, simplexTol, nil)
	if err != nil {
		if errors.Is(err, lp.ErrInfeasible) {
			return nil, fmt.Errorf("%w: %v", ErrInfeasibleHedge, err)
		}
		return nil, fmt.Errorf("hedge linear program: %w", err)
	}

	w := make([]float64, n)
	copy(w, x[:n])
	return w, nil
}

// verify re-checks the LP solution against every scenario.
func (o *Optimizer) verify(scenarios []Scenario, prices [][]float64, liabPV, w []float64) ([]ScenarioCoverage, string, error) {
	for j, v := range w {
		if v < -feasibleTol || math.IsNaN(v) {
			return nil, "", fmt.Errorf("%w: weight %d is %v", ErrInfeasibleHedge, j, v)
		}
		if o.constraints.capped() && v > o.constraints.MaxWeight+feasibleTol {
			return nil, "", fmt.Errorf("%w: weight %d is %v above cap %v", ErrInfeasibleHedge, j, v, o.constraints.MaxWeight)
		}
	}

	coverage := make([]ScenarioCoverage, len(scenarios))
	binding := ""
	minSurplus := math.Inf(1)
	for i, s := range scenarios {
		hedgePV := floats.Dot(w, prices[i])
		surplus := hedgePV - liabPV[i]
		if surplus < -feasibleTol*math.Max(1, math.Abs(liabPV[i])) {
			return nil, "", fmt.Errorf("%w: scenario %s short by %.6g", ErrInfeasibleHedge, s.Name, -surplus)
		}
		coverage[i] = ScenarioCoverage{
			Name:        s.Name,
			Center:      s.Center,
			ShockBP:     s.ShockBP,
			HedgePV:     hedgePV,
			LiabilityPV: liabPV[i],
			Surplus:     surplus,
		}
		if surplus < minSurplus {
			minSurplus = surplus
			binding = s.Name
		}
	}
	return coverage, binding, nil
}
