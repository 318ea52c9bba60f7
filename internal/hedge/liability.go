// Package hedge builds liability-driven hedges: liability present value and
// key-rate sensitivity, rate-shock scenarios, and a linear program choosing
// non-negative bond weights that cover the liabilities in every scenario at
// minimum cost.
package hedge

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/wonny/bondlab/internal/bond"
	"github.com/wonny/bondlab/internal/curve"
)

var (
	// ErrInvalidLiability is returned for malformed liability schedules.
	ErrInvalidLiability = errors.New("invalid liability")
	// ErrInvalidConstraints is returned for out-of-range hedge parameters.
	ErrInvalidConstraints = errors.New("invalid hedge constraints")
	// ErrInfeasibleHedge is returned when no non-negative weights cover
	// every scenario.
	ErrInfeasibleHedge = errors.New("infeasible hedge")
)

// Liability is one scheduled outflow. Inflows are not liabilities and are
// rejected by NewSchedule.
type Liability struct {
	Time   float64 `json:"time"`   // years, > 0
	Amount float64 `json:"amount"` // currency units, >= 0
}

// Schedule is a validated liability stream ordered by time.
type Schedule struct {
	items []Liability
}

// NewSchedule validates liabilities and sorts them by time.
func NewSchedule(liabilities []Liability) (*Schedule, error) {
	if len(liabilities) == 0 {
		return nil, fmt.Errorf("%w: empty schedule", ErrInvalidLiability)
	}
	for i, l := range liabilities {
		if !(l.Time > 0) || math.IsInf(l.Time, 0) {
			return nil, fmt.Errorf("%w: liability %d: time must be positive, got %v", ErrInvalidLiability, i, l.Time)
		}
		if !(l.Amount >= 0) || math.IsInf(l.Amount, 0) {
			return nil, fmt.Errorf("%w: liability %d: amount must be finite and >= 0, got %v", ErrInvalidLiability, i, l.Amount)
		}
	}

	items := make([]Liability, len(liabilities))
	copy(items, liabilities)
	sort.SliceStable(items, func(i, j int) bool { return items[i].Time < items[j].Time })
	return &Schedule{items: items}, nil
}

// Liabilities returns a copy of the schedule.
func (s *Schedule) Liabilities() []Liability {
	cp := make([]Liability, len(s.items))
	copy(cp, s.items)
	return cp
}

// Times returns the distinct liability times in ascending order.
func (s *Schedule) Times() []float64 {
	times := make([]float64, 0, len(s.items))
	for i, l := range s.items {
		if i > 0 && l.Time == s.items[i-1].Time {
			continue
		}
		times = append(times, l.Time)
	}
	return times
}

// LastTime returns the latest liability time.
func (s *Schedule) LastTime() float64 {
	return s.items[len(s.items)-1].Time
}

// Cashflows returns the schedule as bond cashflows.
func (s *Schedule) Cashflows() []bond.Cashflow {
	cfs := make([]bond.Cashflow, len(s.items))
	for i, l := range s.items {
		cfs[i] = bond.Cashflow{Time: l.Time, Amount: l.Amount}
	}
	return cfs
}

// PV returns Σ amount · DF(time) on c.
func (s *Schedule) PV(c curve.Curve) float64 {
	return bond.PresentValue(s.Cashflows(), c)
}

// PVLiabilities validates liabilities and discounts them on c.
func PVLiabilities(liabilities []Liability, c curve.Curve) (float64, error) {
	s, err := NewSchedule(liabilities)
	if err != nil {
		return 0, err
	}
	return s.PV(c), nil
}
