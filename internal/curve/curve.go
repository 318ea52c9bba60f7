// Package curve models continuously-compounded spot-rate curves: the
// interpolated base curve built from market yields and the shock
// decorators used for scenario and sensitivity analysis.
package curve

import (
	"errors"
	"math"
)

// ErrInvalidCurveInput is returned for bad or insufficient maturity points.
var ErrInvalidCurveInput = errors.New("invalid curve input")

// Curve is the capability every pricing function depends on.
// ⭐ SSOT: 모든 가격/민감도 계산은 이 인터페이스에만 의존
//
// Implementations must derive DiscountFactor from Rate through
// DiscountFactor(c, t) so both views of a curve stay consistent.
type Curve interface {
	// Rate returns the continuously-compounded annual spot rate at t years.
	Rate(t float64) float64
	// DiscountFactor returns exp(-Rate(t)·t).
	DiscountFactor(t float64) float64
}

// DiscountFactor is the single continuous-compounding formula shared by all
// curve variants.
func DiscountFactor(c Curve, t float64) float64 {
	return math.Exp(-c.Rate(t) * t)
}

// Flat is a constant-rate curve.
type Flat struct {
	rate float64
}

// NewFlat returns a curve with the same rate at every maturity.
func NewFlat(rate float64) *Flat {
	return &Flat{rate: rate}
}

// Rate returns the flat rate regardless of maturity.
func (f *Flat) Rate(float64) float64 { return f.rate }

// DiscountFactor returns exp(-rate·t).
func (f *Flat) DiscountFactor(t float64) float64 { return DiscountFactor(f, t) }
