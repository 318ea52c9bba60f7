package curve

import "math"

// Gaussian bump widths for localized shocks.
const (
	DefaultKeyRateWidth   = 0.5 // single-bond key-rate duration
	DefaultLiabilityWidth = 1.0 // liability key-rate scenarios
)

// BPToDecimal converts basis points to a decimal rate.
func BPToDecimal(bp float64) float64 {
	return bp / 10000.0
}

// ParallelShock adds the same shift to every maturity of a base curve.
// Rate is recomputed on every call; the base curve is never modified.
type ParallelShock struct {
	base  Curve
	shift float64
}

// NewParallelShock wraps base with a uniform shift of shockBP basis points.
func NewParallelShock(base Curve, shockBP float64) *ParallelShock {
	return &ParallelShock{base: base, shift: BPToDecimal(shockBP)}
}

// Rate returns the base rate plus the shock.
func (p *ParallelShock) Rate(t float64) float64 {
	return p.base.Rate(t) + p.shift
}

// DiscountFactor discounts at the shocked rate.
func (p *ParallelShock) DiscountFactor(t float64) float64 {
	return DiscountFactor(p, t)
}

// LocalizedShock adds a Gaussian bump centered at a key maturity:
//
//	rate(t) = base(t) + shift · exp(-(t-center)² / width)
type LocalizedShock struct {
	base   Curve
	center float64
	shift  float64
	width  float64
}

// NewLocalizedShock wraps base with a bump of shockBP basis points at center.
// A non-positive width falls back to DefaultKeyRateWidth.
func NewLocalizedShock(base Curve, center, shockBP, width float64) *LocalizedShock {
	if width <= 0 {
		width = DefaultKeyRateWidth
	}
	return &LocalizedShock{
		base:   base,
		center: center,
		shift:  BPToDecimal(shockBP),
		width:  width,
	}
}

// Rate returns the base rate plus the Gaussian-weighted shock at t.
func (l *LocalizedShock) Rate(t float64) float64 {
	d := t - l.center
	return l.base.Rate(t) + l.shift*math.Exp(-d*d/l.width)
}

// DiscountFactor discounts at the shocked rate.
func (l *LocalizedShock) DiscountFactor(t float64) float64 {
	return DiscountFactor(l, t)
}

// Center returns the key maturity of the bump.
func (l *LocalizedShock) Center() float64 { return l.center }

// Width returns the Gaussian width parameter.
func (l *LocalizedShock) Width() float64 { return l.width }
