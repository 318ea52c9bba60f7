package curve

import "fmt"

// instantaneousDT is the central-difference step for instantaneous forwards.
const instantaneousDT = 1e-4

// ZeroRate returns the spot (zero-coupon) rate for maturity t.
func ZeroRate(c Curve, t float64) float64 {
	return c.Rate(t)
}

// ForwardRate returns the continuously-compounded forward rate between t1
// and t2: (r2·t2 - r1·t1) / (t2 - t1).
func ForwardRate(c Curve, t1, t2 float64) (float64, error) {
	if t2 <= t1 {
		return 0, fmt.Errorf("%w: forward period end %.4g must be after start %.4g", ErrInvalidCurveInput, t2, t1)
	}
	r1 := c.Rate(t1)
	r2 := c.Rate(t2)
	return (r2*t2 - r1*t1) / (t2 - t1), nil
}

// InstantaneousForwards approximates f(t) = d(r·t)/dt by central difference.
func InstantaneousForwards(c Curve, maturities []float64) []float64 {
	out := make([]float64, len(maturities))
	for i, t := range maturities {
		up := t + instantaneousDT
		dn := t - instantaneousDT
		out[i] = (c.Rate(up)*up - c.Rate(dn)*dn) / (2 * instantaneousDT)
	}
	return out
}
