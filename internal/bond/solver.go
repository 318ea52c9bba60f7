package bond

import (
	"errors"
	"math"
)

// =============================================================================
// Brent root finder (unexported)
// =============================================================================

const (
	yieldTolerance = 1e-12
	yieldMaxIter   = 100
	yieldFloor     = 1e-6
	yieldCeiling   = 0.5
)

var (
	errNotBracketed = errors.New("root not bracketed")
	errNotConverged = errors.New("did not converge")
)

// brent finds x in [a, b] with f(x) = 0. f(a) and f(b) must differ in sign.
// Returns the root and the number of iterations taken.
func brent(f func(float64) float64, a, b, tol float64, maxIter int) (float64, int, error) {
	fa, fb := f(a), f(b)
	if fa == 0 {
		return a, 0, nil
	}
	if fb == 0 {
		return b, 0, nil
	}
	if fa*fb > 0 {
		return 0, 0, errNotBracketed
	}

	// b is always the best estimate so far
	if math.Abs(fa) < math.Abs(fb) {
		a, b = b, a
		fa, fb = fb, fa
	}

	c, fc := a, fa
	d := c
	bisected := true

	for iter := 1; iter <= maxIter; iter++ {
		var s float64
		if fa != fc && fb != fc {
			// inverse quadratic interpolation
			s = a*fb*fc/((fa-fb)*(fa-fc)) +
				b*fa*fc/((fb-fa)*(fb-fc)) +
				c*fa*fb/((fc-fa)*(fc-fb))
		} else {
			// secant
			s = b - fb*(b-a)/(fb-fa)
		}

		lo, hi := (3*a+b)/4, b
		if lo > hi {
			lo, hi = hi, lo
		}

		if s < lo || s > hi ||
			(bisected && math.Abs(s-b) >= math.Abs(b-c)/2) ||
			(!bisected && math.Abs(s-b) >= math.Abs(c-d)/2) ||
			(bisected && math.Abs(b-c) < tol) ||
			(!bisected && math.Abs(c-d) < tol) {
			s = (a + b) / 2
			bisected = true
		} else {
			bisected = false
		}

		fs := f(s)
		d = c
		c, fc = b, fb

		if fa*fs < 0 {
			b, fb = s, fs
		} else {
			a, fa = s, fs
		}

		if math.Abs(fa) < math.Abs(fb) {
			a, b = b, a
			fa, fb = fb, fa
		}

		if fb == 0 || math.Abs(b-a) < tol {
			return b, iter, nil
		}
	}

	return b, maxIter, errNotConverged
}
