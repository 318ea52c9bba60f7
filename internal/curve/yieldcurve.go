package curve

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/interp"
)

// Point is one (maturity, yield) node of a curve.
type Point struct {
	Maturity float64 `json:"maturity"` // years
	Yield    float64 `json:"yield"`    // decimal, continuously compounded
}

// YieldCurve is a natural cubic spline through observed spot yields.
// Immutable after construction; safe for concurrent readers.
type YieldCurve struct {
	maturities []float64
	yields     []float64
	slopes     []float64 // spline first derivative at each node
	spline     interp.NaturalCubic
}

// NewYieldCurve builds a curve from label → decimal yield observations.
// Every label must exist in MaturityYears.
func NewYieldCurve(yields map[string]float64) (*YieldCurve, error) {
	points := make([]Point, 0, len(yields))
	for label, y := range yields {
		years, err := LabelYears(label)
		if err != nil {
			return nil, err
		}
		points = append(points, Point{Maturity: years, Yield: y})
	}
	return NewFromPoints(points)
}

// NewFromPoints builds a curve from explicit maturities. Points are sorted
// by maturity; duplicates are rejected rather than averaged.
func NewFromPoints(points []Point) (*YieldCurve, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 maturity points, got %d", ErrInvalidCurveInput, len(points))
	}

	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Maturity < sorted[j].Maturity })

	xs := make([]float64, len(sorted))
	ys := make([]float64, len(sorted))
	for i, p := range sorted {
		if math.IsNaN(p.Maturity) || math.IsInf(p.Maturity, 0) || p.Maturity < 0 {
			return nil, fmt.Errorf("%w: maturity %v must be finite and >= 0", ErrInvalidCurveInput, p.Maturity)
		}
		if math.IsNaN(p.Yield) || math.IsInf(p.Yield, 0) {
			return nil, fmt.Errorf("%w: yield at %.4gY is not finite", ErrInvalidCurveInput, p.Maturity)
		}
		if i > 0 && p.Maturity == xs[i-1] {
			return nil, fmt.Errorf("%w: duplicate maturity %.4gY", ErrInvalidCurveInput, p.Maturity)
		}
		xs[i] = p.Maturity
		ys[i] = p.Yield
	}

	yc := &YieldCurve{maturities: xs, yields: ys}
	// Fit panics on unsorted or short input; both are excluded above.
	if err := yc.spline.Fit(xs, ys); err != nil {
		return nil, fmt.Errorf("%w: spline fit: %v", ErrInvalidCurveInput, err)
	}

	yc.slopes = make([]float64, len(xs))
	for i, x := range xs {
		yc.slopes[i] = yc.spline.PredictDerivative(x)
	}

	return yc, nil
}

// Rate returns the interpolated spot rate at t years.
//
// Outside the observed range the boundary polynomial piece is extended
// (natural cubic extrapolation, not clamped). Use InRange to flag it.
func (yc *YieldCurve) Rate(t float64) float64 {
	n := len(yc.maturities)
	switch {
	case t < yc.maturities[0]:
		return yc.extend(0, 1, t)
	case t > yc.maturities[n-1]:
		return yc.extend(n-2, n-1, t)
	}
	return yc.spline.Predict(t)
}

// DiscountFactor returns exp(-Rate(t)·t).
func (yc *YieldCurve) DiscountFactor(t float64) float64 {
	return DiscountFactor(yc, t)
}

// extend evaluates the cubic of segment [i, j] at t via its Hermite form,
// which is exactly the spline piece continued past the node.
func (yc *YieldCurve) extend(i, j int, t float64) float64 {
	x0, x1 := yc.maturities[i], yc.maturities[j]
	h := x1 - x0
	s := (t - x0) / h
	s2 := s * s
	s3 := s2 * s

	h00 := 2*s3 - 3*s2 + 1
	h10 := s3 - 2*s2 + s
	h01 := -2*s3 + 3*s2
	h11 := s3 - s2

	return h00*yc.yields[i] + h10*h*yc.slopes[i] + h01*yc.yields[j] + h11*h*yc.slopes[j]
}

// InRange reports whether t lies inside the observed maturity range.
func (yc *YieldCurve) InRange(t float64) bool {
	return t >= yc.maturities[0] && t <= yc.maturities[len(yc.maturities)-1]
}

// Range returns the shortest and longest observed maturities.
func (yc *YieldCurve) Range() (float64, float64) {
	return yc.maturities[0], yc.maturities[len(yc.maturities)-1]
}

// Points returns a copy of the sorted curve nodes.
func (yc *YieldCurve) Points() []Point {
	out := make([]Point, len(yc.maturities))
	for i := range yc.maturities {
		out[i] = Point{Maturity: yc.maturities[i], Yield: yc.yields[i]}
	}
	return out
}
