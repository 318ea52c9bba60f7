package bond

import (
	"fmt"
	"math"

	"github.com/wonny/bondlab/internal/curve"
)

// PresentValue discounts cashflows on c: Σ amount · DF(time).
func PresentValue(cfs []Cashflow, c curve.Curve) float64 {
	pv := 0.0
	for _, cf := range cfs {
		pv += cf.Amount * c.DiscountFactor(cf.Time)
	}
	return pv
}

// Price returns the present value of the bond on curve c.
func Price(b Bond, c curve.Curve) (float64, error) {
	cfs, err := b.Cashflows()
	if err != nil {
		return 0, err
	}
	return PresentValue(cfs, c), nil
}

// PriceAtYield prices the bond at a flat continuously-compounded yield.
func PriceAtYield(b Bond, y float64) (float64, error) {
	cfs, err := b.Cashflows()
	if err != nil {
		return 0, err
	}
	return priceAtYield(cfs, y), nil
}

func priceAtYield(cfs []Cashflow, y float64) float64 {
	p := 0.0
	for _, cf := range cfs {
		p += cf.Amount * math.Exp(-y*cf.Time)
	}
	return p
}

// YieldToMaturity solves Σ cf·exp(-y·t) = marketPrice for a flat yield y
// in (1e-6, 0.5). Price is monotonically decreasing in y, so the bracket
// ends are checked before searching.
func YieldToMaturity(b Bond, marketPrice float64) (float64, error) {
	cfs, err := b.Cashflows()
	if err != nil {
		return 0, err
	}
	if !(marketPrice > 0) || math.IsInf(marketPrice, 0) {
		return 0, fmt.Errorf("%w: market price must be positive and finite, got %v", ErrNoSolutionFound, marketPrice)
	}

	f := func(y float64) float64 {
		return priceAtYield(cfs, y) - marketPrice
	}

	hiPrice := priceAtYield(cfs, yieldFloor)
	loPrice := priceAtYield(cfs, yieldCeiling)
	if marketPrice > hiPrice || marketPrice < loPrice {
		return 0, fmt.Errorf("%w: price %.6f outside achievable range [%.6f, %.6f] for yields in (%g, %g)",
			ErrNoSolutionFound, marketPrice, loPrice, hiPrice, yieldFloor, yieldCeiling)
	}

	y, _, err := brent(f, yieldFloor, yieldCeiling, yieldTolerance, yieldMaxIter)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNoSolutionFound, err)
	}
	return y, nil
}

// positivePrice guards every division by a bond price.
func positivePrice(price float64) error {
	if !(price > 0) || math.IsInf(price, 0) {
		return fmt.Errorf("%w: price %v is not positive and finite", ErrDegenerateBond, price)
	}
	return nil
}

// weightedMoment returns Σ t^k·cf·df / price together with the price.
func weightedMoment(b Bond, c curve.Curve, k float64) (float64, float64, error) {
	cfs, err := b.Cashflows()
	if err != nil {
		return 0, 0, err
	}

	price := 0.0
	moment := 0.0
	for _, cf := range cfs {
		v := cf.Amount * c.DiscountFactor(cf.Time)
		price += v
		moment += math.Pow(cf.Time, k) * v
	}
	if err := positivePrice(price); err != nil {
		return 0, 0, err
	}
	return moment / price, price, nil
}

// MacaulayDuration returns Σ t·cf·df / price using the full curve.
func MacaulayDuration(b Bond, c curve.Curve) (float64, error) {
	d, _, err := weightedMoment(b, c, 1)
	return d, err
}

// ModifiedDuration returns Macaulay / (1 + r) where r is the curve rate at
// the bond's maturity. This proxies the bond's own yield; it is kept for
// compatibility and differs from the textbook YTM-based definition.
func ModifiedDuration(b Bond, c curve.Curve) (float64, error) {
	mac, err := MacaulayDuration(b, c)
	if err != nil {
		return 0, err
	}
	denom := 1 + c.Rate(b.Maturity)
	if !(denom > 0) {
		return 0, fmt.Errorf("%w: 1 + rate at maturity is %v", ErrDegenerateBond, denom)
	}
	return mac / denom, nil
}

// Convexity returns Σ t²·cf·df / price.
func Convexity(b Bond, c curve.Curve) (float64, error) {
	cx, _, err := weightedMoment(b, c, 2)
	return cx, err
}

// KeyRateDuration bumps the curve by a Gaussian of shockBP at keyRate and
// returns -(P_shocked - P_base) / P_base / shock. One-sided difference;
// positive when the price falls as the key rate rises.
func KeyRateDuration(b Bond, c curve.Curve, keyRate, shockBP, width float64) (float64, error) {
	return bumpDuration(b, c, curve.NewLocalizedShock(c, keyRate, shockBP, width), shockBP)
}

// EffectiveDuration is the parallel-shift analogue of KeyRateDuration.
func EffectiveDuration(b Bond, c curve.Curve, shockBP float64) (float64, error) {
	return bumpDuration(b, c, curve.NewParallelShock(c, shockBP), shockBP)
}

func bumpDuration(b Bond, base, shocked curve.Curve, shockBP float64) (float64, error) {
	if shockBP == 0 || math.IsNaN(shockBP) {
		return 0, fmt.Errorf("%w: shock must be non-zero", ErrInvalidBond)
	}
	p0, err := Price(b, base)
	if err != nil {
		return 0, err
	}
	if err := positivePrice(p0); err != nil {
		return 0, err
	}
	p1, err := Price(b, shocked)
	if err != nil {
		return 0, err
	}
	return -(p1 - p0) / p0 / curve.BPToDecimal(shockBP), nil
}

// KeyRateExposure is one point of a key-rate duration profile.
type KeyRateExposure struct {
	KeyRate  float64 `json:"key_rate"`
	Duration float64 `json:"duration"`
}

// KeyRateProfile evaluates KeyRateDuration at each key rate.
func KeyRateProfile(b Bond, c curve.Curve, keyRates []float64, shockBP, width float64) ([]KeyRateExposure, error) {
	out := make([]KeyRateExposure, 0, len(keyRates))
	for _, k := range keyRates {
		d, err := KeyRateDuration(b, c, k, shockBP, width)
		if err != nil {
			return nil, fmt.Errorf("key rate %.4gY: %w", k, err)
		}
		out = append(out, KeyRateExposure{KeyRate: k, Duration: d})
	}
	return out, nil
}
