// Package bond generates deterministic bond cashflow schedules and prices
// them against any curve.Curve: present value, yield to maturity, duration,
// convexity and key-rate duration.
package bond

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidBond is returned for bond definitions that cannot produce a schedule.
	ErrInvalidBond = errors.New("invalid bond")
	// ErrNoSolutionFound is returned when yield-to-maturity root finding fails.
	ErrNoSolutionFound = errors.New("no solution found")
	// ErrDegenerateBond is returned when a bond's price base is zero or ill-signed.
	ErrDegenerateBond = errors.New("degenerate bond")
)

// Bond is a plain fixed-coupon bond.
type Bond struct {
	FaceValue  float64 `json:"face_value"`  // > 0
	CouponRate float64 `json:"coupon_rate"` // decimal annual rate, >= 0
	Maturity   float64 `json:"maturity"`    // years, > 0
	Frequency  int     `json:"frequency"`   // payments per year, >= 1
}

// Cashflow is one scheduled payment.
type Cashflow struct {
	Time   float64 `json:"time"`   // years
	Amount float64 `json:"amount"` // currency units
}

// New validates and returns a bond.
func New(faceValue, couponRate, maturity float64, frequency int) (Bond, error) {
	b := Bond{
		FaceValue:  faceValue,
		CouponRate: couponRate,
		Maturity:   maturity,
		Frequency:  frequency,
	}
	if err := b.Validate(); err != nil {
		return Bond{}, err
	}
	return b, nil
}

// Validate checks the bond attributes.
func (b Bond) Validate() error {
	if !(b.FaceValue > 0) || math.IsInf(b.FaceValue, 0) {
		return fmt.Errorf("%w: face value must be > 0, got %v", ErrInvalidBond, b.FaceValue)
	}
	if !(b.CouponRate >= 0) || math.IsInf(b.CouponRate, 0) {
		return fmt.Errorf("%w: coupon rate must be >= 0, got %v", ErrInvalidBond, b.CouponRate)
	}
	if !(b.Maturity > 0) || math.IsInf(b.Maturity, 0) {
		return fmt.Errorf("%w: maturity must be > 0, got %v", ErrInvalidBond, b.Maturity)
	}
	if b.Frequency < 1 {
		return fmt.Errorf("%w: frequency must be >= 1, got %d", ErrInvalidBond, b.Frequency)
	}
	if b.Periods() < 1 {
		return fmt.Errorf("%w: maturity %v with frequency %d yields no payment", ErrInvalidBond, b.Maturity, b.Frequency)
	}
	return nil
}

// Periods returns round(maturity × frequency).
func (b Bond) Periods() int {
	return int(math.Round(b.Maturity * float64(b.Frequency)))
}

// ScheduleResidual returns maturity×frequency minus the rounded period count.
// A non-zero residual means the schedule approximates the stated maturity.
func (b Bond) ScheduleResidual() float64 {
	return b.Maturity*float64(b.Frequency) - float64(b.Periods())
}

// Cashflows returns the payment schedule: n equally spaced coupons at
// t_i = i/frequency, the last one also repaying face value.
func (b Bond) Cashflows() ([]Cashflow, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	n := b.Periods()
	freq := float64(b.Frequency)
	coupon := b.FaceValue * b.CouponRate / freq

	cfs := make([]Cashflow, n)
	for i := 0; i < n; i++ {
		cfs[i] = Cashflow{Time: float64(i+1) / freq, Amount: coupon}
	}
	cfs[n-1].Amount += b.FaceValue

	return cfs, nil
}

// LastPaymentTime returns the time of the final cashflow.
func (b Bond) LastPaymentTime() float64 {
	return float64(b.Periods()) / float64(b.Frequency)
}

// FirstPaymentTime returns the time of the first cashflow.
func (b Bond) FirstPaymentTime() float64 {
	return 1.0 / float64(b.Frequency)
}
