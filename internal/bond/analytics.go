package bond

import (
	"errors"

	"github.com/wonny/bondlab/internal/curve"
)

// =============================================================================
// Analytics bundle
// =============================================================================

// AnalyzeOptions controls the shocked measures computed by Analyze.
type AnalyzeOptions struct {
	ShockBP      float64   // parallel and key-rate bump size
	KeyRates     []float64 // maturities for the key-rate profile (may be empty)
	KeyRateWidth float64   // <= 0 → curve.DefaultKeyRateWidth
}

// DefaultAnalyzeOptions returns a 1bp bump over the canonical maturities.
func DefaultAnalyzeOptions() AnalyzeOptions {
	keys := make([]float64, 0, len(curve.MaturityYears))
	for _, label := range curve.Labels() {
		keys = append(keys, curve.MaturityYears[label])
	}
	return AnalyzeOptions{
		ShockBP:      1,
		KeyRates:     keys,
		KeyRateWidth: curve.DefaultKeyRateWidth,
	}
}

// Analytics holds every measure for one bond on one curve.
type Analytics struct {
	Bond              Bond              `json:"bond"`
	Price             float64           `json:"price"`
	YieldToMaturity   *float64          `json:"yield_to_maturity,omitempty"` // nil when the solve fails
	YieldError        string            `json:"yield_error,omitempty"`
	MacaulayDuration  float64           `json:"macaulay_duration"`
	ModifiedDuration  float64           `json:"modified_duration"`
	Convexity         float64           `json:"convexity"`
	EffectiveDuration float64           `json:"effective_duration"`
	KeyRates          []KeyRateExposure `json:"key_rates,omitempty"`
	ScheduleResidual  float64           `json:"schedule_residual"`
	Cashflows         []Cashflow        `json:"cashflows"`
}

// Analyze computes price, yield, durations, convexity and the key-rate
// profile. The yield is solved from the model price; a price outside the
// solver bracket leaves YieldToMaturity nil and records the reason in
// YieldError instead of failing the other measures.
func Analyze(b Bond, c curve.Curve, opts AnalyzeOptions) (*Analytics, error) {
	cfs, err := b.Cashflows()
	if err != nil {
		return nil, err
	}

	price := PresentValue(cfs, c)
	if err := positivePrice(price); err != nil {
		return nil, err
	}

	a := &Analytics{
		Bond:             b,
		Price:            price,
		ScheduleResidual: b.ScheduleResidual(),
		Cashflows:        cfs,
	}

	ytm, err := YieldToMaturity(b, price)
	switch {
	case err == nil:
		a.YieldToMaturity = &ytm
	case errors.Is(err, ErrNoSolutionFound):
		a.YieldError = err.Error()
	default:
		return nil, err
	}

	mac, err := MacaulayDuration(b, c)
	if err != nil {
		return nil, err
	}
	mod, err := ModifiedDuration(b, c)
	if err != nil {
		return nil, err
	}
	cx, err := Convexity(b, c)
	if err != nil {
		return nil, err
	}

	shock := opts.ShockBP
	if shock == 0 {
		shock = 1
	}
	eff, err := EffectiveDuration(b, c, shock)
	if err != nil {
		return nil, err
	}

	var krd []KeyRateExposure
	if len(opts.KeyRates) > 0 {
		krd, err = KeyRateProfile(b, c, opts.KeyRates, shock, opts.KeyRateWidth)
		if err != nil {
			return nil, err
		}
	}

	a.MacaulayDuration = mac
	a.ModifiedDuration = mod
	a.Convexity = cx
	a.EffectiveDuration = eff
	a.KeyRates = krd
	return a, nil
}
