package hedge

import (
	"fmt"
	"math"

	"github.com/wonny/bondlab/internal/curve"
)

// KeyRateDuration returns -(PV_s - PV_0) / PV_0 / shock for a Gaussian bump
// of shockBP at keyRate.
func (s *Schedule) KeyRateDuration(c curve.Curve, keyRate, shockBP, width float64) (float64, error) {
	if shockBP == 0 || math.IsNaN(shockBP) {
		return 0, fmt.Errorf("%w: shock must be non-zero", ErrInvalidLiability)
	}
	pv0 := s.PV(c)
	if pv0 == 0 || math.IsNaN(pv0) || math.IsInf(pv0, 0) {
		return 0, fmt.Errorf("%w: base present value is %v", ErrInvalidLiability, pv0)
	}
	pv1 := s.PV(curve.NewLocalizedShock(c, keyRate, shockBP, width))
	return -(pv1 - pv0) / pv0 / curve.BPToDecimal(shockBP), nil
}

// Attribution compares the actual PV change under a key-rate shock with the
// first-order estimate -PV₀·KRD·shock, where KRD is measured with a 1bp bump.
type Attribution struct {
	KeyRate         float64 `json:"key_rate"`
	ShockBP         float64 `json:"shock_bp"`
	Width           float64 `json:"width"`
	BasePV          float64 `json:"base_pv"`
	ShockedPV       float64 `json:"shocked_pv"`
	KeyRateDuration float64 `json:"key_rate_duration"`
	ActualChange    float64 `json:"actual_change"`
	Predicted       float64 `json:"predicted_change"`
	RelativeError   float64 `json:"relative_error"` // |actual - predicted| / |actual|
}

// Attribute explains the PV change of a shockBP bump at keyRate.
func (s *Schedule) Attribute(c curve.Curve, keyRate, shockBP, width float64) (*Attribution, error) {
	if shockBP == 0 || math.IsNaN(shockBP) {
		return nil, fmt.Errorf("%w: shock must be non-zero", ErrInvalidLiability)
	}
	krd, err := s.KeyRateDuration(c, keyRate, 1, width)
	if err != nil {
		return nil, err
	}

	shocked := curve.NewLocalizedShock(c, keyRate, shockBP, width)
	pv0 := s.PV(c)
	pv1 := s.PV(shocked)
	actual := pv1 - pv0
	predicted := -pv0 * krd * curve.BPToDecimal(shockBP)

	rel := 0.0
	if actual != 0 {
		rel = math.Abs(actual-predicted) / math.Abs(actual)
	}

	return &Attribution{
		KeyRate:         keyRate,
		ShockBP:         shockBP,
		Width:           shocked.Width(),
		BasePV:          pv0,
		ShockedPV:       pv1,
		KeyRateDuration: krd,
		ActualChange:    actual,
		Predicted:       predicted,
		RelativeError:   rel,
	}, nil
}

// AttributeAll runs Attribute at every liability time.
func (s *Schedule) AttributeAll(c curve.Curve, shockBP, width float64) ([]Attribution, error) {
	times := s.Times()
	out := make([]Attribution, 0, len(times))
	for _, t := range times {
		a, err := s.Attribute(c, t, shockBP, width)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, nil
}
