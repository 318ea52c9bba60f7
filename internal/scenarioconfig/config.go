package scenarioconfig

import (
	"github.com/wonny/bondlab/internal/bond"
	"github.com/wonny/bondlab/internal/curve"
	"github.com/wonny/bondlab/internal/hedge"
	"github.com/wonny/bondlab/internal/portfolio"
)

// Config is one analysis scenario: an optional curve override, analytics
// parameters, a bond portfolio and a liability hedge problem.
type Config struct {
	Meta      Meta      `yaml:"meta" json:"meta"`
	Curve     Curve     `yaml:"curve" json:"curve"`
	Analytics Analytics `yaml:"analytics" json:"analytics"`
	Portfolio Portfolio `yaml:"portfolio" json:"portfolio"`
	Hedge     Hedge     `yaml:"hedge" json:"hedge"`
}

// Meta 메타 정보
type Meta struct {
	ScenarioID  string `yaml:"scenario_id" json:"scenario_id"`
	Description string `yaml:"description" json:"description"`
}

// Curve overrides the configured curve source. Leave both fields empty to
// use the environment's source.
type Curve struct {
	Yields   map[string]float64 `yaml:"yields" json:"yields,omitempty"`       // label → decimal
	FlatRate *float64           `yaml:"flat_rate" json:"flat_rate,omitempty"` // decimal
}

// Analytics 분석 파라미터
type Analytics struct {
	ShockBP      int     `yaml:"shock_bp" json:"shock_bp"`
	KeyRate      string  `yaml:"key_rate" json:"key_rate"` // canonical label
	KeyRateWidth float64 `yaml:"key_rate_width" json:"key_rate_width"`
	Horizon      float64 `yaml:"horizon" json:"horizon"` // years, future value
}

// BondSpec is a named bond definition.
type BondSpec struct {
	Name       string  `yaml:"name" json:"name"`
	FaceValue  float64 `yaml:"face_value" json:"face_value"`
	CouponRate float64 `yaml:"coupon_rate" json:"coupon_rate"`
	Maturity   float64 `yaml:"maturity" json:"maturity"`
	Frequency  int     `yaml:"frequency" json:"frequency"`
}

// Bond converts the spec.
func (b BondSpec) Bond() bond.Bond {
	return bond.Bond{
		FaceValue:  b.FaceValue,
		CouponRate: b.CouponRate,
		Maturity:   b.Maturity,
		Frequency:  b.Frequency,
	}
}

// HoldingSpec is a weighted bond.
type HoldingSpec struct {
	BondSpec `yaml:",inline"`
	Weight   float64 `yaml:"weight" json:"weight"`
}

// Portfolio 채권 포트폴리오
type Portfolio struct {
	Holdings []HoldingSpec `yaml:"holdings" json:"holdings"`
}

// LiabilitySpec is one liability cashflow.
type LiabilitySpec struct {
	Time   float64 `yaml:"time" json:"time"`
	Amount float64 `yaml:"amount" json:"amount"`
}

// Hedge 부채 헤지 문제
type Hedge struct {
	ShockBP     int             `yaml:"shock_bp" json:"shock_bp"`
	Width       float64         `yaml:"width" json:"width"`
	MaxWeight   float64         `yaml:"max_weight" json:"max_weight"`
	Instruments []BondSpec      `yaml:"instruments" json:"instruments"`
	Liabilities []LiabilitySpec `yaml:"liabilities" json:"liabilities"`
}

// =============================================================================
// Conversions
// =============================================================================

// HasPortfolio reports whether the scenario defines holdings.
func (c *Config) HasPortfolio() bool { return len(c.Portfolio.Holdings) > 0 }

// HasHedge reports whether the scenario defines a hedge problem.
func (c *Config) HasHedge() bool { return len(c.Hedge.Liabilities) > 0 }

// Holdings returns the portfolio holdings.
func (c *Config) Holdings() []portfolio.Holding {
	out := make([]portfolio.Holding, len(c.Portfolio.Holdings))
	for i, h := range c.Portfolio.Holdings {
		out[i] = portfolio.Holding{Bond: h.Bond(), Weight: h.Weight}
	}
	return out
}

// Instruments returns the hedge instruments.
func (c *Config) Instruments() []bond.Bond {
	out := make([]bond.Bond, len(c.Hedge.Instruments))
	for i, b := range c.Hedge.Instruments {
		out[i] = b.Bond()
	}
	return out
}

// InstrumentNames returns instrument names, defaulting to their index.
func (c *Config) InstrumentNames() []string {
	out := make([]string, len(c.Hedge.Instruments))
	for i, b := range c.Hedge.Instruments {
		out[i] = b.Name
		if out[i] == "" {
			out[i] = defaultName(i)
		}
	}
	return out
}

// Schedule returns the validated liability schedule.
func (c *Config) Schedule() (*hedge.Schedule, error) {
	ls := make([]hedge.Liability, len(c.Hedge.Liabilities))
	for i, l := range c.Hedge.Liabilities {
		ls[i] = hedge.Liability{Time: l.Time, Amount: l.Amount}
	}
	return hedge.NewSchedule(ls)
}

// HedgeConstraints returns optimizer constraints; unset fields keep defaults.
func (c *Config) HedgeConstraints() hedge.Constraints {
	cons := hedge.DefaultConstraints()
	if c.Hedge.ShockBP != 0 {
		cons.ShockBP = float64(c.Hedge.ShockBP)
	}
	if c.Hedge.Width > 0 {
		cons.Width = c.Hedge.Width
	}
	cons.MaxWeight = c.Hedge.MaxWeight
	return cons
}

// BaseCurve returns the scenario's curve override, if any.
func (c *Config) BaseCurve() (curve.Curve, bool, error) {
	switch {
	case c.Curve.FlatRate != nil:
		return curve.NewFlat(*c.Curve.FlatRate), true, nil
	case len(c.Curve.Yields) > 0:
		yc, err := curve.NewYieldCurve(c.Curve.Yields)
		if err != nil {
			return nil, false, err
		}
		return yc, true, nil
	default:
		return nil, false, nil
	}
}

// KeyRateYears resolves analytics.key_rate.
func (c *Config) KeyRateYears() (float64, error) {
	return curve.LabelYears(c.Analytics.KeyRate)
}
