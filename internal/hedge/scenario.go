package hedge

import (
	"fmt"

	"github.com/wonny/bondlab/internal/curve"
)

// Scenario is a labelled curve the hedge must cover.
type Scenario struct {
	Name    string      `json:"name"`
	Center  float64     `json:"center"`   // bump center in years (0 for base)
	ShockBP float64     `json:"shock_bp"` // signed bump size (0 for base)
	Curve   curve.Curve `json:"-"`
}

// Scenarios returns the base curve followed by a +shock and a -shock
// localized bump at every liability time. A zero shock yields the base only.
func Scenarios(base curve.Curve, times []float64, shockBP, width float64) []Scenario {
	out := []Scenario{{Name: "base", Curve: base}}
	if shockBP == 0 {
		return out
	}

	bp := shockBP
	if bp < 0 {
		bp = -bp
	}
	for _, t := range times {
		for _, s := range []float64{bp, -bp} {
			out = append(out, Scenario{
				Name:    fmt.Sprintf("%+gbp@%gY", s, t),
				Center:  t,
				ShockBP: s,
				Curve:   curve.NewLocalizedShock(base, t, s, width),
			})
		}
	}
	return out
}
