package scenarioconfig

import (
	"errors"
	"fmt"
	"math"

	"github.com/wonny/bondlab/internal/curve"
)

// MaxShockBP bounds every configured shock.
const MaxShockBP = 1000

// ValidationError 검증 실패
type ValidationError struct {
	Field   string
	Message string
}

// Error implements error
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// Validate checks all required constraints
func Validate(cfg *Config) error {
	// === Meta ===
	if cfg.Meta.ScenarioID == "" {
		return ValidationError{"meta.scenario_id", "required"}
	}

	// === Curve ===
	if cfg.Curve.FlatRate != nil && len(cfg.Curve.Yields) > 0 {
		return ValidationError{"curve", "set either yields or flat_rate, not both"}
	}
	if cfg.Curve.FlatRate != nil && !finiteNonNegative(*cfg.Curve.FlatRate) {
		return ValidationError{"curve.flat_rate", "must be a finite decimal >= 0"}
	}
	if len(cfg.Curve.Yields) > 0 {
		if len(cfg.Curve.Yields) < 2 {
			return ValidationError{"curve.yields", "need at least 2 maturities"}
		}
		for label, y := range cfg.Curve.Yields {
			if _, err := curve.LabelYears(label); err != nil {
				return ValidationError{"curve.yields." + label, "unknown maturity label"}
			}
			if !finiteNonNegative(y) {
				return ValidationError{"curve.yields." + label, "must be a finite decimal >= 0"}
			}
		}
	}

	// === Analytics ===
	if err := validateShock("analytics.shock_bp", cfg.Analytics.ShockBP); err != nil {
		return err
	}
	if cfg.Analytics.KeyRate != "" {
		if _, err := curve.LabelYears(cfg.Analytics.KeyRate); err != nil {
			return ValidationError{"analytics.key_rate", "must be one of the canonical maturities"}
		}
	}
	if cfg.Analytics.KeyRateWidth < 0 || math.IsNaN(cfg.Analytics.KeyRateWidth) {
		return ValidationError{"analytics.key_rate_width", "must be >= 0"}
	}
	if cfg.Analytics.Horizon < 0 || math.IsNaN(cfg.Analytics.Horizon) {
		return ValidationError{"analytics.horizon", "must be >= 0"}
	}

	// === Portfolio ===
	for i, h := range cfg.Portfolio.Holdings {
		field := fmt.Sprintf("portfolio.holdings[%d]", i)
		if err := h.Bond().Validate(); err != nil {
			return ValidationError{field, err.Error()}
		}
		if math.IsNaN(h.Weight) || math.IsInf(h.Weight, 0) {
			return ValidationError{field + ".weight", "must be finite"}
		}
	}

	// === Hedge ===
	if err := validateShock("hedge.shock_bp", cfg.Hedge.ShockBP); err != nil {
		return err
	}
	if cfg.Hedge.Width < 0 || math.IsNaN(cfg.Hedge.Width) {
		return ValidationError{"hedge.width", "must be >= 0"}
	}
	if cfg.Hedge.MaxWeight < 0 || math.IsNaN(cfg.Hedge.MaxWeight) {
		return ValidationError{"hedge.max_weight", "must be >= 0"}
	}
	for i, b := range cfg.Hedge.Instruments {
		if err := b.Bond().Validate(); err != nil {
			return ValidationError{fmt.Sprintf("hedge.instruments[%d]", i), err.Error()}
		}
	}
	for i, l := range cfg.Hedge.Liabilities {
		if !(l.Time > 0) || math.IsInf(l.Time, 0) {
			return ValidationError{fmt.Sprintf("hedge.liabilities[%d].time", i), "must be > 0"}
		}
		if !(l.Amount >= 0) || math.IsInf(l.Amount, 0) {
			return ValidationError{fmt.Sprintf("hedge.liabilities[%d].amount", i), "must be finite and >= 0"}
		}
	}
	if len(cfg.Hedge.Instruments) > 0 && len(cfg.Hedge.Liabilities) == 0 {
		return ValidationError{"hedge.liabilities", "required when instruments are set"}
	}

	if !cfg.HasPortfolio() && !cfg.HasHedge() {
		return ValidationError{"portfolio|hedge", "scenario defines neither holdings nor liabilities"}
	}

	return nil
}

func validateShock(field string, bp int) error {
	if bp < -MaxShockBP || bp > MaxShockBP {
		return ValidationError{field, fmt.Sprintf("must be within ±%d", MaxShockBP)}
	}
	return nil
}

func finiteNonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}
