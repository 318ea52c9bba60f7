package hedge

import (
	"fmt"
	"math"

	"github.com/wonny/bondlab/internal/curve"
)

// Constraints defines hedge construction parameters
// ⭐ SSOT: 헤지 시나리오/제약조건은 여기서만
type Constraints struct {
	ShockBP   float64 // ± scenario bump at each liability time
	Width     float64 // Gaussian width of scenario bumps
	MaxWeight float64 // per-instrument upper bound on weight (0 = unbounded)
}

// DefaultConstraints returns ±100bp bumps of width 1.0 with no weight cap.
func DefaultConstraints() Constraints {
	return Constraints{
		ShockBP:   100,
		Width:     curve.DefaultLiabilityWidth,
		MaxWeight: 0,
	}
}

// Validate checks constraint ranges.
func (c Constraints) Validate() error {
	if math.IsNaN(c.ShockBP) || math.Abs(c.ShockBP) > 1000 {
		return fmt.Errorf("%w: shock must be within ±1000bp, got %v", ErrInvalidConstraints, c.ShockBP)
	}
	if math.IsNaN(c.Width) || math.IsInf(c.Width, 0) || c.Width < 0 {
		return fmt.Errorf("%w: width must be >= 0, got %v", ErrInvalidConstraints, c.Width)
	}
	if math.IsNaN(c.MaxWeight) || c.MaxWeight < 0 {
		return fmt.Errorf("%w: max weight must be >= 0, got %v", ErrInvalidConstraints, c.MaxWeight)
	}
	return nil
}

func (c Constraints) capped() bool {
	return c.MaxWeight > 0 && !math.IsInf(c.MaxWeight, 1)
}
