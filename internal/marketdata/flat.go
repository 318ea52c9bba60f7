package marketdata

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/wonny/bondlab/internal/curve"
)

// FlatProvider returns one row with the same decimal rate at every
// canonical maturity.
type FlatProvider struct {
	Rate float64
	Now  func() time.Time
}

// NewFlatProvider creates a flat provider.
func NewFlatProvider(rate float64) *FlatProvider {
	return &FlatProvider{Rate: rate, Now: time.Now}
}

// Fetch implements Provider.
func (p *FlatProvider) Fetch(_ context.Context, _, _ time.Time) (*Table, error) {
	if math.IsNaN(p.Rate) || math.IsInf(p.Rate, 0) || p.Rate < 0 {
		return nil, fmt.Errorf("%w: flat rate %v", ErrMalformedData, p.Rate)
	}

	now := time.Now
	if p.Now != nil {
		now = p.Now
	}

	labels := curve.Labels()
	row := Row{
		Date:   now().UTC().Truncate(24 * time.Hour),
		Yields: make(map[string]float64, len(labels)),
	}
	for _, l := range labels {
		row.Yields[l] = p.Rate
	}
	return &Table{Labels: labels, Rows: []Row{row}}, nil
}
