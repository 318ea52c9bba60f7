package marketdata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/bondlab/internal/curve"
)

func testSnapshot(t *testing.T, rate float64, asOf time.Time) *Snapshot {
	t.Helper()
	yc, err := curve.NewYieldCurve(map[string]float64{"1Y": rate, "10Y": rate})
	require.NoError(t, err)
	return &Snapshot{Curve: yc, AsOf: asOf, Source: "test"}
}

func TestStore_Swap(t *testing.T) {
	first := testSnapshot(t, 0.04, day("2024-01-02"))
	second := testSnapshot(t, 0.05, day("2024-01-03"))

	s := NewStore(first)
	assert.Same(t, first, s.Current())

	prev, err := s.Swap(second)
	require.NoError(t, err)
	assert.Same(t, first, prev)
	assert.Same(t, second, s.Current())

	// previous snapshot is untouched
	assert.InDelta(t, 0.04, prev.Curve.Rate(5), 1e-12)
}

func TestStore_SwapRejectsEmpty(t *testing.T) {
	first := testSnapshot(t, 0.04, day("2024-01-02"))
	s := NewStore(first)

	_, err := s.Swap(nil)
	assert.Error(t, err)
	_, err = s.Swap(&Snapshot{Source: "empty"})
	assert.Error(t, err)
	assert.Same(t, first, s.Current())
}
