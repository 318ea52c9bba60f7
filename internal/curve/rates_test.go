package curve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForwardRate_FlatCurve(t *testing.T) {
	c := NewFlat(0.045)

	f, err := ForwardRate(c, 2, 5)
	require.NoError(t, err)
	assert.InDelta(t, 0.045, f, 1e-12)
	assert.InDelta(t, 0.045, ZeroRate(c, 7), 1e-15)
}

func TestForwardRate_UpwardCurve(t *testing.T) {
	c, err := NewYieldCurve(map[string]float64{"1Y": 0.03, "2Y": 0.04})
	require.NoError(t, err)

	f, err := ForwardRate(c, 1, 2)
	require.NoError(t, err)
	// (0.04·2 - 0.03·1) / 1
	assert.InDelta(t, 0.05, f, 1e-12)
}

func TestForwardRate_InvalidPeriod(t *testing.T) {
	_, err := ForwardRate(NewFlat(0.04), 5, 5)
	assert.ErrorIs(t, err, ErrInvalidCurveInput)

	_, err = ForwardRate(NewFlat(0.04), 5, 2)
	assert.ErrorIs(t, err, ErrInvalidCurveInput)
}

func TestInstantaneousForwards(t *testing.T) {
	flat := InstantaneousForwards(NewFlat(0.05), []float64{1, 5, 10})
	require.Len(t, flat, 3)
	for _, f := range flat {
		assert.InDelta(t, 0.05, f, 1e-9)
	}

	// r(t) = 0.02 + 0.002t  →  f(t) = d(r·t)/dt = 0.02 + 0.004t
	c, err := NewFromPoints([]Point{{Maturity: 1, Yield: 0.022}, {Maturity: 10, Yield: 0.04}})
	require.NoError(t, err)
	fwd := InstantaneousForwards(c, []float64{3, 6})
	assert.InDelta(t, 0.032, fwd[0], 1e-8)
	assert.InDelta(t, 0.044, fwd[1], 1e-8)
}
