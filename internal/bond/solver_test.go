package bond

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrent(t *testing.T) {
	tests := []struct {
		name string
		f    func(float64) float64
		a, b float64
		want float64
	}{
		{"sqrt2", func(x float64) float64 { return x*x - 2 }, 0, 2, math.Sqrt2},
		{"cubic", func(x float64) float64 { return x*x*x - x - 1 }, 1, 2, 1.324717957244746},
		{"cos", math.Cos, 0, 3, math.Pi / 2},
		{"root at bracket end", func(x float64) float64 { return x - 1 }, 0, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, iter, err := brent(tt.f, tt.a, tt.b, 1e-12, 100)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, x, 1e-10)
			assert.LessOrEqual(t, iter, 100)
		})
	}
}

func TestBrent_NotBracketed(t *testing.T) {
	_, _, err := brent(func(x float64) float64 { return x*x + 1 }, -1, 1, 1e-12, 100)
	assert.ErrorIs(t, err, errNotBracketed)
}
