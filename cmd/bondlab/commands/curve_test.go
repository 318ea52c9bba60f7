package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMaturityList(t *testing.T) {
	t.Run("default is canonical", func(t *testing.T) {
		got, err := parseMaturityList("")
		require.NoError(t, err)
		assert.Len(t, got, 8)
		assert.InDelta(t, 1.0/12, got[0], 1e-12)
		assert.Equal(t, 30.0, got[len(got)-1])
	})

	t.Run("years and labels mixed", func(t *testing.T) {
		got, err := parseMaturityList("10, 6M,2,10Y")
		require.NoError(t, err)
		assert.Equal(t, []float64{0.5, 2, 10}, got)
	})

	t.Run("invalid", func(t *testing.T) {
		for _, raw := range []string{"abc", "-1", "0", " , "} {
			_, err := parseMaturityList(raw)
			assert.Error(t, err, raw)
		}
	})
}
