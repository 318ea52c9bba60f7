package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFmtNum(t *testing.T) {
	assert.Equal(t, "60.6531", fmtNum(60.65306597, 4))
	assert.Equal(t, "-1.50", fmtNum(-1.4999999, 2))
	assert.Equal(t, "0.00", fmtNum(0, 2))
}

func TestFmtPct(t *testing.T) {
	assert.Equal(t, "5.12%", fmtPct(0.0512, 2))
	assert.Equal(t, "-0.50%", fmtPct(-0.005, 2))
}

func TestFmtBP(t *testing.T) {
	tests := []struct {
		bp   float64
		want string
	}{
		{100, "+100bp"},
		{-25, "-25bp"},
		{0, "0bp"},
		{12.5, "+12.5bp"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, fmtBP(tt.bp))
	}
}

func TestFmtYears(t *testing.T) {
	assert.Equal(t, "0.5Y", fmtYears(0.5))
	assert.Equal(t, "10Y", fmtYears(10))
}

func TestFmtMoney(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0, "0.00"},
		{999.999, "1,000.00"},
		{1234.5, "1,234.50"},
		{1234567.891, "1,234,567.89"},
		{-98765.4, "-98,765.40"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, fmtMoney(tt.v), "value %v", tt.v)
	}
}
