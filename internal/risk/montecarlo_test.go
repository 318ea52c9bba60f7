package risk

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/bondlab/internal/bond"
	"github.com/wonny/bondlab/internal/curve"
	"github.com/wonny/bondlab/internal/portfolio"
)

func zeroBookPortfolio(t *testing.T) *portfolio.Portfolio {
	t.Helper()
	p, err := portfolio.New([]portfolio.Holding{
		{Bond: bond.Bond{FaceValue: 100, CouponRate: 0, Maturity: 10, Frequency: 1}, Weight: 1},
	})
	require.NoError(t, err)
	return p
}

func TestSimulationConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultSimulationConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*SimulationConfig)
	}{
		{"unknown method", func(c *SimulationConfig) { c.Method = "garch" }},
		{"no simulations", func(c *SimulationConfig) { c.NumSimulations = 0 }},
		{"no holding days", func(c *SimulationConfig) { c.HoldingDays = 0 }},
		{"zero vol", func(c *SimulationConfig) { c.DailyVolBP = 0 }},
		{"bad confidence", func(c *SimulationConfig) { c.ConfidenceLevels = []float64{1.0} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultSimulationConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}

	hist := DefaultSimulationConfig()
	hist.Method = MethodHistoricalBootstrap
	hist.DailyVolBP = 0
	assert.NoError(t, hist.Validate(), "vol unused by bootstrap")
}

func TestSimulator_Parametric(t *testing.T) {
	cfg := DefaultSimulationConfig()
	cfg.Seed = 42
	cfg.NumSimulations = 20000

	p := zeroBookPortfolio(t)
	base := curve.NewFlat(0.05)

	res, err := NewSimulator(cfg).Simulate(context.Background(), p, base, nil)
	require.NoError(t, err)

	_, err = uuid.Parse(res.RunID)
	assert.NoError(t, err)
	assert.InDelta(t, 100*math.Exp(-0.5), res.BaseValue, 1e-9)

	// 7bp daily over 10 days
	assert.InDelta(t, 7*math.Sqrt(10), res.ShockStdBP, 0.5)

	require.Len(t, res.VaR, 2)
	require.Len(t, res.Parametric, 2)
	for i := range res.VaR {
		assert.Greater(t, res.VaR[i].VaR, 0.0)
		assert.GreaterOrEqual(t, res.VaR[i].CVaR, res.VaR[i].VaR)
		// full revaluation agrees with the duration approximation to within convexity
		assert.InEpsilon(t, res.Parametric[i].VaR, res.VaR[i].VaR, 0.1)
		assert.InEpsilon(t, res.Parametric[i].CVaR, res.VaR[i].CVaR, 0.15)
	}
	assert.Greater(t, res.VaR[1].VaR, res.VaR[0].VaR)

	// mean P&L is a small convexity gain
	assert.InDelta(t, 0, res.MeanPnL, 0.1)
	assert.Less(t, res.Percentiles[5], 0.0)
	assert.Greater(t, res.Percentiles[95], 0.0)
}

func TestSimulator_Reproducible(t *testing.T) {
	cfg := DefaultSimulationConfig()
	cfg.Seed = 7
	cfg.NumSimulations = 500

	p := zeroBookPortfolio(t)
	base := curve.NewFlat(0.04)

	a, err := NewSimulator(cfg).Simulate(context.Background(), p, base, nil)
	require.NoError(t, err)
	b, err := NewSimulator(cfg).Simulate(context.Background(), p, base, nil)
	require.NoError(t, err)

	assert.Equal(t, a.VaR, b.VaR)
	assert.Equal(t, a.Percentiles, b.Percentiles)
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestSimulator_Bootstrap(t *testing.T) {
	cfg := DefaultSimulationConfig()
	cfg.Method = MethodHistoricalBootstrap
	cfg.Seed = 1
	cfg.NumSimulations = 2000
	cfg.HoldingDays = 1

	p := zeroBookPortfolio(t)
	base := curve.NewFlat(0.05)

	t.Run("insufficient history", func(t *testing.T) {
		_, err := NewSimulator(cfg).Simulate(context.Background(), p, base, []float64{1, 2})
		assert.ErrorIs(t, err, ErrInsufficientData)
	})

	t.Run("only rising rates lose", func(t *testing.T) {
		changes := make([]float64, 40)
		for i := range changes {
			changes[i] = 5 // every day +5bp
		}
		res, err := NewSimulator(cfg).Simulate(context.Background(), p, base, changes)
		require.NoError(t, err)

		want := res.BaseValue - 100*math.Exp(-(0.05+0.0005)*10)
		assert.InDelta(t, want, res.VaR[0].VaR, 1e-9)
		assert.InDelta(t, want, res.VaR[1].CVaR, 1e-9)
		assert.InDelta(t, -want, res.Percentiles[50], 1e-9)
		assert.InDelta(t, 0, res.ShockStdBP, 1e-12)
	})
}

func TestSimulator_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := DefaultSimulationConfig()
	cfg.Seed = 3
	_, err := NewSimulator(cfg).Simulate(ctx, zeroBookPortfolio(t), curve.NewFlat(0.05), nil)
	assert.ErrorIs(t, err, context.Canceled)
}
