package scenarioconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/bondlab/internal/curve"
	"github.com/wonny/bondlab/internal/hedge"
)

const minimalYAML = `
meta:
  scenario_id: test
analytics:
  shock_bp: 50
portfolio:
  holdings:
    - face_value: 100
      coupon_rate: 0.05
      maturity: 5
      frequency: 2
      weight: 1
`

func TestLoad_ExampleScenario(t *testing.T) {
	path := "../../configs/scenarios/pension.yaml"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skip("scenario file not found")
	}

	cfg, data, err := Load(path)
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	assert.Equal(t, "pension_2024", cfg.Meta.ScenarioID)
	assert.True(t, cfg.HasPortfolio())
	assert.True(t, cfg.HasHedge())
	assert.Len(t, cfg.Holdings(), 2)
	assert.Equal(t, []string{"Zero 3Y", "UST 5Y", "UST 10Y"}, cfg.InstrumentNames())

	c, ok, err := cfg.BaseCurve()
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 0.0425, c.Rate(10), 1e-12)

	years, err := cfg.KeyRateYears()
	require.NoError(t, err)
	assert.Equal(t, 10.0, years)

	s, err := cfg.Schedule()
	require.NoError(t, err)
	assert.Equal(t, 10.0, s.LastTime())
}

func TestParse_Minimal(t *testing.T) {
	cfg, err := Parse([]byte(minimalYAML))
	require.NoError(t, err)

	_, ok, err := cfg.BaseCurve()
	require.NoError(t, err)
	assert.False(t, ok, "no override")
	assert.False(t, cfg.HasHedge())

	h := cfg.Holdings()
	require.Len(t, h, 1)
	assert.Equal(t, 5.0, h[0].Bond.Maturity)
	assert.Equal(t, 2, h[0].Bond.Frequency)
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte(minimalYAML + "\nextra: 1\n"))
	require.Error(t, err)
	assert.False(t, IsValidationError(err))
}

func TestValidate(t *testing.T) {
	flat := 0.05
	negative := -0.01

	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"missing id", func(c *Config) { c.Meta.ScenarioID = "" }, "meta.scenario_id"},
		{"both curve forms", func(c *Config) {
			c.Curve.FlatRate = &flat
			c.Curve.Yields = map[string]float64{"1Y": 0.05, "5Y": 0.05}
		}, "curve"},
		{"negative flat", func(c *Config) { c.Curve.FlatRate = &negative }, "curve.flat_rate"},
		{"single yield", func(c *Config) { c.Curve.Yields = map[string]float64{"1Y": 0.05} }, "curve.yields"},
		{"unknown label", func(c *Config) { c.Curve.Yields = map[string]float64{"1Y": 0.05, "7Y": 0.05} }, "curve.yields.7Y"},
		{"shock too large", func(c *Config) { c.Analytics.ShockBP = 1500 }, "analytics.shock_bp"},
		{"bad key rate", func(c *Config) { c.Analytics.KeyRate = "4Y" }, "analytics.key_rate"},
		{"bad holding", func(c *Config) { c.Portfolio.Holdings[0].Frequency = 0 }, "portfolio.holdings[0]"},
		{"hedge shock", func(c *Config) { c.Hedge.ShockBP = -2000 }, "hedge.shock_bp"},
		{"negative cap", func(c *Config) { c.Hedge.MaxWeight = -1 }, "hedge.max_weight"},
		{"liability time", func(c *Config) {
			c.Hedge.Liabilities = []LiabilitySpec{{Time: 0, Amount: 100}}
		}, "hedge.liabilities[0].time"},
		{"liability inflow", func(c *Config) {
			c.Hedge.Liabilities = []LiabilitySpec{{Time: 5, Amount: -100}}
		}, "hedge.liabilities[0].amount"},
		{"instruments without liabilities", func(c *Config) {
			c.Hedge.Instruments = []BondSpec{{FaceValue: 100, Maturity: 5, Frequency: 1}}
		}, "hedge.liabilities"},
		{"empty scenario", func(c *Config) { c.Portfolio.Holdings = nil }, "portfolio|hedge"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(minimalYAML))
			require.NoError(t, err)
			tt.modify(cfg)

			err = Validate(cfg)
			require.Error(t, err)
			var ve ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestHedgeConstraints(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, hedge.DefaultConstraints(), cfg.HedgeConstraints())

	cfg.Hedge = Hedge{ShockBP: 50, Width: 2, MaxWeight: 3}
	cons := cfg.HedgeConstraints()
	assert.Equal(t, 50.0, cons.ShockBP)
	assert.Equal(t, 2.0, cons.Width)
	assert.Equal(t, 3.0, cons.MaxWeight)
}

func TestBaseCurve_Flat(t *testing.T) {
	rate := 0.03
	cfg := &Config{Curve: Curve{FlatRate: &rate}}

	c, ok, err := cfg.BaseCurve()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0.03, c.Rate(12))
	assert.IsType(t, &curve.Flat{}, c)
}

func TestInstrumentNames_Default(t *testing.T) {
	cfg := &Config{Hedge: Hedge{Instruments: []BondSpec{{}, {Name: "x"}}}}
	assert.Equal(t, []string{"bond-1", "x"}, cfg.InstrumentNames())
}

func TestHash(t *testing.T) {
	cfg, err := Parse([]byte(minimalYAML))
	require.NoError(t, err)

	h1, err := Hash(cfg)
	require.NoError(t, err)
	assert.Len(t, h1, 64)

	h2, _ := Hash(cfg)
	assert.Equal(t, h1, h2, "hash is deterministic")

	cfg.Analytics.ShockBP = 25
	h3, _ := Hash(cfg)
	assert.NotEqual(t, h1, h3)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalYAML), 0o644))

	cfg, _, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.Meta.ScenarioID)

	_, _, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
