package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/bondlab/internal/api/handlers"
	"github.com/wonny/bondlab/internal/curve"
	"github.com/wonny/bondlab/internal/marketdata"
	"github.com/wonny/bondlab/pkg/config"
	"github.com/wonny/bondlab/pkg/logger"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	yields := make(map[string]float64)
	for _, l := range curve.Labels() {
		yields[l] = 0.05
	}
	yc, err := curve.NewYieldCurve(yields)
	require.NoError(t, err)

	snap := &marketdata.Snapshot{
		Curve:  yc,
		AsOf:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Source: config.CurveSourceFlat,
	}
	defaults := config.AnalyticsConfig{KeyRateWidth: 0.5, LiabilityShockWidth: 1.0, HedgeShockBP: 100}
	h := handlers.NewAnalyticsHandler(marketdata.NewStore(snap), defaults, logger.Nop())
	return NewRouter(h, logger.Nop())
}

func do(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
}

func TestGetCurve(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/curve", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp handlers.CurveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2024-01-02", resp.AsOf)
	assert.Len(t, resp.Nodes, 8)
	assert.Len(t, resp.Points, 8)
	assert.Len(t, resp.Forwards, 7)
	assert.InDelta(t, 0.05, resp.Forwards[3].Rate, 1e-9)

	rec = do(t, router, http.MethodGet, "/api/curve?maturities=40,1,10Y", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Points, 3)
	assert.Equal(t, 1.0, resp.Points[0].Maturity)
	assert.False(t, resp.Points[1].Extrapolated)
	assert.True(t, resp.Points[2].Extrapolated)

	rec = do(t, router, http.MethodGet, "/api/curve?maturities=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeBond(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/bonds/analyze", map[string]interface{}{
		"bond":     map[string]interface{}{"face_value": 100, "coupon_rate": 0, "maturity": 10, "frequency": 2},
		"shock_bp": 100,
		"curve":    map[string]interface{}{"flat_rate": 0.05},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp handlers.BondResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.InDelta(t, 60.65, resp.Price, 0.01)
	assert.InDelta(t, 10.0, resp.MacaulayDuration, 1e-9)
	require.NotNil(t, resp.YieldToMaturity)
	assert.InDelta(t, 0.05, *resp.YieldToMaturity, 1e-9)
	assert.Len(t, resp.KeyRates, 8)
	assert.Less(t, resp.PriceChange, 0.0)
}

func TestAnalyzeBond_Errors(t *testing.T) {
	router := newTestRouter(t)
	valid := map[string]interface{}{"face_value": 100, "coupon_rate": 0.05, "maturity": 10, "frequency": 2}

	tests := []struct {
		name string
		body interface{}
		want int
	}{
		{"malformed json", "{", http.StatusBadRequest},
		{"unknown field", map[string]interface{}{"bond": valid, "oops": 1}, http.StatusBadRequest},
		{"invalid bond", map[string]interface{}{"bond": map[string]interface{}{"face_value": -1}}, http.StatusBadRequest},
		{"shock out of range", map[string]interface{}{"bond": valid, "shock_bp": 5000}, http.StatusBadRequest},
		{"unknown key rate", map[string]interface{}{"bond": valid, "key_rates": []string{"4Y"}}, http.StatusBadRequest},
		{"bad curve", map[string]interface{}{"bond": valid, "curve": map[string]interface{}{"yields": map[string]float64{"1Y": 0.05}}}, http.StatusBadRequest},
		{"unreachable market price", map[string]interface{}{"bond": valid, "market_price": 1000}, http.StatusUnprocessableEntity},
		{"shock below range", map[string]interface{}{"bond": valid, "shock_bp": -1001}, http.StatusBadRequest},
		{"curve yields and flat rate", map[string]interface{}{"bond": valid, "curve": map[string]interface{}{
			"yields":    map[string]float64{"1Y": 0.04, "10Y": 0.05},
			"flat_rate": 0.05,
		}}, http.StatusBadRequest},
		{"curve unknown label", map[string]interface{}{"bond": valid, "curve": map[string]interface{}{
			"yields": map[string]float64{"1Y": 0.04, "4Y": 0.05},
		}}, http.StatusBadRequest},
		{"non-finite flat rate", `{"bond":{"face_value":100,"coupon_rate":0.05,"maturity":10,"frequency":2},"curve":{"flat_rate":1e999}}`, http.StatusBadRequest},
		{"zero price", map[string]interface{}{"bond": valid, "curve": map[string]interface{}{"flat_rate": 1e6}}, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, "/api/bonds/analyze", tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decode(t, rec)["error"])
		})
	}
}

func TestAnalyzeBond_ShockBounds(t *testing.T) {
	router := newTestRouter(t)
	valid := map[string]interface{}{"face_value": 100, "coupon_rate": 0.05, "maturity": 10, "frequency": 2}

	for _, bp := range []float64{-1000, 1000} {
		rec := do(t, router, http.MethodPost, "/api/bonds/analyze", map[string]interface{}{"bond": valid, "shock_bp": bp})
		assert.Equal(t, http.StatusOK, rec.Code, "shock %v", bp)
	}
}

func TestAnalyzeBond_YieldUnavailable(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodPost, "/api/bonds/analyze", map[string]interface{}{
		"bond":  map[string]interface{}{"face_value": 100, "coupon_rate": 0.04, "maturity": 10, "frequency": 2},
		"curve": map[string]interface{}{"flat_rate": -0.002},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp handlers.BondResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Nil(t, resp.YieldToMaturity)
	assert.NotEmpty(t, resp.YieldError)
	assert.Greater(t, resp.Price, 100.0)
	assert.Greater(t, resp.ModifiedDuration, 0.0)
}

func TestAnalyzePortfolio(t *testing.T) {
	router := newTestRouter(t)
	zero10 := map[string]interface{}{"face_value": 100, "coupon_rate": 0, "maturity": 10, "frequency": 1}

	rec := do(t, router, http.MethodPost, "/api/portfolio/analyze", map[string]interface{}{
		"holdings": []interface{}{
			map[string]interface{}{"bond": zero10, "weight": 2},
		},
		"normalize": true,
		"shock_bp":  100,
		"horizon":   10,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp handlers.PortfolioResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1.0, resp.Holdings[0].Weight, "normalized")
	assert.InDelta(t, 10.0, resp.Duration, 1e-9)
	require.NotNil(t, resp.FutureValue)
	assert.InDelta(t, 100.0, *resp.FutureValue, 1e-9)
	require.NotNil(t, resp.Shock)
	assert.Less(t, resp.Shock.PnL, 0.0)
	assert.Len(t, resp.Profile, 41)
}

func TestAnalyzePortfolio_Degenerate(t *testing.T) {
	zero5 := map[string]interface{}{"face_value": 100, "coupon_rate": 0, "maturity": 5, "frequency": 1}
	rec := do(t, newTestRouter(t), http.MethodPost, "/api/portfolio/analyze", map[string]interface{}{
		"holdings": []interface{}{
			map[string]interface{}{"bond": zero5, "weight": 1},
			map[string]interface{}{"bond": zero5, "weight": -1},
		},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, newTestRouter(t), http.MethodPost, "/api/portfolio/analyze", map[string]interface{}{
		"holdings": []interface{}{},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOptimizeHedge(t *testing.T) {
	router := newTestRouter(t)
	zero5 := map[string]interface{}{"face_value": 100, "coupon_rate": 0, "maturity": 5, "frequency": 1}

	rec := do(t, router, http.MethodPost, "/api/hedge/optimize", map[string]interface{}{
		"instruments": []interface{}{zero5},
		"liabilities": []interface{}{map[string]interface{}{"time": 5, "amount": 100}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp handlers.HedgeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Weights, 1)
	assert.InDelta(t, 1.0, resp.Weights[0], 1e-6)
	assert.InDelta(t, 77.88, resp.Cost, 0.01)
	assert.NotEmpty(t, resp.RunID)
	assert.Len(t, resp.Coverage, 3)
	assert.Len(t, resp.Attribution, 1)
	assert.Equal(t, 5.0, resp.ProfileAt)
	assert.Len(t, resp.Profile, 21)
}

func TestOptimizeHedge_Errors(t *testing.T) {
	router := newTestRouter(t)
	zero5 := map[string]interface{}{"face_value": 100, "coupon_rate": 0, "maturity": 5, "frequency": 1}
	liab := []interface{}{map[string]interface{}{"time": 5, "amount": 100}}

	tests := []struct {
		name string
		body interface{}
		want int
	}{
		{"no instruments", map[string]interface{}{"liabilities": liab}, http.StatusUnprocessableEntity},
		{"cap too low", map[string]interface{}{"instruments": []interface{}{zero5}, "liabilities": liab, "max_weight": 0.5}, http.StatusUnprocessableEntity},
		{"bad liability", map[string]interface{}{"instruments": []interface{}{zero5}, "liabilities": []interface{}{map[string]interface{}{"time": -1, "amount": 100}}}, http.StatusBadRequest},
		{"shock out of range", map[string]interface{}{"instruments": []interface{}{zero5}, "liabilities": liab, "shock_bp": 2000}, http.StatusBadRequest},
		{"bad key rate", map[string]interface{}{"instruments": []interface{}{zero5}, "liabilities": liab, "key_rate": "4Y"}, http.StatusBadRequest},
		{"negative liability", map[string]interface{}{"instruments": []interface{}{zero5}, "liabilities": []interface{}{map[string]interface{}{"time": 5, "amount": -100}}}, http.StatusBadRequest},
		{"curve yields and flat rate", map[string]interface{}{"instruments": []interface{}{zero5}, "liabilities": liab, "curve": map[string]interface{}{
			"yields":    map[string]float64{"1Y": 0.04, "10Y": 0.05},
			"flat_rate": 0.05,
		}}, http.StatusBadRequest},
		{"curve too few points", map[string]interface{}{"instruments": []interface{}{zero5}, "liabilities": liab, "curve": map[string]interface{}{
			"yields": map[string]float64{"1Y": 0.04},
		}}, http.StatusBadRequest},
		{"malformed json", "{", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, "/api/hedge/optimize", tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodGet, "/api/hedge/optimize", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
