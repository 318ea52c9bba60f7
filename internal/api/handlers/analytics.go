package handlers

import (
	"net/http"

	"github.com/wonny/bondlab/internal/curve"
	"github.com/wonny/bondlab/internal/marketdata"
	"github.com/wonny/bondlab/pkg/config"
	"github.com/wonny/bondlab/pkg/logger"
)

// AnalyticsHandler serves curve, bond, portfolio and hedge analytics
// ⭐ SSOT: 분석 API 핸들러는 이 구조체에서만
//
// Requests read the base curve from the store; a snapshot is never
// mutated, only replaced.
type AnalyticsHandler struct {
	store    *marketdata.Store
	defaults config.AnalyticsConfig
	logger   *logger.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(store *marketdata.Store, defaults config.AnalyticsConfig, log *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		store:    store,
		defaults: defaults,
		logger:   log,
	}
}

// baseCurve returns the request override or the current snapshot curve.
func (h *AnalyticsHandler) baseCurve(spec *CurveSpec) (curve.Curve, error) {
	c, err := spec.build()
	if err != nil {
		return nil, err
	}
	if c != nil {
		return c, nil
	}
	return h.store.Current().Curve, nil
}

func (h *AnalyticsHandler) keyRateWidth(requested float64) float64 {
	if requested > 0 {
		return requested
	}
	if h.defaults.KeyRateWidth > 0 {
		return h.defaults.KeyRateWidth
	}
	return curve.DefaultKeyRateWidth
}

func (h *AnalyticsHandler) liabilityWidth(requested float64) float64 {
	if requested > 0 {
		return requested
	}
	if h.defaults.LiabilityShockWidth > 0 {
		return h.defaults.LiabilityShockWidth
	}
	return curve.DefaultLiabilityWidth
}

// fail logs an analytics error and writes the mapped status.
func (h *AnalyticsHandler) fail(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	entry := h.logger.WithError(err).WithField("op", op).WithField("status", status)
	if status >= http.StatusInternalServerError {
		entry.Error("Analytics request failed")
		respondError(w, status, "Internal server error")
		return
	}
	entry.Warn("Analytics request rejected")
	respondError(w, status, err.Error())
}
