package risk

import (
	"errors"
	"fmt"
	"time"
)

// VaRConvention VaR 부호 규약
// ⭐ SSOT: Loss를 양수로 표현 (VaR=1.2 → 포트폴리오 가치 1.2 손실 가능)
// 전체 시스템에서 이 규약을 일관되게 사용
const VaRConvention = "loss_positive"

var (
	ErrInsufficientData = errors.New("insufficient data for simulation")
	ErrInvalidConfig    = errors.New("invalid configuration")
)

// =============================================================================
// VaR/CVaR Types
// =============================================================================

// VaRResult VaR 계산 결과 (value units, loss positive)
type VaRResult struct {
	Confidence float64 `json:"confidence"` // 신뢰수준 (예: 0.95, 0.99)
	VaR        float64 `json:"var"`        // Value at Risk (손실, 양수)
	CVaR       float64 `json:"cvar"`       // Conditional VaR (Expected Shortfall, 양수)
}

// =============================================================================
// Simulation Types
// =============================================================================

// Method 금리 시나리오 생성 방법
type Method string

const (
	MethodHistoricalBootstrap Method = "historical_bootstrap" // 과거 일별 금리 변화 Bootstrap
	MethodParametricNormal    Method = "parametric_normal"    // 정규분포 가정
)

// SimulationConfig configures a parallel-rate-shock Monte Carlo run
// ⭐ SSOT: 재현성을 위해 모든 설정을 명시적으로 기록
type SimulationConfig struct {
	Method           Method    `json:"method"`
	NumSimulations   int       `json:"num_simulations"`   // 기본: 10000
	HoldingDays      int       `json:"holding_days"`      // 보유 기간 (영업일)
	DailyVolBP       float64   `json:"daily_vol_bp"`      // parametric only
	ConfidenceLevels []float64 `json:"confidence_levels"` // [0.95, 0.99]
	Seed             int64     `json:"seed"`              // 0 = 랜덤
	MinSamples       int       `json:"min_samples"`       // bootstrap fail-closed
}

// DefaultSimulationConfig 기본 설정
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		Method:           MethodParametricNormal,
		NumSimulations:   10000,
		HoldingDays:      10,
		DailyVolBP:       7,
		ConfidenceLevels: []float64{0.95, 0.99},
		MinSamples:       30,
	}
}

// Validate checks the configuration
func (c SimulationConfig) Validate() error {
	switch c.Method {
	case MethodHistoricalBootstrap, MethodParametricNormal:
	default:
		return fmt.Errorf("%w: unknown method %q", ErrInvalidConfig, c.Method)
	}
	if c.NumSimulations <= 0 {
		return fmt.Errorf("%w: num_simulations must be > 0", ErrInvalidConfig)
	}
	if c.HoldingDays <= 0 {
		return fmt.Errorf("%w: holding_days must be > 0", ErrInvalidConfig)
	}
	if c.Method == MethodParametricNormal && !(c.DailyVolBP > 0) {
		return fmt.Errorf("%w: daily_vol_bp must be > 0", ErrInvalidConfig)
	}
	for _, cl := range c.ConfidenceLevels {
		if !(cl > 0 && cl < 1) {
			return fmt.Errorf("%w: confidence %v not in (0, 1)", ErrInvalidConfig, cl)
		}
	}
	return nil
}

// SimulationResult Monte Carlo 결과
type SimulationResult struct {
	RunID       string           `json:"run_id"`
	Config      SimulationConfig `json:"config"`
	BaseValue   float64          `json:"base_value"`
	MeanPnL     float64          `json:"mean_pnl"`
	StdDev      float64          `json:"std_dev"`
	ShockStdBP  float64          `json:"shock_std_bp"` // realized std of simulated shocks
	VaR         []VaRResult      `json:"var"`
	Parametric  []VaRResult      `json:"parametric"` // duration/convexity normal approximation
	Percentiles map[int]float64  `json:"percentiles"` // P&L percentiles
	CreatedAt   time.Time        `json:"created_at"`
}
