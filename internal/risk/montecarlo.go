package risk

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/wonny/bondlab/internal/curve"
	"github.com/wonny/bondlab/internal/portfolio"
)

// =============================================================================
// Rate VaR Simulator - 순수 계산기
// =============================================================================

// ctxCheckEvery 취소 확인 주기 (시뮬레이션 횟수)
const ctxCheckEvery = 256

var reportedPercentiles = []int{1, 5, 10, 25, 50, 75, 90, 95, 99}

// Simulator revalues a bond portfolio under simulated parallel rate shocks
// over a holding period.
type Simulator struct {
	config SimulationConfig
	rng    *rand.Rand
}

// NewSimulator 새 시뮬레이터 생성
func NewSimulator(config SimulationConfig) *Simulator {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Simulator{
		config: config,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Simulate runs the simulation. dailyChangesBP (historical day-over-day
// rate changes in bp) is required for the bootstrap method and ignored
// otherwise.
func (s *Simulator) Simulate(ctx context.Context, p *portfolio.Portfolio, base curve.Curve, dailyChangesBP []float64) (*SimulationResult, error) {
	if err := s.config.Validate(); err != nil {
		return nil, err
	}
	if s.config.Method == MethodHistoricalBootstrap && len(dailyChangesBP) < s.config.MinSamples {
		return nil, fmt.Errorf("%w: %d daily changes, need %d", ErrInsufficientData, len(dailyChangesBP), s.config.MinSamples)
	}

	v0, err := p.Price(base)
	if err != nil {
		return nil, err
	}
	duration, err := p.Duration(base)
	if err != nil {
		return nil, err
	}

	shocks := make([]float64, s.config.NumSimulations)
	pnl := make([]float64, s.config.NumSimulations)
	for i := range pnl {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		shocks[i] = s.holdingShock(dailyChangesBP)
		v1, err := p.Price(curve.NewParallelShock(base, shocks[i]))
		if err != nil {
			return nil, err
		}
		pnl[i] = v1 - v0
	}

	shockStd := stat.StdDev(shocks, nil)
	// 1차 근사: ΔV ≈ -V·D·Δy (연속복리 커브에서 Macaulay = -dlnV/dy)
	approxStd := math.Abs(v0*duration) * curve.BPToDecimal(shockStd)

	result := &SimulationResult{
		RunID:       uuid.New().String(),
		Config:      s.config,
		BaseValue:   v0,
		MeanPnL:     stat.Mean(pnl, nil),
		StdDev:      stat.StdDev(pnl, nil),
		ShockStdBP:  shockStd,
		Percentiles: CalculatePercentiles(pnl, reportedPercentiles),
		CreatedAt:   time.Now(),
	}
	for _, cl := range s.config.ConfidenceLevels {
		result.VaR = append(result.VaR, CalculateVaR(pnl, cl))
		result.Parametric = append(result.Parametric, CalculateParametricVaR(0, approxStd, cl))
	}
	return result, nil
}

// holdingShock draws the cumulative parallel shock over the holding period.
func (s *Simulator) holdingShock(dailyChangesBP []float64) float64 {
	days := s.config.HoldingDays
	if s.config.Method == MethodParametricNormal {
		return s.config.DailyVolBP * math.Sqrt(float64(days)) * s.rng.NormFloat64()
	}

	total := 0.0
	for d := 0; d < days; d++ {
		total += dailyChangesBP[s.rng.Intn(len(dailyChangesBP))]
	}
	return total
}
