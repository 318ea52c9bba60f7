package risk

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// =============================================================================
// VaR (Value at Risk) Calculation
// =============================================================================

// CalculateVaR historical VaR of a P&L sample (양수=이익, 음수=손실)
// 반환값: VaR/CVaR는 손실을 양수로 표현
func CalculateVaR(pnl []float64, confidence float64) VaRResult {
	if len(pnl) == 0 {
		return VaRResult{Confidence: confidence}
	}

	// 오름차순: 손실이 앞에
	sorted := make([]float64, len(pnl))
	copy(sorted, pnl)
	sort.Float64s(sorted)

	idx := int(math.Floor((1.0 - confidence) * float64(len(sorted))))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}

	return VaRResult{
		Confidence: confidence,
		VaR:        lossOf(sorted[idx]),
		CVaR:       lossOf(stat.Mean(sorted[:idx+1], nil)),
	}
}

// CalculateParametricVaR 정규분포 가정 VaR
// VaR = z·σ - μ, CVaR (expected shortfall) = σ·φ(z)/(1-c) - μ, 둘 다 0 이상으로 clamp
func CalculateParametricVaR(mean, stdDev, confidence float64) VaRResult {
	z := distuv.UnitNormal.Quantile(confidence)
	return VaRResult{
		Confidence: confidence,
		VaR:        math.Max(z*stdDev-mean, 0),
		CVaR:       math.Max(stdDev*distuv.UnitNormal.Prob(z)/(1-confidence)-mean, 0),
	}
}

// CalculatePercentiles P&L 백분위수 (선형 보간)
func CalculatePercentiles(pnl []float64, ps []int) map[int]float64 {
	out := make(map[int]float64, len(ps))
	if len(pnl) == 0 {
		return out
	}
	sorted := make([]float64, len(pnl))
	copy(sorted, pnl)
	sort.Float64s(sorted)

	for _, p := range ps {
		out[p] = percentile(sorted, float64(p))
	}
	return out
}

// percentile 선형 보간 백분위수 (sorted 입력)
func percentile(sorted []float64, p float64) float64 {
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	idx := p / 100.0 * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := idx - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

func lossOf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return 0
}
