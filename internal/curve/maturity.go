package curve

import (
	"fmt"
	"sort"
)

// MaturityYears is the canonical maturity label table.
// ⭐ SSOT: 만기 라벨 → 연 단위 변환은 여기서만
var MaturityYears = map[string]float64{
	"1M":  1.0 / 12.0,
	"3M":  0.25,
	"6M":  0.5,
	"1Y":  1.0,
	"2Y":  2.0,
	"5Y":  5.0,
	"10Y": 10.0,
	"30Y": 30.0,
}

// Labels returns the canonical labels ordered by maturity.
func Labels() []string {
	labels := make([]string, 0, len(MaturityYears))
	for l := range MaturityYears {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool {
		return MaturityYears[labels[i]] < MaturityYears[labels[j]]
	})
	return labels
}

// LabelYears resolves a maturity label.
func LabelYears(label string) (float64, error) {
	years, ok := MaturityYears[label]
	if !ok {
		return 0, fmt.Errorf("%w: unknown maturity label %q", ErrInvalidCurveInput, label)
	}
	return years, nil
}
