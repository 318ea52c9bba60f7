package commands

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/bondlab/internal/curve"
	"github.com/wonny/bondlab/internal/marketdata"
)

// curveCmd represents the curve command
var curveCmd = &cobra.Command{
	Use:   "curve",
	Short: "기준 수익률 곡선 조회",
	Long: `Load the base yield curve from the configured source and print its
nodes, spline-interpolated rates, discount factors and forward rates.

Example:
  go run ./cmd/bondlab curve
  go run ./cmd/bondlab curve --maturities 0.5,1,2,5,7,10,20,30
  go run ./cmd/bondlab curve --source file`,
	RunE: runCurve,
}

var curveMaturities string

func init() {
	rootCmd.AddCommand(curveCmd)

	curveCmd.Flags().StringVar(&curveMaturities, "maturities", "", "comma-separated maturities in years or labels (default: canonical)")
}

func runCurve(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	maturities, err := parseMaturityList(curveMaturities)
	if err != nil {
		return err
	}

	snap, err := marketdata.Load(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	yc := snap.Curve

	PrintHeader("Yield Curve", fmt.Sprintf("source=%s  as_of=%s", snap.Source, snap.AsOf.Format("2006-01-02")))

	PrintSection("Nodes")
	nodeWidths := []int{10, 10}
	PrintTableHeader([]string{"Maturity", "Yield"}, nodeWidths)
	for _, p := range yc.Points() {
		PrintTableRow([]string{fmtYears(p.Maturity), fmtPct(p.Yield, 3)}, nodeWidths)
	}

	PrintSection("Interpolated")
	widths := []int{10, 10, 12, 12, 6}
	PrintTableHeader([]string{"Maturity", "Rate", "DF", "Inst.Fwd", "Extr"}, widths)
	fwd := curve.InstantaneousForwards(yc, maturities)
	for i, t := range maturities {
		flag := ""
		if !yc.InRange(t) {
			flag = "*"
		}
		PrintTableRow([]string{
			fmtYears(t),
			fmtPct(yc.Rate(t), 3),
			fmtNum(yc.DiscountFactor(t), 6),
			fmtPct(fwd[i], 3),
			flag,
		}, widths)
	}

	if len(maturities) > 1 {
		PrintSection("Forward Rates")
		fwdWidths := []int{16, 10}
		PrintTableHeader([]string{"Period", "Forward"}, fwdWidths)
		for i := 1; i < len(maturities); i++ {
			f, err := curve.ForwardRate(yc, maturities[i-1], maturities[i])
			if err != nil {
				return err
			}
			period := fmtYears(maturities[i-1]) + " → " + fmtYears(maturities[i])
			PrintTableRow([]string{period, fmtPct(f, 3)}, fwdWidths)
		}
	}

	lo, hi := yc.Range()
	fmt.Println()
	PrintInfo(fmt.Sprintf("Observed range %s ~ %s; rows marked * are extrapolated", fmtYears(lo), fmtYears(hi)))
	return nil
}

// parseMaturityList accepts years ("0.5") or canonical labels ("6M"),
// returning sorted distinct maturities.
func parseMaturityList(raw string) ([]float64, error) {
	if strings.TrimSpace(raw) == "" {
		out := make([]float64, 0, len(curve.MaturityYears))
		for _, label := range curve.Labels() {
			out = append(out, curve.MaturityYears[label])
		}
		return out, nil
	}

	seen := make(map[float64]bool)
	var out []float64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		t, err := strconv.ParseFloat(part, 64)
		if err != nil {
			if t, err = curve.LabelYears(part); err != nil {
				return nil, fmt.Errorf("invalid maturity %q", part)
			}
		}
		if !(t > 0) {
			return nil, fmt.Errorf("maturity must be > 0: %q", part)
		}
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no maturities given")
	}
	sort.Float64s(out)
	return out, nil
}
