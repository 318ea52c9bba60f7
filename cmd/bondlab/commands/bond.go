package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/bondlab/internal/bond"
	"github.com/wonny/bondlab/internal/curve"
	"github.com/wonny/bondlab/internal/marketdata"
	"github.com/wonny/bondlab/internal/scenarioconfig"
)

// bondCmd represents the bond command
var bondCmd = &cobra.Command{
	Use:   "bond",
	Short: "단일 채권 가격 / 듀레이션 / 컨벡시티 / KRD",
	Long: `Price a fixed-coupon bond on the base curve and report yield to
maturity, Macaulay/modified/effective duration, convexity, the key-rate
duration profile and the price change under a parallel shock.

Example:
  go run ./cmd/bondlab bond --maturity 10 --coupon 0.05
  go run ./cmd/bondlab bond --maturity 7 --coupon 0.04 --freq 1 --shock -50
  go run ./cmd/bondlab bond --maturity 5 --coupon 0.03 --price 97.5
  go run ./cmd/bondlab bond --maturity 10 --coupon 0 --key-rate 10Y --width 1`,
	RunE: runBond,
}

var (
	bondFace     float64
	bondCoupon   float64
	bondMaturity float64
	bondFreq     int
	bondShock    int
	bondKeyRate  string
	bondWidth    float64
	bondPrice    float64
	bondFlows    bool
)

func init() {
	rootCmd.AddCommand(bondCmd)

	bondCmd.Flags().Float64Var(&bondFace, "face", 100, "face value")
	bondCmd.Flags().Float64Var(&bondCoupon, "coupon", 0, "annual coupon rate (decimal)")
	bondCmd.Flags().Float64Var(&bondMaturity, "maturity", 0, "maturity in years")
	bondCmd.Flags().IntVar(&bondFreq, "freq", 2, "coupon payments per year")
	bondCmd.Flags().IntVar(&bondShock, "shock", 100, "parallel shock in basis points")
	bondCmd.Flags().StringVar(&bondKeyRate, "key-rate", "", "single key rate label (default: all canonical)")
	bondCmd.Flags().Float64Var(&bondWidth, "width", 0, "key-rate Gaussian width in years (default: KEY_RATE_WIDTH)")
	bondCmd.Flags().Float64Var(&bondPrice, "price", 0, "market price; solves the market yield when set")
	bondCmd.Flags().BoolVar(&bondFlows, "cashflows", false, "print the cashflow schedule")

	_ = bondCmd.MarkFlagRequired("maturity")
}

func runBond(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	if bondShock < -scenarioconfig.MaxShockBP || bondShock > scenarioconfig.MaxShockBP {
		return fmt.Errorf("--shock must be within ±%d bp", scenarioconfig.MaxShockBP)
	}

	b, err := bond.New(bondFace, bondCoupon, bondMaturity, bondFreq)
	if err != nil {
		return err
	}

	opts := bond.DefaultAnalyzeOptions()
	opts.KeyRateWidth = cfg.Analytics.KeyRateWidth
	if bondWidth > 0 {
		opts.KeyRateWidth = bondWidth
	}
	if bondKeyRate != "" {
		key, err := curve.LabelYears(bondKeyRate)
		if err != nil {
			return err
		}
		opts.KeyRates = []float64{key}
	}

	snap, err := marketdata.Load(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	base := snap.Curve

	a, err := bond.Analyze(b, base, opts)
	if err != nil {
		return err
	}

	shockBP := float64(bondShock)
	shocked, err := bond.Price(b, curve.NewParallelShock(base, shockBP))
	if err != nil {
		return err
	}

	log.WithFields(map[string]interface{}{
		"maturity": b.Maturity,
		"coupon":   b.CouponRate,
		"price":    a.Price,
	}).Debug("Bond analyzed")

	PrintHeader("Bond Analytics", fmt.Sprintf("%s %s coupon, freq %d, face %s",
		fmtYears(b.Maturity), fmtPct(b.CouponRate, 3), b.Frequency, fmtMoney(b.FaceValue)))
	PrintKeyValue("Curve", fmt.Sprintf("%s (%s)", snap.Source, snap.AsOf.Format("2006-01-02")))

	PrintSection("Valuation")
	PrintKeyValue("Price", fmtNum(a.Price, 4))
	if a.YieldToMaturity != nil {
		PrintKeyValue("Yield to maturity", fmtPct(*a.YieldToMaturity, 4))
	} else {
		PrintKeyValue("Yield to maturity", "n/a")
		PrintWarning(a.YieldError)
	}
	if bondPrice > 0 {
		y, err := bond.YieldToMaturity(b, bondPrice)
		if err != nil {
			PrintError(fmt.Sprintf("market yield @ %s: %v", fmtNum(bondPrice, 4), err))
		} else {
			PrintKeyValue("Market yield", fmt.Sprintf("%s @ %s", fmtPct(y, 4), fmtNum(bondPrice, 4)))
		}
	}

	PrintSection("Sensitivities")
	PrintKeyValue("Macaulay duration", fmtNum(a.MacaulayDuration, 4))
	PrintKeyValue("Modified duration", fmtNum(a.ModifiedDuration, 4))
	PrintKeyValue("Effective duration", fmtNum(a.EffectiveDuration, 4))
	PrintKeyValue("Convexity", fmtNum(a.Convexity, 4))

	PrintSection(fmt.Sprintf("Key-Rate Durations (width %sY)", fmtNum(opts.KeyRateWidth, 2)))
	widths := []int{10, 12}
	PrintTableHeader([]string{"Key rate", "KRD"}, widths)
	for _, k := range a.KeyRates {
		PrintTableRow([]string{fmtYears(k.KeyRate), fmtNum(k.Duration, 4)}, widths)
	}

	PrintSection("Parallel Shock " + fmtBP(shockBP))
	PrintKeyValue("Shocked price", fmtNum(shocked, 4))
	PrintKeyValue("Price change", fmtNum(shocked-a.Price, 4))
	PrintKeyValue("Return", fmtPct((shocked-a.Price)/a.Price, 3))

	if bondFlows {
		PrintSection("Cashflows")
		cfWidths := []int{10, 12, 10}
		PrintTableHeader([]string{"Time", "Amount", "DF"}, cfWidths)
		for _, cf := range a.Cashflows {
			PrintTableRow([]string{fmtYears(cf.Time), fmtNum(cf.Amount, 4), fmtNum(base.DiscountFactor(cf.Time), 6)}, cfWidths)
		}
	}

	if a.ScheduleResidual != 0 {
		PrintWarning(fmt.Sprintf("maturity × frequency is not an integer; schedule residual %s periods", fmtNum(a.ScheduleResidual, 4)))
	}
	if extrapolated(base, b.LastPaymentTime()) {
		PrintWarning("cashflows extend beyond the observed curve; rates are extrapolated")
	}
	return nil
}
