package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/bondlab/internal/curve"
	"github.com/wonny/bondlab/internal/hedge"
	"github.com/wonny/bondlab/internal/portfolio"
)

// hedgeCmd represents the hedge command
var hedgeCmd = &cobra.Command{
	Use:   "hedge",
	Short: "부채 헤지 최적화 (LP)",
	Long: `Find the cheapest non-negative combination of hedge instruments whose
value covers the liability stream on the base curve and under localized
rate shocks at every liability date. Prints the optimal weights, scenario
coverage, key-rate attribution of the liabilities and a PV profile.

Example:
  go run ./cmd/bondlab hedge --scenario configs/scenarios/pension.yaml
  go run ./cmd/bondlab hedge --scenario configs/scenarios/pension.yaml --max-weight 0.5
  go run ./cmd/bondlab hedge --scenario configs/scenarios/pension.yaml --key-rate 5Y`,
	RunE: runHedge,
}

var (
	hedgeScenario  string
	hedgeMaxWeight float64
	hedgeKeyRate   string
)

func init() {
	rootCmd.AddCommand(hedgeCmd)

	hedgeCmd.Flags().StringVar(&hedgeScenario, "scenario", "", "scenario YAML path")
	hedgeCmd.Flags().Float64Var(&hedgeMaxWeight, "max-weight", 0, "per-instrument weight cap (0 = uncapped; default: hedge.max_weight)")
	hedgeCmd.Flags().StringVar(&hedgeKeyRate, "key-rate", "", "PV profile center label (default: last liability)")

	_ = hedgeCmd.MarkFlagRequired("scenario")
}

func runHedge(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	run, err := loadScenario(cmd.Context(), hedgeScenario, cfg, log)
	if err != nil {
		return err
	}
	sc := run.cfg
	if !sc.HasHedge() {
		return fmt.Errorf("scenario %s defines no liabilities", sc.Meta.ScenarioID)
	}

	schedule, err := sc.Schedule()
	if err != nil {
		return err
	}

	cons := sc.HedgeConstraints()
	if sc.Hedge.ShockBP == 0 {
		cons.ShockBP = float64(cfg.Analytics.HedgeShockBP)
	}
	if sc.Hedge.Width == 0 {
		cons.Width = cfg.Analytics.LiabilityShockWidth
	}
	if cmd.Flags().Changed("max-weight") {
		cons.MaxWeight = hedgeMaxWeight
	}

	center := schedule.LastTime()
	if hedgeKeyRate != "" {
		if center, err = curve.LabelYears(hedgeKeyRate); err != nil {
			return err
		}
	}

	base := run.base
	instruments := sc.Instruments()
	names := sc.InstrumentNames()

	run.printHeader("Liability Hedge")
	PrintKeyValue("Scenario shock", fmtBP(cons.ShockBP))
	PrintKeyValue("Shock width", fmtYears(cons.Width))
	if cons.MaxWeight > 0 {
		PrintKeyValue("Max weight", fmtNum(cons.MaxWeight, 4))
	}

	PrintSection("Liabilities")
	liabWidths := []int{10, 12, 12}
	PrintTableHeader([]string{"Time", "Amount", "PV"}, liabWidths)
	for _, l := range schedule.Liabilities() {
		PrintTableRow([]string{fmtYears(l.Time), fmtNum(l.Amount, 2), fmtNum(l.Amount*base.DiscountFactor(l.Time), 4)}, liabWidths)
	}
	PrintKeyValue("Total PV", fmtNum(schedule.PV(base), 4))

	attrShock := cons.ShockBP
	if attrShock == 0 {
		attrShock = 1
	}
	attribution, err := schedule.AttributeAll(base, attrShock, cons.Width)
	if err != nil {
		return err
	}
	PrintSection("Key-Rate Attribution " + fmtBP(attrShock))
	attrWidths := []int{8, 10, 12, 12, 10}
	PrintTableHeader([]string{"Key", "KRD", "Actual", "Predicted", "Error"}, attrWidths)
	for _, a := range attribution {
		PrintTableRow([]string{
			fmtYears(a.KeyRate),
			fmtNum(a.KeyRateDuration, 4),
			fmtNum(a.ActualChange, 4),
			fmtNum(a.Predicted, 4),
			fmtPct(a.RelativeError, 2),
		}, attrWidths)
	}

	result, err := hedge.NewOptimizer(cons).Optimize(base, instruments, schedule)
	if err != nil {
		if errors.Is(err, hedge.ErrInfeasibleHedge) {
			fmt.Println()
			PrintError("No admissible hedge: " + err.Error())
		}
		return err
	}

	PrintSection("Optimal Weights")
	wWidths := []int{14, 10, 10, 12}
	PrintTableHeader([]string{"Instrument", "Weight", "Price", "Cost"}, wWidths)
	for i, w := range result.Weights {
		PrintTableRow([]string{names[i], fmtNum(w, 6), fmtNum(result.Prices[i], 4), fmtNum(w*result.Prices[i], 4)}, wWidths)
	}
	PrintKeyValue("Hedge cost", fmtNum(result.Cost, 4))
	PrintKeyValue("Liability PV", fmtNum(result.LiabilityPV, 4))

	PrintSection("Scenario Coverage")
	covWidths := []int{12, 12, 12, 12}
	PrintTableHeader([]string{"Scenario", "Hedge PV", "Liab PV", "Surplus"}, covWidths)
	for _, c := range result.Coverage {
		PrintTableRow([]string{c.Name, fmtNum(c.HedgePV, 4), fmtNum(c.LiabilityPV, 4), fmtNum(c.Surplus, 4)}, covWidths)
	}
	PrintKeyValue("Binding scenario", result.Binding)

	hp, err := hedge.HedgePortfolio(instruments, result.Weights)
	if err != nil {
		return err
	}
	profile, err := hedge.PVProfile(base, hp, schedule, center, portfolio.ShockGrid(-200, 200, 50), cons.Width)
	if err != nil {
		return err
	}
	PrintSection("PV Profile @" + fmtYears(center))
	profWidths := []int{10, 12, 12, 10}
	PrintTableHeader([]string{"Shock", "Hedge PV", "Liab PV", "Gap"}, profWidths)
	for _, pt := range profile {
		PrintTableRow([]string{fmtBP(pt.ShockBP), fmtNum(pt.HedgePV, 4), fmtNum(pt.LiabilityPV, 4), fmtNum(pt.Gap, 4)}, profWidths)
	}

	log.WithFields(map[string]interface{}{
		"run_id":      result.RunID,
		"scenario_id": sc.Meta.ScenarioID,
		"cost":        result.Cost,
		"binding":     result.Binding,
	}).Info("Hedge optimized")

	fmt.Println()
	PrintSuccess("Hedge run " + result.RunID)
	return nil
}
