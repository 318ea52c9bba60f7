package commands

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/bondlab/internal/curve"
	"github.com/wonny/bondlab/internal/marketdata"
	"github.com/wonny/bondlab/internal/portfolio"
	"github.com/wonny/bondlab/internal/risk"
)

// varCmd represents the var command
var varCmd = &cobra.Command{
	Use:   "var",
	Short: "포트폴리오 금리 VaR (Monte Carlo)",
	Long: `Simulate parallel rate shocks over a holding period and fully revalue
the scenario portfolio. Shocks are drawn from a normal distribution or
bootstrapped from historical daily changes of one tenor (fetched from the
configured curve source).

Example:
  go run ./cmd/bondlab var --scenario configs/scenarios/pension.yaml
  go run ./cmd/bondlab var --scenario configs/scenarios/pension.yaml --vol 9 --days 20 --seed 42
  go run ./cmd/bondlab var --scenario configs/scenarios/pension.yaml --method historical_bootstrap --source fred --label 10Y`,
	RunE: runVaR,
}

var (
	varScenario string
	varMethod   string
	varSims     int
	varDays     int
	varVolBP    float64
	varSeed     int64
	varLabel    string
)

func init() {
	rootCmd.AddCommand(varCmd)

	def := risk.DefaultSimulationConfig()
	varCmd.Flags().StringVar(&varScenario, "scenario", "", "scenario YAML path")
	varCmd.Flags().StringVar(&varMethod, "method", string(def.Method), "parametric_normal | historical_bootstrap")
	varCmd.Flags().IntVar(&varSims, "sims", def.NumSimulations, "number of simulations")
	varCmd.Flags().IntVar(&varDays, "days", def.HoldingDays, "holding period in business days")
	varCmd.Flags().Float64Var(&varVolBP, "vol", def.DailyVolBP, "daily rate volatility in bp (parametric)")
	varCmd.Flags().Int64Var(&varSeed, "seed", 0, "random seed (0 = random)")
	varCmd.Flags().StringVar(&varLabel, "label", "10Y", "tenor whose daily changes are bootstrapped")

	_ = varCmd.MarkFlagRequired("scenario")
}

func runVaR(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	simCfg := risk.DefaultSimulationConfig()
	simCfg.Method = risk.Method(varMethod)
	simCfg.NumSimulations = varSims
	simCfg.HoldingDays = varDays
	simCfg.DailyVolBP = varVolBP
	simCfg.Seed = varSeed
	if err := simCfg.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	run, err := loadScenario(ctx, varScenario, cfg, log)
	if err != nil {
		return err
	}
	if !run.cfg.HasPortfolio() {
		return fmt.Errorf("scenario %s defines no portfolio holdings", run.cfg.Meta.ScenarioID)
	}
	p, err := portfolio.New(run.cfg.Holdings())
	if err != nil {
		return err
	}

	var changes []float64
	if simCfg.Method == risk.MethodHistoricalBootstrap {
		if _, err := curve.LabelYears(varLabel); err != nil {
			return err
		}
		provider, err := marketdata.NewProvider(cfg, log)
		if err != nil {
			return err
		}
		tbl, err := provider.Fetch(ctx, cfg.Curve.StartTime(), time.Time{})
		if err != nil {
			return err
		}
		if changes, err = tbl.DailyChangesBP(varLabel); err != nil {
			return fmt.Errorf("%s history from %s: %w", varLabel, cfg.Curve.Source, err)
		}
	}

	res, err := risk.NewSimulator(simCfg).Simulate(ctx, p, run.base, changes)
	if err != nil {
		return err
	}

	run.printHeader("Rate VaR")
	PrintKeyValue("Method", string(simCfg.Method))
	PrintKeyValue("Simulations", fmt.Sprintf("%d", simCfg.NumSimulations))
	PrintKeyValue("Holding period", fmt.Sprintf("%d days", simCfg.HoldingDays))
	if simCfg.Method == risk.MethodHistoricalBootstrap {
		PrintKeyValue("History", fmt.Sprintf("%s, %d daily changes", varLabel, len(changes)))
	}

	PrintSection("Distribution")
	PrintKeyValue("Base value", fmtNum(res.BaseValue, 4))
	PrintKeyValue("Shock std", fmtBP(res.ShockStdBP))
	PrintKeyValue("Mean P&L", fmtNum(res.MeanPnL, 4))
	PrintKeyValue("P&L std", fmtNum(res.StdDev, 4))

	PrintSection("Value at Risk (loss positive)")
	widths := []int{10, 12, 12, 14, 14}
	PrintTableHeader([]string{"Conf", "VaR", "CVaR", "Approx VaR", "Approx CVaR"}, widths)
	for i, v := range res.VaR {
		approx := res.Parametric[i]
		PrintTableRow([]string{fmtPct(v.Confidence, 1), fmtNum(v.VaR, 4), fmtNum(v.CVaR, 4), fmtNum(approx.VaR, 4), fmtNum(approx.CVaR, 4)}, widths)
	}

	PrintSection("P&L Percentiles")
	ps := make([]int, 0, len(res.Percentiles))
	for k := range res.Percentiles {
		ps = append(ps, k)
	}
	sort.Ints(ps)
	pWidths := []int{8, 12}
	PrintTableHeader([]string{"Pct", "P&L"}, pWidths)
	for _, k := range ps {
		PrintTableRow([]string{fmt.Sprintf("p%d", k), fmtNum(res.Percentiles[k], 4)}, pWidths)
	}

	log.WithFields(map[string]interface{}{
		"run_id":      res.RunID,
		"scenario_id": run.cfg.Meta.ScenarioID,
		"method":      simCfg.Method,
		"var95":       res.VaR[0].VaR,
	}).Info("Rate VaR simulated")

	fmt.Println()
	PrintSuccess("VaR run " + res.RunID)
	return nil
}
