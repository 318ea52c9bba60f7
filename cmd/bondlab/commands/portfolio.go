package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/bondlab/internal/bond"
	"github.com/wonny/bondlab/internal/portfolio"
	"github.com/wonny/bondlab/internal/scenarioconfig"
)

// portfolioCmd represents the portfolio command
var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "채권 포트폴리오 가치 / 듀레이션 / 충격 손익",
	Long: `Aggregate a weighted bond portfolio defined in a scenario file:
value, duration, convexity, horizon future value, the P&L of a parallel
shock and the value profile across -200..+200bp.

Example:
  go run ./cmd/bondlab portfolio --scenario configs/scenarios/pension.yaml
  go run ./cmd/bondlab portfolio --scenario configs/scenarios/pension.yaml --shock -50 --normalize`,
	RunE: runPortfolio,
}

var (
	portfolioScenario  string
	portfolioShock     int
	portfolioNormalize bool
)

func init() {
	rootCmd.AddCommand(portfolioCmd)

	portfolioCmd.Flags().StringVar(&portfolioScenario, "scenario", "", "scenario YAML path")
	portfolioCmd.Flags().IntVar(&portfolioShock, "shock", 0, "parallel shock in bp (default: analytics.shock_bp)")
	portfolioCmd.Flags().BoolVar(&portfolioNormalize, "normalize", false, "scale weights so Σ|w| = 1")

	_ = portfolioCmd.MarkFlagRequired("scenario")
}

func runPortfolio(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	if portfolioShock < -scenarioconfig.MaxShockBP || portfolioShock > scenarioconfig.MaxShockBP {
		return fmt.Errorf("--shock must be within ±%d bp", scenarioconfig.MaxShockBP)
	}

	run, err := loadScenario(cmd.Context(), portfolioScenario, cfg, log)
	if err != nil {
		return err
	}
	sc := run.cfg
	if !sc.HasPortfolio() {
		return fmt.Errorf("scenario %s defines no portfolio holdings", sc.Meta.ScenarioID)
	}

	holdings := sc.Holdings()
	if portfolioNormalize {
		if holdings, err = portfolio.NormalizeWeights(holdings); err != nil {
			return err
		}
	}
	p, err := portfolio.New(holdings)
	if err != nil {
		return err
	}

	base := run.base
	price, err := p.Price(base)
	if err != nil {
		return err
	}
	duration, err := p.Duration(base)
	if err != nil {
		return err
	}
	convexity, err := p.Convexity(base)
	if err != nil {
		return err
	}

	run.printHeader("Bond Portfolio")

	PrintSection("Holdings")
	widths := []int{14, 8, 10, 10, 10}
	PrintTableHeader([]string{"Name", "Weight", "Price", "Duration", "Value"}, widths)
	for i, h := range p.Holdings() {
		bp, err := bond.Price(h.Bond, base)
		if err != nil {
			return err
		}
		mac, err := bond.MacaulayDuration(h.Bond, base)
		if err != nil {
			return err
		}
		name := sc.Portfolio.Holdings[i].Name
		if name == "" {
			name = fmt.Sprintf("holding-%d", i+1)
		}
		PrintTableRow([]string{name, fmtNum(h.Weight, 4), fmtNum(bp, 4), fmtNum(mac, 4), fmtNum(h.Weight*bp, 4)}, widths)
	}

	PrintSection("Aggregate")
	PrintKeyValue("Value", fmtNum(price, 4))
	PrintKeyValue("Duration", fmtNum(duration, 4))
	PrintKeyValue("Convexity", fmtNum(convexity, 4))

	if h := sc.Analytics.Horizon; h > 0 {
		fv, err := p.FutureValue(base, h)
		if err != nil {
			return err
		}
		PrintKeyValue(fmt.Sprintf("Future value @%s", fmtYears(h)), fmtNum(fv, 4))
	}

	shockBP := float64(sc.Analytics.ShockBP)
	if portfolioShock != 0 {
		shockBP = float64(portfolioShock)
	}
	if shockBP != 0 {
		res, err := p.ShockPnL(base, shockBP)
		if err != nil {
			return err
		}
		PrintSection("Parallel Shock " + fmtBP(shockBP))
		PrintKeyValue("Shocked value", fmtNum(res.ShockedValue, 4))
		PrintKeyValue("P&L", fmtNum(res.PnL, 4))
		PrintKeyValue("P&L %", fmtNum(res.PnLPct, 3)+"%")
	}

	profile, err := p.PriceProfile(base, portfolio.ShockGrid(-200, 200, 50))
	if err != nil {
		return err
	}
	PrintSection("Value Profile")
	profWidths := []int{10, 12, 12}
	PrintTableHeader([]string{"Shock", "Value", "Change"}, profWidths)
	for _, pt := range profile {
		PrintTableRow([]string{fmtBP(pt.ShockBP), fmtNum(pt.Value, 4), fmtNum(pt.Value-price, 4)}, profWidths)
	}

	log.WithFields(map[string]interface{}{
		"scenario_id": sc.Meta.ScenarioID,
		"holdings":    len(holdings),
		"value":       price,
		"duration":    duration,
	}).Info("Portfolio analyzed")

	fmt.Println()
	PrintSuccess("Portfolio analysis complete")
	return nil
}
