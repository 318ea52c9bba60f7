package commands

import (
	"context"
	"fmt"

	"github.com/wonny/bondlab/internal/curve"
	"github.com/wonny/bondlab/internal/marketdata"
	"github.com/wonny/bondlab/internal/scenarioconfig"
	"github.com/wonny/bondlab/pkg/config"
	"github.com/wonny/bondlab/pkg/logger"
)

// scenarioRun is a loaded scenario file together with its base curve.
type scenarioRun struct {
	cfg    *scenarioconfig.Config
	hash   string
	base   curve.Curve
	source string
}

// loadScenario reads and validates a scenario file. The scenario's own curve
// wins over the configured market-data source.
func loadScenario(ctx context.Context, path string, cfg *config.Config, log *logger.Logger) (*scenarioRun, error) {
	sc, _, err := scenarioconfig.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load scenario: %w", err)
	}

	hash, err := scenarioconfig.Hash(sc)
	if err != nil {
		return nil, fmt.Errorf("hash scenario: %w", err)
	}

	run := &scenarioRun{cfg: sc, hash: hash}

	base, ok, err := sc.BaseCurve()
	if err != nil {
		return nil, fmt.Errorf("scenario curve: %w", err)
	}
	if ok {
		run.base = base
		run.source = "scenario"
	} else {
		snap, err := marketdata.Load(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		run.base = snap.Curve
		run.source = fmt.Sprintf("%s (%s)", snap.Source, snap.AsOf.Format("2006-01-02"))
	}

	log.WithFields(map[string]interface{}{
		"scenario_id": sc.Meta.ScenarioID,
		"hash":        hash,
		"curve":       run.source,
	}).Info("Scenario loaded")

	return run, nil
}

func (r *scenarioRun) printHeader(title string) {
	PrintHeader(title, r.cfg.Meta.ScenarioID)
	if r.cfg.Meta.Description != "" {
		PrintKeyValue("Description", r.cfg.Meta.Description)
	}
	PrintKeyValue("Curve", r.source)
	PrintKeyValue("Hash", r.hash[:12])
}

// extrapolated reports whether t lies outside the curve's observed range.
func extrapolated(c curve.Curve, t float64) bool {
	if yc, ok := c.(*curve.YieldCurve); ok {
		return !yc.InRange(t)
	}
	return false
}
