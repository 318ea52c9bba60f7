package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/bondlab/internal/curve"
	"github.com/wonny/bondlab/pkg/config"
	"github.com/wonny/bondlab/pkg/httputil"
	"github.com/wonny/bondlab/pkg/logger"
)

// Snapshot is a base curve with its provenance. The curve is never
// modified after loading and is shared by every consumer.
type Snapshot struct {
	Curve  *curve.YieldCurve
	AsOf   time.Time
	Source string
}

// NewProvider returns the provider selected by cfg.Curve.Source.
// ⭐ SSOT: 커브 소스 선택은 여기서만
func NewProvider(cfg *config.Config, log *logger.Logger) (Provider, error) {
	switch cfg.Curve.Source {
	case config.CurveSourceFRED:
		return NewFREDClient(cfg, httputil.New(cfg, log), log), nil
	case config.CurveSourceFile:
		return NewFileProvider(cfg.Curve.File), nil
	case config.CurveSourceFlat:
		return NewFlatProvider(cfg.Curve.FlatRate), nil
	default:
		return nil, fmt.Errorf("unknown curve source %q", cfg.Curve.Source)
	}
}

// LoadSnapshot fetches observations from start onward and builds the curve
// from the latest complete row.
func LoadSnapshot(ctx context.Context, p Provider, source string, start time.Time) (*Snapshot, error) {
	tbl, err := p.Fetch(ctx, start, time.Time{})
	if err != nil {
		return nil, err
	}
	yc, asOf, err := tbl.Curve()
	if err != nil {
		return nil, err
	}
	return &Snapshot{Curve: yc, AsOf: asOf, Source: source}, nil
}

// Load builds the configured provider and loads a snapshot.
func Load(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Snapshot, error) {
	p, err := NewProvider(cfg, log)
	if err != nil {
		return nil, err
	}
	return LoadFrom(ctx, p, cfg, log)
}

// LoadFrom loads a snapshot from p using the configured start date.
func LoadFrom(ctx context.Context, p Provider, cfg *config.Config, log *logger.Logger) (*Snapshot, error) {
	snap, err := LoadSnapshot(ctx, p, cfg.Curve.Source, cfg.Curve.StartTime())
	if err != nil {
		return nil, fmt.Errorf("load %s curve: %w", cfg.Curve.Source, err)
	}

	lo, hi := snap.Curve.Range()
	log.WithFields(map[string]interface{}{
		"source": snap.Source,
		"as_of":  snap.AsOf.Format(dateLayout),
		"nodes":  len(snap.Curve.Points()),
		"min":    lo,
		"max":    hi,
	}).Info("Base curve loaded")

	return snap, nil
}
