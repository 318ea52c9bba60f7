package jobs

import (
	"context"
	"time"

	"github.com/wonny/bondlab/internal/marketdata"
	"github.com/wonny/bondlab/pkg/logger"
)

// CurveRefreshJob reloads the base curve and installs it in the store
type CurveRefreshJob struct {
	schedule string
	provider marketdata.Provider
	source   string
	start    time.Time
	store    *marketdata.Store
	logger   *logger.Logger
}

// NewCurveRefreshJob creates a new curve refresh job
func NewCurveRefreshJob(schedule string, provider marketdata.Provider, source string, start time.Time, store *marketdata.Store, log *logger.Logger) *CurveRefreshJob {
	return &CurveRefreshJob{
		schedule: schedule,
		provider: provider,
		source:   source,
		start:    start,
		store:    store,
		logger:   log,
	}
}

// Name returns the job name
func (j *CurveRefreshJob) Name() string {
	return "curve_refresh"
}

// Schedule returns the cron schedule
func (j *CurveRefreshJob) Schedule() string {
	return j.schedule
}

// Run fetches a new snapshot. On failure the current curve stays in effect.
func (j *CurveRefreshJob) Run(ctx context.Context) error {
	snap, err := marketdata.LoadSnapshot(ctx, j.provider, j.source, j.start)
	if err != nil {
		return err
	}

	prev, err := j.store.Swap(snap)
	if err != nil {
		return err
	}

	fields := map[string]interface{}{
		"source": snap.Source,
		"as_of":  snap.AsOf.Format("2006-01-02"),
	}
	if prev != nil {
		fields["prev_as_of"] = prev.AsOf.Format("2006-01-02")
	}
	j.logger.WithFields(fields).Info("Base curve refreshed")

	return nil
}
