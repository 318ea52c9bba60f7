package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/bondlab/pkg/logger"
)

// flakyJob fails its first `failures` runs
type flakyJob struct {
	name     string
	schedule string
	failures int32
	calls    atomic.Int32
}

func (j *flakyJob) Name() string     { return j.name }
func (j *flakyJob) Schedule() string { return j.schedule }
func (j *flakyJob) Run(ctx context.Context) error {
	if j.calls.Add(1) <= j.failures {
		return errors.New("transient")
	}
	return nil
}

func TestScheduler_AddJob(t *testing.T) {
	s := New(logger.Nop())

	require.NoError(t, s.AddJob(&flakyJob{name: "a", schedule: "@daily"}))
	assert.Error(t, s.AddJob(&flakyJob{name: "a", schedule: "@hourly"}), "duplicate name")
	assert.Error(t, s.AddJob(&flakyJob{name: "b", schedule: "not a cron"}))

	stats := s.Stats()
	require.Len(t, stats, 1)
	assert.Equal(t, "a", stats[0].JobName)
	assert.Equal(t, 0, stats[0].TotalRuns)
	assert.Nil(t, stats[0].LastRun)
}

func TestScheduler_RunNowRetries(t *testing.T) {
	s := New(logger.Nop()).WithRetry(3, 0)
	job := &flakyJob{name: "flaky", schedule: "@daily", failures: 2}
	require.NoError(t, s.AddJob(job))

	res, err := s.RunNow(context.Background(), "flaky")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 3, res.Attempts)
	assert.Empty(t, res.Error)

	stats := s.Stats()
	require.Len(t, stats, 1)
	assert.Equal(t, 1, stats[0].TotalRuns)
	assert.Equal(t, 1.0, stats[0].SuccessRate)
	assert.NotNil(t, stats[0].LastRun)
}

func TestScheduler_RunNowGivesUp(t *testing.T) {
	s := New(logger.Nop()).WithRetry(1, 0)
	job := &flakyJob{name: "broken", schedule: "@daily", failures: 10}
	require.NoError(t, s.AddJob(job))

	res, err := s.RunNow(context.Background(), "broken")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, 2, res.Attempts)
	assert.Equal(t, "transient", res.Error)
	assert.Equal(t, "transient", s.Stats()[0].LastError)
}

func TestScheduler_RunNowStopsOnCancel(t *testing.T) {
	s := New(logger.Nop()).WithRetry(5, time.Hour)
	require.NoError(t, s.AddJob(&flakyJob{name: "slow", schedule: "@daily", failures: 10}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := s.RunNow(ctx, "slow")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, 1, res.Attempts)
	assert.Equal(t, context.Canceled.Error(), res.Error)
}

func TestScheduler_RunNowUnknown(t *testing.T) {
	s := New(logger.Nop())
	_, err := s.RunNow(context.Background(), "missing")
	assert.Error(t, err)
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(logger.Nop())
	require.NoError(t, s.AddJob(&flakyJob{name: "a", schedule: "@daily"}))
	s.Start()
	s.Stop()
}

func TestJobHistory_Limit(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < historyLimit+20; i++ {
		h.AddResult(JobResult{JobName: "x", Success: i%2 == 0, Attempts: i})
	}
	assert.Len(t, h.Results, historyLimit)
	last, ok := h.Latest()
	require.True(t, ok)
	assert.Equal(t, historyLimit+19, last.Attempts)
	assert.InDelta(t, 0.5, h.SuccessRate(), 1e-12)
}
