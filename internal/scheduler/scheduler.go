package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/wonny/bondlab/pkg/logger"
)

// Scheduler runs jobs on cron schedules with retry
// ⭐ SSOT: 스케줄 관리는 이 스케줄러에서만
type Scheduler struct {
	cron    *cron.Cron
	logger  *logger.Logger
	jobs    map[string]Job
	history map[string]*JobHistory
	mu      sync.RWMutex

	// Retry configuration
	maxRetries int
	retryDelay time.Duration

	// cancelled on Stop so in-flight retries end early
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new scheduler
func New(log *logger.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:       cron.New(cron.WithSeconds()),
		logger:     log,
		jobs:       make(map[string]Job),
		history:    make(map[string]*JobHistory),
		maxRetries: 3,
		retryDelay: 1 * time.Minute,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// WithRetry sets retry count and delay between attempts
func (s *Scheduler) WithRetry(maxRetries int, delay time.Duration) *Scheduler {
	s.maxRetries = maxRetries
	s.retryDelay = delay
	return s
}

// AddJob registers a job on its schedule
func (s *Scheduler) AddJob(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobName := job.Name()
	if _, exists := s.jobs[jobName]; exists {
		return fmt.Errorf("job %s already exists", jobName)
	}

	_, err := s.cron.AddFunc(job.Schedule(), func() {
		s.runJob(s.ctx, job)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", jobName, err)
	}

	s.jobs[jobName] = job
	s.history[jobName] = &JobHistory{}

	s.logger.WithFields(map[string]interface{}{
		"job":      jobName,
		"schedule": job.Schedule(),
	}).Info("Job added to scheduler")

	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.logger.Info("Starting scheduler")
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	s.cancel()
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}

// RunNow runs a job immediately (outside of schedule) and waits for it
func (s *Scheduler) RunNow(ctx context.Context, jobName string) (JobResult, error) {
	s.mu.RLock()
	job, exists := s.jobs[jobName]
	s.mu.RUnlock()

	if !exists {
		return JobResult{}, fmt.Errorf("job %s not found", jobName)
	}
	return s.runJob(ctx, job), nil
}

// runJob executes a job with retry logic and records the result
func (s *Scheduler) runJob(ctx context.Context, job Job) JobResult {
	jobName := job.Name()
	result := JobResult{JobName: jobName, StartTime: time.Now()}

	s.logger.WithField("job", jobName).Debug("Job started")

	var lastErr error
retry:
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		result.Attempts = attempt + 1

		lastErr = job.Run(ctx)
		if lastErr == nil {
			result.Success = true
			break
		}

		s.logger.WithFields(map[string]interface{}{
			"job":     jobName,
			"attempt": attempt + 1,
			"error":   lastErr.Error(),
		}).Warn("Job execution failed, retrying")

		if attempt == s.maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			lastErr = ctx.Err()
			break retry
		case <-time.After(s.retryDelay):
		}
	}

	result.Duration = time.Since(result.StartTime)
	if !result.Success && lastErr != nil {
		result.Error = lastErr.Error()
	}

	s.mu.Lock()
	if history, exists := s.history[jobName]; exists {
		history.AddResult(result)
	}
	s.mu.Unlock()

	entry := s.logger.WithFields(map[string]interface{}{
		"job":      jobName,
		"duration": result.Duration,
		"attempts": result.Attempts,
	})
	if result.Success {
		entry.Info("Job completed successfully")
	} else {
		entry.WithField("error", result.Error).Error("Job failed after all retries")
	}
	return result
}

// JobStats represents statistics for a job
type JobStats struct {
	JobName     string     `json:"job_name"`
	Schedule    string     `json:"schedule"`
	TotalRuns   int        `json:"total_runs"`
	SuccessRate float64    `json:"success_rate"`
	LastRun     *time.Time `json:"last_run,omitempty"`
	LastError   string     `json:"last_error,omitempty"`
}

// Stats returns statistics for all jobs, ordered by name
func (s *Scheduler) Stats() []JobStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]JobStats, 0, len(s.jobs))
	for name, job := range s.jobs {
		history := s.history[name]
		st := JobStats{
			JobName:     name,
			Schedule:    job.Schedule(),
			TotalRuns:   len(history.Results),
			SuccessRate: history.SuccessRate(),
		}
		if last, ok := history.Latest(); ok {
			started := last.StartTime
			st.LastRun = &started
			st.LastError = last.Error
		}
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JobName < out[j].JobName })
	return out
}
