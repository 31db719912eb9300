// Package scheduler runs the data health report on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/erp/uom/internal/application/health"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// HealthRunner produces one data health report
type HealthRunner interface {
	Run(ctx context.Context) (*health.DataHealthReport, error)
}

// ReportArchiver keeps a copy of each completed report
type ReportArchiver interface {
	Archive(ctx context.Context, report *health.DataHealthReport) (string, error)
}

// HealthJobConfig holds the schedule of the data health job
type HealthJobConfig struct {
	Enabled bool
	// Spec is a robfig/cron spec: five fields, a descriptor like "@daily",
	// or "@every 1h".
	Spec    string
	Timeout time.Duration
}

// DefaultHealthJobConfig returns an hourly schedule
func DefaultHealthJobConfig() HealthJobConfig {
	return HealthJobConfig{
		Enabled: true,
		Spec:    "@every 1h",
		Timeout: 5 * time.Minute,
	}
}

// Validate checks the cron schedule parses and the timeout is positive
func (c HealthJobConfig) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}
	if _, err := cron.ParseStandard(c.Spec); err != nil {
		return fmt.Errorf("%w: cron spec %q: %v", ErrInvalidConfig, c.Spec, err)
	}
	return nil
}

// HealthCheckJob runs the data health report periodically. Overlapping runs
// are skipped rather than queued.
type HealthCheckJob struct {
	config  HealthJobConfig
	runner  HealthRunner
	archive ReportArchiver
	logger  *zap.Logger

	cron      *cron.Cron
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.Mutex
	isRunning bool
	last      *health.DataHealthReport
	runs      int
}

// NewHealthCheckJob creates a job; it does nothing until Start
func NewHealthCheckJob(config HealthJobConfig, runner HealthRunner, logger *zap.Logger) (*HealthCheckJob, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthCheckJob{
		config: config,
		runner: runner,
		logger: logger.Named("health_job"),
	}, nil
}

// SetArchive makes every successful run store its report in archive.
// Archive failures are logged and never fail the run.
func (j *HealthCheckJob) SetArchive(archive ReportArchiver) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.archive = archive
}

// Start registers the job with cron and starts ticking. It is a no-op when
// the job is disabled or already running.
func (j *HealthCheckJob) Start(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.config.Enabled || j.isRunning {
		return nil
	}

	cl := newCronLogger(j.logger)
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	if _, err := c.AddFunc(j.config.Spec, func() { _, _ = j.RunNow() }); err != nil {
		return fmt.Errorf("failed to schedule health job: %w", err)
	}

	j.ctx, j.cancel = context.WithCancel(ctx)
	j.cron = c
	j.isRunning = true
	c.Start()

	j.logger.Info("Data health job started", zap.String("spec", j.config.Spec))
	return nil
}

// Stop stops scheduling and waits for a run in progress, bounded by ctx
func (j *HealthCheckJob) Stop(ctx context.Context) error {
	j.mu.Lock()
	if !j.isRunning {
		j.mu.Unlock()
		return nil
	}
	j.isRunning = false
	c, cancel := j.cron, j.cancel
	j.mu.Unlock()

	done := c.Stop()
	select {
	case <-done.Done():
		cancel()
		j.logger.Info("Data health job stopped gracefully")
		return nil
	case <-ctx.Done():
		cancel()
		j.logger.Warn("Data health job stop timed out")
		return ctx.Err()
	}
}

// RunNow runs the report once within the configured timeout
func (j *HealthCheckJob) RunNow() (*health.DataHealthReport, error) {
	j.mu.Lock()
	parent := j.ctx
	j.mu.Unlock()
	if parent == nil {
		parent = context.Background()
	}

	ctx, cancel := context.WithTimeout(parent, j.config.Timeout)
	defer cancel()

	report, err := j.runner.Run(ctx)
	if err != nil {
		j.logger.Error("Data health run failed", zap.Error(err))
		return nil, err
	}

	j.mu.Lock()
	j.last = report
	j.runs++
	archive := j.archive
	j.mu.Unlock()

	if archive != nil {
		if key, err := archive.Archive(ctx, report); err != nil {
			j.logger.Error("Failed to archive health report", zap.Error(err))
		} else {
			j.logger.Info("Health report archived", zap.String("key", key))
		}
	}

	j.logger.Info("Data health run completed",
		zap.Int("ok", report.OKCount),
		zap.Int("failed", report.FailCount),
	)
	return report, nil
}

// LastReport returns the most recent successful report, if any
func (j *HealthCheckJob) LastReport() *health.DataHealthReport {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.last
}

// Runs returns the number of completed runs
func (j *HealthCheckJob) Runs() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.runs
}

// IsRunning reports whether the job is scheduled
func (j *HealthCheckJob) IsRunning() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.isRunning
}
