package jobs

import (
	"context"
	"sync"

	"github.com/wonny/soccer-analytics/internal/health"
	"github.com/wonny/soccer-analytics/pkg/config"
	"github.com/wonny/soccer-analytics/pkg/logger"
)

// Reporter produces a health report; *health.Checker satisfies it
type Reporter interface {
	Report(ctx context.Context) *health.Report
}

// HealthMonitorJob runs the health checks and raises an alert after
// AlertAfterFailed consecutive unhealthy reports
type HealthMonitorJob struct {
	checker    Reporter
	schedule   string
	alertAfter int
	logger     *logger.Logger

	mu          sync.Mutex
	consecutive int
	last        *health.Report
}

// NewHealthMonitorJob creates a new health monitor job
func NewHealthMonitorJob(checker Reporter, cfg config.SchedulerConfig, log *logger.Logger) *HealthMonitorJob {
	alertAfter := cfg.AlertAfterFailed
	if alertAfter < 1 {
		alertAfter = 1
	}
	return &HealthMonitorJob{
		checker:    checker,
		schedule:   cfg.HealthCheckSpec,
		alertAfter: alertAfter,
		logger:     log.Module("job.health"),
	}
}

// Name returns the job name
func (j *HealthMonitorJob) Name() string {
	return "health_check"
}

// Schedule returns the cron schedule (with seconds)
func (j *HealthMonitorJob) Schedule() string {
	return j.schedule
}

// Run never fails: an unhealthy system is reported, not retried
func (j *HealthMonitorJob) Run(ctx context.Context) error {
	report := j.checker.Report(ctx)

	j.mu.Lock()
	defer j.mu.Unlock()
	j.last = report

	if report.OverallStatus != health.StatusUnhealthy {
		if j.consecutive > 0 {
			j.logger.WithField("after_failures", j.consecutive).Info("System recovered")
		}
		j.consecutive = 0
		return nil
	}

	j.consecutive++
	fields := map[string]interface{}{
		"consecutive": j.consecutive,
	}
	for name, status := range report.Statuses() {
		fields[name] = status
	}

	if j.consecutive >= j.alertAfter {
		j.logger.WithFields(fields).Errorf("ALERT: system unhealthy for %d consecutive checks", j.consecutive)
		return nil
	}
	j.logger.WithFields(fields).Warn("System unhealthy")
	return nil
}

// ConsecutiveFailures returns the current streak of unhealthy reports
func (j *HealthMonitorJob) ConsecutiveFailures() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.consecutive
}

// LastReport returns the most recent report, nil before the first run
func (j *HealthMonitorJob) LastReport() *health.Report {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.last
}
