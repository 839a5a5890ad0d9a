package scheduler

import (
	"context"
	"time"
)

// maxHistory bounds the runs remembered per job
const maxHistory = 100

// Job is a unit of recurring work: a data pull, a health check or a digest
// build. Run is retried by the scheduler, so it must be safe to repeat.
// ⭐ SSOT: the scheduled job interface is defined here only
type Job interface {
	// Name identifies the job in logs, history and the CLI (snake_case)
	Name() string

	// Run does one pass and returns an error to ask for a retry
	Run(ctx context.Context) error

	// Schedule is a cron spec with a seconds field, read in local time,
	// e.g. "0 0 6 * * *" for 06:00 daily, or a descriptor like "@hourly"
	Schedule() string
}

// JobResult is the outcome of one run, retries included
type JobResult struct {
	JobName   string        `json:"job_name"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	Attempts  int           `json:"attempts"`
	Error     string        `json:"error,omitempty"`
}

// JobHistory keeps the most recent runs of a job, oldest first
type JobHistory struct {
	Results []JobResult
}

// Add records a run and drops the oldest beyond maxHistory
func (h *JobHistory) Add(result JobResult) {
	h.Results = append(h.Results, result)
	if over := len(h.Results) - maxHistory; over > 0 {
		h.Results = h.Results[over:]
	}
}

// Latest returns up to n of the newest runs, oldest first
func (h *JobHistory) Latest(n int) []JobResult {
	if n <= 0 {
		return []JobResult{}
	}
	if n > len(h.Results) {
		n = len(h.Results)
	}
	return h.Results[len(h.Results)-n:]
}

// Failures returns the runs that failed after all retries
func (h *JobHistory) Failures() []JobResult {
	failed := make([]JobResult, 0)
	for _, r := range h.Results {
		if !r.Success {
			failed = append(failed, r)
		}
	}
	return failed
}

// SuccessRate is the share of successful runs, 0 without any run
func (h *JobHistory) SuccessRate() float64 {
	if len(h.Results) == 0 {
		return 0
	}
	return float64(len(h.Results)-len(h.Failures())) / float64(len(h.Results))
}

// Stats summarizes the history for a job. NextRun is left to the scheduler.
func (h *JobHistory) Stats(job Job) JobStats {
	failed := len(h.Failures())
	stats := JobStats{
		JobName:      job.Name(),
		Schedule:     job.Schedule(),
		TotalRuns:    len(h.Results),
		SuccessCount: len(h.Results) - failed,
		FailureCount: failed,
		SuccessRate:  h.SuccessRate(),
	}
	for _, r := range h.Results {
		started := r.StartTime
		stats.LastRun = &started
		if r.Success {
			stats.LastSuccess = &started
		} else {
			stats.LastFailure = &started
		}
	}
	return stats
}

// JobStats is what `soccer scheduler status` reports per job
type JobStats struct {
	JobName      string     `json:"job_name"`
	Schedule     string     `json:"schedule"`
	TotalRuns    int        `json:"total_runs"`
	SuccessCount int        `json:"success_count"`
	FailureCount int        `json:"failure_count"`
	SuccessRate  float64    `json:"success_rate"`
	LastRun      *time.Time `json:"last_run,omitempty"`
	LastSuccess  *time.Time `json:"last_success,omitempty"`
	LastFailure  *time.Time `json:"last_failure,omitempty"`
	NextRun      *time.Time `json:"next_run,omitempty"`
}
