// Package batch runs the pipeline over every discovered job.
package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spigell/cv-tailor/internal/jobs"
	"github.com/spigell/cv-tailor/internal/logger"
	"github.com/spigell/cv-tailor/internal/pipeline"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// JobRunner processes a single job. *pipeline.Pipeline implements it.
type JobRunner interface {
	Run(ctx context.Context, job jobs.Descriptor, runID string) pipeline.JobResult
}

// Runner processes jobs independently: one job failing or panicking never stops the others.
type Runner struct {
	Pipeline JobRunner
	// Concurrency bounds parallel jobs. Zero or less runs every job at once.
	Concurrency int
	Logger      *zap.Logger
}

// Report is the outcome of one batch.
type Report struct {
	RunID    string
	Started  time.Time
	Finished time.Time
	// Results holds one entry per job, in discovery order.
	Results []pipeline.JobResult
}

// RunAll runs every job and waits for all of them.
func (r *Runner) RunAll(ctx context.Context, descriptors []jobs.Descriptor) Report {
	log := r.Logger
	if log == nil {
		log = zap.NewNop()
	}

	report := Report{
		RunID:   uuid.NewString(),
		Started: time.Now(),
		Results: make([]pipeline.JobResult, len(descriptors)),
	}
	log = log.With(zap.String("run_id", report.RunID))

	limit := r.Concurrency
	if limit <= 0 {
		limit = len(descriptors)
	}

	log.Info("batch started", zap.Int("jobs", len(descriptors)), zap.Int("concurrency", limit))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, job := range descriptors {
		g.Go(func() error {
			report.Results[i] = r.runJob(ctx, job, report.RunID, log)
			return nil
		})
	}

	// jobs never return errors, failures live in the results
	_ = g.Wait()

	report.Finished = time.Now()
	summary := Summarize(report.Results)

	log.Info("batch finished",
		zap.Int("total", summary.Total),
		zap.Int("done", summary.Count(pipeline.StatusDone)),
		zap.Int("awaiting_approval", summary.Count(pipeline.StatusGenerated)),
		zap.Int("rejected", summary.Count(pipeline.StatusRejected)),
		zap.Int("failed", summary.Count(pipeline.StatusFailed)),
		zap.Int("skipped", summary.Skipped),
		zap.Duration("elapsed", report.Finished.Sub(report.Started)),
	)

	return report
}

func (r *Runner) runJob(ctx context.Context, job jobs.Descriptor, runID string, log *zap.Logger) (res pipeline.JobResult) {
	defer func() {
		if rec := recover(); rec != nil {
			err := fmt.Errorf("panic while processing job: %v", rec)
			st := pipeline.NewState(job.ID, job.Path)
			_ = st.Fail(err)

			logger.WithJob(log, job.ID, "").Error("job failed",
				zap.Error(err),
				zap.String("error_kind", string(st.ErrorKind)),
			)

			res = pipeline.JobResult{
				JobID:     job.ID,
				RunID:     runID,
				State:     *st,
				Error:     err.Error(),
				ErrorKind: st.ErrorKind,
			}
		}
	}()

	return r.Pipeline.Run(ctx, job, runID)
}

// Summary counts job results by status.
type Summary struct {
	Total    int
	Skipped  int
	ByStatus map[pipeline.Status]int
}

func (s Summary) Count(status pipeline.Status) int {
	return s.ByStatus[status]
}

func Summarize(results []pipeline.JobResult) Summary {
	s := Summary{Total: len(results), ByStatus: make(map[pipeline.Status]int)}
	for _, res := range results {
		s.ByStatus[res.Status()]++
		if res.Skipped {
			s.Skipped++
		}
	}
	return s
}
