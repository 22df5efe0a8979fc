// Package pipeline drives a single job through generation, approval and conversion.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spigell/cv-tailor/internal/ai"
	"github.com/spigell/cv-tailor/internal/approval"
	"github.com/spigell/cv-tailor/internal/convert"
	"github.com/spigell/cv-tailor/internal/cv"
	"github.com/spigell/cv-tailor/internal/jobs"
	"github.com/spigell/cv-tailor/internal/logger"
	"github.com/spigell/cv-tailor/internal/render"
	"github.com/spigell/cv-tailor/internal/utils"
	"go.uber.org/zap"
)

// Files kept in each job's output directory.
const (
	DraftFile    = "tailored_cv.html"
	DocumentFile = "cv.json"
	FinalFile    = "final.pdf"
	StateFile    = "state.yaml"
)

type Config struct {
	OutputDir    string
	TemplatePath string
	Schema       ai.Schema
	Projects     cv.StaticTable
	// RetryFailed resets FAILED jobs to PENDING instead of skipping them.
	RetryFailed bool
}

// Deps are the collaborators of a Pipeline. A nil Converter disables conversion.
type Deps struct {
	Generator ai.Generator
	Renderer  render.Renderer
	Converter convert.Converter
	Approver  approval.Approver
	Logger    *zap.Logger
}

type Pipeline struct {
	cfg       Config
	generator ai.Generator
	renderer  render.Renderer
	converter convert.Converter
	approver  approval.Approver
	logger    *zap.Logger
}

func New(cfg Config, deps Deps) (*Pipeline, error) {
	if cfg.OutputDir == "" {
		return nil, errors.New("output dir is required")
	}
	if cfg.TemplatePath == "" {
		return nil, errors.New("template path is required")
	}
	if err := cfg.Schema.Check(); err != nil {
		return nil, err
	}
	if deps.Generator == nil || deps.Renderer == nil || deps.Approver == nil {
		return nil, errors.New("generator, renderer and approver are required")
	}

	l := deps.Logger
	if l == nil {
		l = zap.NewNop()
	}

	return &Pipeline{
		cfg:       cfg,
		generator: deps.Generator,
		renderer:  deps.Renderer,
		converter: deps.Converter,
		approver:  deps.Approver,
		logger:    l,
	}, nil
}

// JobDir is the output directory of a job.
func (p *Pipeline) JobDir(jobID string) string {
	return filepath.Join(p.cfg.OutputDir, jobID)
}

// Run advances the job as far as possible in one pass and checkpoints every transition.
// A job waiting for approval stays GENERATED; the next pass picks it up from the checkpoint.
func (p *Pipeline) Run(ctx context.Context, job jobs.Descriptor, runID string) JobResult {
	log := logger.WithJob(p.logger, job.ID, runID)
	statePath := filepath.Join(p.JobDir(job.ID), StateFile)

	st, found, err := LoadState(statePath)
	if err != nil {
		// the broken checkpoint is left on disk for inspection
		st = NewState(job.ID, job.Path)
		_ = st.Fail(err)
		log.Error("job failed", zap.Error(err), zap.String("error_kind", string(st.ErrorKind)))
		return p.result(st, runID, err)
	}

	if !found {
		st = NewState(job.ID, job.Path)
		if err := st.Save(statePath); err != nil {
			return p.fail(ctx, st, statePath, runID, err, log)
		}
	}

	if st.Status == StatusFailed && p.cfg.RetryFailed {
		if err := st.Reset(); err != nil {
			return p.fail(ctx, st, statePath, runID, err, log)
		}
		if err := st.Save(statePath); err != nil {
			return p.fail(ctx, st, statePath, runID, err, log)
		}
		log.Info("retrying failed job")
	}

	if st.Status.Terminal() {
		log.Info("job skipped", zap.String("status", string(st.Status)))
		res := p.result(st, runID, nil)
		res.Skipped = true
		return res
	}

	log.Info("job started", zap.String("status", string(st.Status)))

	for !st.Status.Terminal() {
		if err := ctx.Err(); err != nil {
			log.Warn("job interrupted", zap.String("status", string(st.Status)), zap.Error(err))
			return p.result(st, runID, err)
		}

		switch st.Status {
		case StatusPending:
			if err := p.generate(ctx, job, st); err != nil {
				return p.fail(ctx, st, statePath, runID, err, log)
			}
			if err := p.advance(st, statePath, StatusGenerated, ""); err != nil {
				return p.fail(ctx, st, statePath, runID, err, log)
			}
			log.Info("draft generated", zap.String("draft", st.DraftPath))

		case StatusGenerated:
			decision, err := p.review(ctx, job, st)
			if err != nil {
				var inputErr *jobs.InputError
				if errors.As(err, &inputErr) {
					return p.fail(ctx, st, statePath, runID, err, log)
				}
				log.Warn("approval check failed", zap.Error(err))
				return p.result(st, runID, err)
			}

			switch decision {
			case approval.Approved:
				if err := p.advance(st, statePath, StatusApproved, ""); err != nil {
					return p.fail(ctx, st, statePath, runID, err, log)
				}
				log.Info("job approved")
			case approval.Rejected:
				if err := p.advance(st, statePath, StatusRejected, ""); err != nil {
					return p.fail(ctx, st, statePath, runID, err, log)
				}
				log.Info("job rejected")
			default:
				log.Info("awaiting approval", zap.String("draft", st.DraftPath))
				return p.result(st, runID, nil)
			}

		case StatusApproved:
			note, err := p.finalize(ctx, st)
			if err != nil {
				return p.fail(ctx, st, statePath, runID, err, log)
			}
			if err := p.advance(st, statePath, StatusDone, note); err != nil {
				return p.fail(ctx, st, statePath, runID, err, log)
			}
			if st.FinalPath == "" {
				log.Info("conversion disabled, draft is the final artifact", zap.String("draft", st.DraftPath))
			} else {
				log.Info("job converted", zap.String("final", st.FinalPath))
			}
		}
	}

	return p.result(st, runID, nil)
}

func (p *Pipeline) generate(ctx context.Context, job jobs.Descriptor, st *State) error {
	dir := p.JobDir(job.ID)

	listing, err := jobs.ReadListing(job.Path)
	if err != nil {
		return err
	}

	doc, err := p.generator.Generate(ctx, listing, p.cfg.Schema)
	if err != nil {
		return err
	}
	if doc == nil {
		return errors.New("generator returned no document")
	}

	merged := cv.Merge(doc, p.cfg.Projects)

	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	documentPath := filepath.Join(dir, DocumentFile)
	if err := utils.WriteFileAtomic(documentPath, data, 0o644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}

	draft, err := p.renderer.Render(ctx, merged, p.cfg.TemplatePath, filepath.Join(dir, DraftFile))
	if err != nil {
		return err
	}

	// a new draft needs a new decision; markers left by an earlier attempt do not apply to it
	if err := approval.Mark(dir, approval.Pending); err != nil {
		return fmt.Errorf("clear approval markers: %w", err)
	}

	st.DocumentPath = documentPath
	st.DraftPath = draft
	return nil
}

func (p *Pipeline) review(ctx context.Context, job jobs.Descriptor, st *State) (approval.Decision, error) {
	if st.DraftPath == "" {
		st.DraftPath = filepath.Join(p.JobDir(job.ID), DraftFile)
	}

	if _, err := os.Stat(st.DraftPath); err != nil {
		return approval.Pending, &jobs.InputError{Path: st.DraftPath, Message: "draft is missing", Cause: err}
	}

	return p.approver.Decide(ctx, job.ID, st.DraftPath)
}

func (p *Pipeline) finalize(ctx context.Context, st *State) (string, error) {
	if p.converter == nil {
		return "conversion disabled", nil
	}

	finalPath := filepath.Join(filepath.Dir(st.DraftPath), FinalFile)
	if err := p.converter.Convert(ctx, st.DraftPath, finalPath); err != nil {
		return "", err
	}

	st.FinalPath = finalPath
	return "", nil
}

// advance commits the transition to st only after its checkpoint is saved.
func (p *Pipeline) advance(st *State, statePath string, to Status, note string) error {
	next := *st
	next.History = append([]Transition(nil), st.History...)

	if err := next.Transition(to, note); err != nil {
		return err
	}
	if err := next.Save(statePath); err != nil {
		return err
	}

	*st = next
	return nil
}

func (p *Pipeline) fail(ctx context.Context, st *State, statePath, runID string, cause error, log *zap.Logger) JobResult {
	if ctx.Err() != nil {
		// cancelled work is resumed from the last checkpoint, not counted as a failure
		log.Warn("job interrupted", zap.String("status", string(st.Status)), zap.Error(cause))
		return p.result(st, runID, cause)
	}

	if err := st.Fail(cause); err != nil {
		log.Error("cannot mark job failed", zap.Error(err))
	} else if err := st.Save(statePath); err != nil {
		log.Error("cannot save checkpoint", zap.Error(err))
	}

	log.Error("job failed",
		zap.Error(cause),
		zap.String("error_kind", string(Classify(cause))),
		zap.String("status", string(st.Status)),
	)

	return p.result(st, runID, cause)
}

func (p *Pipeline) result(st *State, runID string, err error) JobResult {
	res := JobResult{
		JobID:     st.JobID,
		RunID:     runID,
		State:     *st,
		DraftPath: st.DraftPath,
		FinalPath: st.FinalPath,
	}

	if err != nil {
		res.Error = err.Error()
		res.ErrorKind = Classify(err)
	} else if st.Status == StatusFailed {
		res.Error = st.Error
		res.ErrorKind = st.ErrorKind
	}

	return res
}
