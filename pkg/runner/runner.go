package runner

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/idiomlint/internal/logging"
	"github.com/yaklabco/idiomlint/pkg/lint"
)

// Runner orchestrates multi-file linting using a lint.Pipeline.
type Runner struct {
	// Pipeline handles per-file processing with safety guarantees.
	Pipeline *lint.Pipeline
}

// New creates a new Runner with the given pipeline.
func New(pipeline *lint.Pipeline) *Runner {
	return &Runner{Pipeline: pipeline}
}

// Run discovers model files under opts.Paths and processes them concurrently.
// Outcomes are reported in discovery order no matter which file finishes
// first. A file that fails to load becomes an errored outcome and never
// stops the run. Cancellation stops files that have not started yet.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}
	return r.RunFiles(ctx, files, opts)
}

// RunFiles processes an already discovered list of model files.
func (r *Runner) RunFiles(ctx context.Context, files []string, opts Options) (*Result, error) {
	logger := logging.FromContext(ctx)

	result := newResult(len(files), opts.Config != nil && opts.Config.Strict)

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	pipelineOpts := lint.PipelineOptionsFromConfig(opts.Config)

	// Each goroutine owns its slot, so no locking is needed.
	outcomes := make([]FileOutcome, len(files))
	started := make([]bool, len(files))

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		group.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			started[i] = true

			outcome := FileOutcome{Path: path}
			pr, procErr := r.Pipeline.ProcessFile(gctx, path, pipelineOpts)
			if procErr != nil {
				outcome.Error = procErr
				logger.Warn("failed to process model",
					logging.FieldPath, path,
					logging.FieldError, procErr)
			} else {
				outcome.Result = pr
				if pr.FileResult != nil {
					logger.Debug("linted model",
						logging.FieldPath, path,
						logging.FieldDiagnostics, len(pr.Diagnostics),
						logging.FieldSuppressed, pr.Suppressed)
				}
			}
			outcomes[i] = outcome
			return nil
		})
	}

	// Workers never return errors; a failing file is an outcome.
	_ = group.Wait()

	for i := range outcomes {
		if started[i] {
			result.accumulate(outcomes[i])
		}
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	return result, nil
}
