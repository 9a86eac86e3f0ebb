package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"ortbuild/artifact"
	"ortbuild/buildcmd"
	"ortbuild/core"
	"ortbuild/db"
	"ortbuild/logging"
	"ortbuild/strategy"
)

// Provisioner ensures the isolated interpreter environment is ready.
type Provisioner interface {
	EnsureReady(ctx context.Context, workspaceRoot string) error
}

// Unifier merges the minimal runtime's static archives into one.
type Unifier interface {
	Unify(ctx context.Context, libDir string) (string, error)
}

// Invoker runs the external build command for a strategy.
type Invoker interface {
	Invoke(ctx context.Context, s strategy.Strategy, env buildcmd.Env) error
}

// Validator checks the expected output binary after the build.
type Validator interface {
	Validate(path string, s strategy.Strategy) (artifact.Report, error)
}

// RunRecorder persists completed build runs. May be nil when history is disabled.
type RunRecorder interface {
	Record(ctx context.Context, run db.BuildRun) error
}

// Runner owns the top-level control flow for one build invocation:
// provision -> (minimal only: unify) -> invoke -> validate -> report.
// Each stage is fail-fast; there are no internal retries.
type Runner struct {
	Config      core.Config
	Provisioner Provisioner
	Unifier     Unifier
	Invoker     Invoker
	Validator   Validator
	Recorder    RunRecorder
	Logger      *logging.Logger
}

// Dispatch maps the CLI token to its terminal action and returns the process
// exit code. Help prints usage and succeeds; Invalid prints usage plus the
// offending token and fails; the three build strategies run the build.
func (r *Runner) Dispatch(ctx context.Context, token string) int {
	s := strategy.Parse(token)
	switch s {
	case strategy.Help:
		fmt.Print(strategy.Usage())
		return core.ExitCodeSuccess
	case strategy.Invalid:
		color.New(color.FgRed, color.Bold).Printf("✗ %s\n\n", core.ErrInvalidStrategy(token).Error())
		fmt.Print(strategy.Usage())
		return core.ExitCodeUsage
	default:
		return r.Run(ctx, s)
	}
}

// Run executes the selected build strategy end to end and returns the
// process exit code.
func (r *Runner) Run(ctx context.Context, s strategy.Strategy) int {
	runID := uuid.New().String()
	logger := r.Logger.With(
		zap.String("run_id", runID),
		zap.String("strategy", s.String()),
	)
	started := time.Now()

	report, err := r.runStages(ctx, s, logger)

	finished := time.Now()
	code := core.ExitCodeSuccess
	errorCode := ""
	if err != nil {
		code = core.ExitCodeError
		errorCode = core.GetErrorCode(err)
		logger.Error("build failed",
			zap.String("error_code", errorCode),
			zap.Error(err),
		)
		color.New(color.FgRed, color.Bold).Printf("✗ %s\n", err.Error())
	} else {
		report.Print()
		logger.Info("build succeeded", zap.Duration("duration", finished.Sub(started)))
	}

	r.record(ctx, db.BuildRun{
		ID:           runID,
		Strategy:     s.String(),
		StartedAt:    started,
		FinishedAt:   finished,
		DurationMS:   finished.Sub(started).Milliseconds(),
		ExitCode:     code,
		ArtifactSize: report.SizeBytes,
		ErrorCode:    errorCode,
	})
	return code
}

// runStages performs the sequential build stages, stopping at the first error.
func (r *Runner) runStages(ctx context.Context, s strategy.Strategy, logger *logging.Logger) (artifact.Report, error) {
	if err := r.Provisioner.EnsureReady(ctx, r.Config.WorkspaceRoot); err != nil {
		return artifact.Report{}, err
	}

	env := buildcmd.NewEnv(r.Config.Jobs)
	if s == strategy.Minimal {
		// Unification must succeed before the build command is ever invoked.
		unified, err := r.Unifier.Unify(ctx, r.Config.AbsLibDir())
		if err != nil {
			return artifact.Report{}, err
		}
		env, err = env.WithSystemRuntime(filepath.Dir(unified))
		if err != nil {
			return artifact.Report{}, err
		}
	}

	if err := r.Invoker.Invoke(ctx, s, env); err != nil {
		return artifact.Report{}, err
	}

	return r.Validator.Validate(r.Config.AbsArtifactPath(), s)
}

// record persists the run outcome. History failures are logged but never
// change the build's exit code.
func (r *Runner) record(ctx context.Context, run db.BuildRun) {
	if r.Recorder == nil {
		return
	}
	if err := r.Recorder.Record(ctx, run); err != nil {
		r.Logger.Warn("failed to record build history", zap.Error(err))
	}
}
