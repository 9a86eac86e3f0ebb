// Package buildcmd configures and invokes the external build command
// (cargo) with the feature flags and environment of the selected strategy.
// Its responsibility ends at producing correct flags and observing the
// command's exit status; the compilation itself is opaque.
package buildcmd

import (
	"context"
	"os"
	"os/exec"

	"go.uber.org/zap"

	"ortbuild/core"
	"ortbuild/logging"
	"ortbuild/strategy"
)

// FeatureArgs returns the build-command arguments for the strategy.
// The mapping is a closed table: every strategy disables default features and
// enables exactly one runtime feature.
//
//	Dynamic -> dynamic   (system shared runtime)
//	Static  -> download  (vendor-distributed archive)
//	Minimal -> static    (locally built size-reduced runtime)
//
// This is a pure function with no side effects.
func FeatureArgs(s strategy.Strategy) []string {
	base := []string{"build", "--release", "--no-default-features"}
	switch s {
	case strategy.Dynamic:
		return append(base, "--features", "dynamic")
	case strategy.Static:
		return append(base, "--features", "download")
	case strategy.Minimal:
		return append(base, "--features", "static")
	default:
		return nil
	}
}

// Invoker runs the external build command.
type Invoker struct {
	// CargoPath is the build command executable.
	CargoPath string

	// Dir is the working directory for the build (the workspace root).
	Dir string

	logger *logging.Logger

	// runCmd executes the prepared command. Overridable in tests.
	runCmd func(cmd *exec.Cmd) error
}

// NewInvoker returns an Invoker that runs the build command in dir.
func NewInvoker(cargoPath, dir string, logger *logging.Logger) *Invoker {
	return &Invoker{
		CargoPath: cargoPath,
		Dir:       dir,
		logger:    logger,
		runCmd:    func(cmd *exec.Cmd) error { return cmd.Run() },
	}
}

// Invoke runs the build command for the strategy with the given environment.
//
// The env value object is appended to the inherited process environment for
// this single invocation only; the orchestrator's own environment is never
// mutated. A non-zero exit status is a fatal BUILD_COMMAND_FAILED error.
func (i *Invoker) Invoke(ctx context.Context, s strategy.Strategy, env Env) error {
	args := FeatureArgs(s)

	cmd := exec.CommandContext(ctx, i.CargoPath, args...)
	cmd.Dir = i.Dir
	cmd.Env = append(os.Environ(), env.Flatten()...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	i.logger.Info("invoking build command",
		zap.String("command", i.CargoPath),
		zap.Strings("args", args),
		zap.Strings("env", env.Flatten()),
	)

	if err := i.runCmd(cmd); err != nil {
		return core.ErrBuildCommandFailed(i.CargoPath, err)
	}
	return nil
}
