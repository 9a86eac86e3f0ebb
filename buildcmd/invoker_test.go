package buildcmd

import (
	"context"
	"errors"
	"os/exec"
	"slices"
	"strings"
	"testing"

	"ortbuild/core"
	"ortbuild/logging"
	"ortbuild/strategy"
)

func TestFeatureArgs(t *testing.T) {
	tests := []struct {
		name     string
		strategy strategy.Strategy
		feature  string
	}{
		{"dynamic enables dynamic feature", strategy.Dynamic, "dynamic"},
		{"static enables download feature", strategy.Static, "download"},
		{"minimal enables static feature", strategy.Minimal, "static"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := FeatureArgs(tt.strategy)

			if !slices.Contains(args, "--no-default-features") {
				t.Error("default features must be disabled for every strategy")
			}
			idx := slices.Index(args, "--features")
			if idx < 0 || idx+1 >= len(args) {
				t.Fatalf("args %v missing --features flag", args)
			}
			if args[idx+1] != tt.feature {
				t.Errorf("feature = %q, want %q", args[idx+1], tt.feature)
			}
		})
	}
}

func TestFeatureArgsNonBuildStrategies(t *testing.T) {
	for _, s := range []strategy.Strategy{strategy.Help, strategy.Invalid} {
		if args := FeatureArgs(s); args != nil {
			t.Errorf("FeatureArgs(%v) = %v, want nil", s, args)
		}
	}
}

func TestInvokePreparesCommand(t *testing.T) {
	inv := NewInvoker("cargo", "/workspace", logging.NewNopLogger())
	var captured *exec.Cmd
	inv.runCmd = func(cmd *exec.Cmd) error {
		captured = cmd
		return nil
	}

	env := Env{EnvBuildJobs: "4"}
	if err := inv.Invoke(context.Background(), strategy.Static, env); err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}

	if captured.Dir != "/workspace" {
		t.Errorf("working dir = %q, want %q", captured.Dir, "/workspace")
	}
	joined := strings.Join(captured.Args, " ")
	if !strings.Contains(joined, "build --release --no-default-features --features download") {
		t.Errorf("unexpected command line: %s", joined)
	}
	if !slices.Contains(captured.Env, "CARGO_BUILD_JOBS=4") {
		t.Error("command env must include the parallelism hint")
	}
}

func TestInvokeBuildFailure(t *testing.T) {
	inv := NewInvoker("cargo", ".", logging.NewNopLogger())
	inv.runCmd = func(cmd *exec.Cmd) error {
		return errors.New("exit status 101")
	}

	err := inv.Invoke(context.Background(), strategy.Dynamic, NewEnv(1))
	if err == nil {
		t.Fatal("expected error when the build command fails")
	}
	if code := core.GetErrorCode(err); code != core.ErrCodeBuildCommandFailed {
		t.Errorf("error code = %q, want %q", code, core.ErrCodeBuildCommandFailed)
	}
}
