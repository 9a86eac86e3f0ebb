package provision

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"ortbuild/core"
	"ortbuild/logging"
)

// fakeTool records provisioning calls for assertions.
type fakeTool struct {
	name       string
	available  bool
	createErr  error
	installErr error

	createCalls  int
	installCalls int
}

func (f *fakeTool) Name() string { return f.name }
func (f *fakeTool) Probe() bool  { return f.available }

func (f *fakeTool) CreateEnv(ctx context.Context, envDir string) error {
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	return os.MkdirAll(envDir, 0755)
}

func (f *fakeTool) Install(ctx context.Context, python string, packages []string) error {
	f.installCalls++
	return f.installErr
}

func newTestProvisioner(tools []Tool, importCheck func(ctx context.Context, python string, packages []string) error) *Provisioner {
	p := NewProvisioner(".venv", logging.NewNopLogger())
	p.Tools = tools
	p.importCheck = importCheck
	return p
}

// writeInterpreter creates the fixed interpreter sub-path under the workspace.
func writeInterpreter(t *testing.T, workspace string, p *Provisioner) {
	t.Helper()
	python := p.PythonPath(workspace)
	if err := os.MkdirAll(filepath.Dir(python), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(python, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}
}

func TestEnsureReadyIdempotent(t *testing.T) {
	workspace := t.TempDir()
	tool := &fakeTool{name: "uv", available: true}
	checkCalls := 0
	p := newTestProvisioner([]Tool{tool}, func(ctx context.Context, python string, packages []string) error {
		checkCalls++
		return nil
	})
	writeInterpreter(t, workspace, p)

	// Calling twice with a ready environment produces no side effects and
	// succeeds both times.
	for i := 0; i < 2; i++ {
		if err := p.EnsureReady(context.Background(), workspace); err != nil {
			t.Fatalf("EnsureReady call %d failed: %v", i+1, err)
		}
	}
	if tool.createCalls != 0 || tool.installCalls != 0 {
		t.Errorf("ready environment must not be re-provisioned: creates=%d installs=%d",
			tool.createCalls, tool.installCalls)
	}
	if checkCalls != 2 {
		t.Errorf("import check calls = %d, want 2", checkCalls)
	}
}

func TestEnsureReadyNoToolAvailable(t *testing.T) {
	workspace := t.TempDir()
	p := newTestProvisioner(
		[]Tool{&fakeTool{name: "uv"}, &fakeTool{name: "venv"}},
		func(ctx context.Context, python string, packages []string) error {
			return errors.New("no interpreter")
		},
	)

	err := p.EnsureReady(context.Background(), workspace)
	if err == nil {
		t.Fatal("expected error when no provisioning tool is available")
	}
	if code := core.GetErrorCode(err); code != core.ErrCodeProvisioningFailed {
		t.Errorf("error code = %q, want %q", code, core.ErrCodeProvisioningFailed)
	}
	if !errors.Is(err, core.ErrNoProvisioningTool) {
		t.Errorf("error should wrap ErrNoProvisioningTool, got: %v", err)
	}
}

func TestEnsureReadyToolPreferenceOrder(t *testing.T) {
	workspace := t.TempDir()
	preferred := &fakeTool{name: "uv"} // not available
	fallback := &fakeTool{name: "venv", available: true}

	// Imports succeed only after the fallback tool has installed packages.
	p := newTestProvisioner([]Tool{preferred, fallback},
		func(ctx context.Context, python string, packages []string) error {
			if fallback.installCalls > 0 {
				return nil
			}
			return errors.New("packages not installed")
		},
	)

	if err := p.EnsureReady(context.Background(), workspace); err != nil {
		t.Fatalf("EnsureReady failed: %v", err)
	}
	if preferred.createCalls != 0 || preferred.installCalls != 0 {
		t.Error("unavailable preferred tool must not be used")
	}
	if fallback.createCalls != 1 || fallback.installCalls != 1 {
		t.Errorf("fallback tool calls: creates=%d installs=%d, want 1 each",
			fallback.createCalls, fallback.installCalls)
	}
}

func TestEnsureReadyInstallFailure(t *testing.T) {
	workspace := t.TempDir()
	tool := &fakeTool{
		name:       "uv",
		available:  true,
		installErr: errors.New("exit status 1"),
	}
	p := newTestProvisioner([]Tool{tool},
		func(ctx context.Context, python string, packages []string) error {
			return errors.New("not installed")
		},
	)

	err := p.EnsureReady(context.Background(), workspace)
	if err == nil {
		t.Fatal("expected error when package installation fails")
	}
	if code := core.GetErrorCode(err); code != core.ErrCodeProvisioningFailed {
		t.Errorf("error code = %q, want %q", code, core.ErrCodeProvisioningFailed)
	}
}

func TestPythonPath(t *testing.T) {
	p := NewProvisioner(".venv", logging.NewNopLogger())
	got := p.PythonPath("/workspace")

	// Unix layout; the Windows variant uses Scripts/python.exe.
	want := filepath.Join("/workspace", ".venv", "bin", "python")
	if got != want && filepath.Base(got) != "python.exe" {
		t.Errorf("PythonPath = %q, want %q", got, want)
	}
}

func TestRequiredPackages(t *testing.T) {
	// The environment is ready iff both the runtime library and its
	// companion schema library import.
	if len(RequiredPackages) != 2 {
		t.Fatalf("RequiredPackages = %v, want exactly two packages", RequiredPackages)
	}
	if RequiredPackages[0] != "onnxruntime" || RequiredPackages[1] != "onnx" {
		t.Errorf("RequiredPackages = %v, want [onnxruntime onnx]", RequiredPackages)
	}
}
