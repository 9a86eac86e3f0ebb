package provision

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// Tool is the interface for an environment-provisioning tool.
// Implementations are probed in priority order; the first available tool wins.
type Tool interface {
	// Name returns the tool name for logging and error messages.
	Name() string

	// Probe reports whether the tool is discoverable on the host.
	Probe() bool

	// CreateEnv creates an isolated interpreter environment at envDir.
	CreateEnv(ctx context.Context, envDir string) error

	// Install installs packages into the environment identified by its
	// interpreter path. Output is streamed to the operator's console.
	Install(ctx context.Context, python string, packages []string) error
}

// UvTool provisions environments with uv, the fast Python package manager.
// Preferred over the stdlib venv module when available.
type UvTool struct {
	// Path is the uv executable. If empty, "uv" is resolved via PATH.
	Path string
}

func (t UvTool) binary() string {
	if t.Path != "" {
		return t.Path
	}
	return "uv"
}

// Name implements Tool.
func (t UvTool) Name() string { return "uv" }

// Probe implements Tool.
func (t UvTool) Probe() bool {
	_, err := exec.LookPath(t.binary())
	return err == nil
}

// CreateEnv implements Tool.
func (t UvTool) CreateEnv(ctx context.Context, envDir string) error {
	return runStreaming(ctx, t.binary(), "venv", envDir)
}

// Install implements Tool.
func (t UvTool) Install(ctx context.Context, python string, packages []string) error {
	args := append([]string{"pip", "install", "--python", python}, packages...)
	return runStreaming(ctx, t.binary(), args...)
}

// VenvTool provisions environments with the interpreter's own venv module.
// This is the fallback when uv is not installed.
type VenvTool struct {
	// Python is the host interpreter. If empty, "python3" is resolved via PATH.
	Python string
}

func (t VenvTool) binary() string {
	if t.Python != "" {
		return t.Python
	}
	return "python3"
}

// Name implements Tool.
func (t VenvTool) Name() string { return "venv" }

// Probe implements Tool.
func (t VenvTool) Probe() bool {
	_, err := exec.LookPath(t.binary())
	return err == nil
}

// CreateEnv implements Tool.
func (t VenvTool) CreateEnv(ctx context.Context, envDir string) error {
	return runStreaming(ctx, t.binary(), "-m", "venv", envDir)
}

// Install installs packages with the environment's own pip, so they land
// inside the isolated environment rather than the host installation.
func (t VenvTool) Install(ctx context.Context, python string, packages []string) error {
	args := append([]string{"-m", "pip", "install"}, packages...)
	return runStreaming(ctx, python, args...)
}

// DefaultTools returns the tool preference order: uv first, venv fallback.
func DefaultTools() []Tool {
	return []Tool{UvTool{}, VenvTool{}}
}

// runStreaming runs a command with its output attached to the operator's
// console, returning an error describing the command on non-zero exit.
func runStreaming(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %v: %w", name, args, err)
	}
	return nil
}
