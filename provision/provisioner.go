// Package provision ensures an isolated Python environment exists with the
// packages the external model-conversion tool needs. Provisioning is
// idempotent and shared by all build strategies.
package provision

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/zap"

	"ortbuild/core"
	"ortbuild/logging"
)

// RequiredPackages are installed into the isolated environment: the inference
// runtime library and its companion model-schema library. The environment is
// considered ready iff both import successfully.
var RequiredPackages = []string{"onnxruntime", "onnx"}

// Provisioner creates and verifies the isolated interpreter environment.
//
// Tools are probed in priority order (uv first, stdlib venv fallback); the
// first tool that probes successfully performs the provisioning.
type Provisioner struct {
	// VenvDir is the environment directory relative to the workspace root.
	VenvDir string

	// Packages to install; defaults to RequiredPackages.
	Packages []string

	// Tools in probe priority order; defaults to DefaultTools().
	Tools []Tool

	logger *logging.Logger

	// importCheck verifies the packages import in the given interpreter.
	// Overridable in tests.
	importCheck func(ctx context.Context, python string, packages []string) error
}

// NewProvisioner returns a Provisioner with the default tool order and
// package set.
func NewProvisioner(venvDir string, logger *logging.Logger) *Provisioner {
	return &Provisioner{
		VenvDir:     venvDir,
		Packages:    RequiredPackages,
		Tools:       DefaultTools(),
		logger:      logger,
		importCheck: checkImports,
	}
}

// PythonPath returns the interpreter path inside the environment for the
// given workspace root. The path is fixed per platform; its existence is not
// checked here.
func (p *Provisioner) PythonPath(workspaceRoot string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(workspaceRoot, p.VenvDir, "Scripts", "python.exe")
	}
	return filepath.Join(workspaceRoot, p.VenvDir, "bin", "python")
}

// EnsureReady makes sure the isolated environment exists and both required
// packages import successfully.
//
// Idempotence guarantee: if the interpreter already exists and the import
// check passes, EnsureReady returns immediately with no side effects.
// Otherwise it selects the first available tool, creates the environment
// directory if absent, and installs the packages (network access).
//
// Errors carry the PROVISIONING_FAILED code: no tool discoverable on the
// host, or package installation failing with the external tool's exit status.
func (p *Provisioner) EnsureReady(ctx context.Context, workspaceRoot string) error {
	python := p.PythonPath(workspaceRoot)

	if _, err := os.Stat(python); err == nil {
		if err := p.importCheck(ctx, python, p.Packages); err == nil {
			p.logger.Debug("interpreter environment already ready",
				zap.String("python", python),
				zap.Strings("packages", p.Packages),
			)
			return nil
		}
		p.logger.Debug("interpreter exists but packages missing, reinstalling",
			zap.String("python", python),
		)
	}

	tool := p.selectTool()
	if tool == nil {
		return core.ErrProvisioningFailed(
			"no provisioning tool available (tried uv, python3)",
			core.ErrNoProvisioningTool,
		)
	}
	p.logger.Info("provisioning interpreter environment",
		zap.String("tool", tool.Name()),
		zap.String("venv", filepath.Join(workspaceRoot, p.VenvDir)),
	)

	envDir := filepath.Join(workspaceRoot, p.VenvDir)
	if _, err := os.Stat(envDir); os.IsNotExist(err) {
		if err := tool.CreateEnv(ctx, envDir); err != nil {
			return core.ErrProvisioningFailed("environment creation failed", err)
		}
	}

	if err := tool.Install(ctx, python, p.Packages); err != nil {
		return core.ErrProvisioningFailed(
			"package installation failed for "+strings.Join(p.Packages, ", "),
			err,
		)
	}

	if err := p.importCheck(ctx, python, p.Packages); err != nil {
		return core.ErrProvisioningFailed("packages installed but do not import", err)
	}

	p.logger.Info("interpreter environment ready", zap.String("python", python))
	return nil
}

// selectTool returns the first tool whose probe succeeds, or nil.
func (p *Provisioner) selectTool() Tool {
	for _, tool := range p.Tools {
		if tool.Probe() {
			return tool
		}
	}
	return nil
}

// checkImports runs the interpreter with an import statement covering all
// required packages. A zero exit means the environment is ready.
func checkImports(ctx context.Context, python string, packages []string) error {
	stmt := "import " + strings.Join(packages, ", ")
	return exec.CommandContext(ctx, python, "-c", stmt).Run()
}
