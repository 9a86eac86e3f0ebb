package core

import (
	"errors"
	"fmt"
)

// BuildError represents a build-orchestration error with actionable instructions.
// The design is fail-fast: none of these are retried internally. The Action
// field tells the operator what to do before re-running the command.
type BuildError struct {
	Code    string // Error code for programmatic handling
	Message string // Human-readable error message
	Action  string // Actionable instruction for resolution
	Err     error  // Wrapped underlying error (if any)
}

func (e *BuildError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Action != "" {
		return fmt.Sprintf("%s. %s", msg, e.Action)
	}
	return msg
}

// Unwrap returns the wrapped error, allowing use with errors.Is and errors.As.
func (e *BuildError) Unwrap() error {
	return e.Err
}

// Error codes for build-orchestration errors
const (
	ErrCodeProvisioningFailed  = "PROVISIONING_FAILED"
	ErrCodeMissingPrerequisite = "MISSING_PREREQUISITE"
	ErrCodeArchiveToolFailed   = "ARCHIVE_TOOL_FAILED"
	ErrCodeBuildCommandFailed  = "BUILD_COMMAND_FAILED"
	ErrCodeArtifactMissing     = "ARTIFACT_MISSING"
	ErrCodeInvalidStrategy     = "INVALID_STRATEGY"
)

// Sentinel errors for common failure conditions, used with errors.Is().
var (
	// ErrNoProvisioningTool indicates neither uv nor a python3 with the venv
	// module could be found on the host.
	ErrNoProvisioningTool = errors.New("no environment provisioning tool found")

	// ErrPackageInstallFailed indicates the package installer exited non-zero.
	ErrPackageInstallFailed = errors.New("package installation failed")
)

// ErrProvisioningFailed returns an error for a failed interpreter-environment setup.
func ErrProvisioningFailed(reason string, err error) *BuildError {
	return &BuildError{
		Code:    ErrCodeProvisioningFailed,
		Message: fmt.Sprintf("Python environment provisioning failed: %s", reason),
		Action:  "Install uv (https://docs.astral.sh/uv/) or python3, then re-run the build",
		Err:     err,
	}
}

// ErrMissingPrerequisite returns an error for the minimal strategy's absent lib directory.
func ErrMissingPrerequisite(libDir string) *BuildError {
	return &BuildError{
		Code:    ErrCodeMissingPrerequisite,
		Message: fmt.Sprintf("Minimal runtime library directory not found: %s", libDir),
		Action:  "Run the containerized minimal ONNX Runtime build first to produce the static archives",
	}
}

// ErrArchiveToolFailed returns an error for a non-zero archiver exit.
func ErrArchiveToolFailed(arPath string, err error) *BuildError {
	return &BuildError{
		Code:    ErrCodeArchiveToolFailed,
		Message: fmt.Sprintf("Archiver %q failed to build the unified archive", arPath),
		Action:  "Check that binutils ar is installed and the static archives are readable",
		Err:     err,
	}
}

// ErrBuildCommandFailed returns an error for a non-zero build-command exit.
func ErrBuildCommandFailed(command string, err error) *BuildError {
	return &BuildError{
		Code:    ErrCodeBuildCommandFailed,
		Message: fmt.Sprintf("Build command %q exited with an error", command),
		Action:  "Inspect the compiler output above for the failing crate or linker step",
		Err:     err,
	}
}

// ErrArtifactMissing returns an error for a missing output binary.
func ErrArtifactMissing(path string) *BuildError {
	return &BuildError{
		Code:    ErrCodeArtifactMissing,
		Message: fmt.Sprintf("Expected plugin binary not found: %s", path),
		Action:  "The build command reported success but produced no artifact; check the configured artifact path",
	}
}

// ErrInvalidStrategy returns an error for an unrecognized CLI token.
func ErrInvalidStrategy(token string) *BuildError {
	return &BuildError{
		Code:    ErrCodeInvalidStrategy,
		Message: fmt.Sprintf("Unknown build strategy: %q", token),
		Action:  "Use one of: dynamic, static, minimal",
	}
}

// IsBuildError checks if an error is a BuildError and returns it if so.
func IsBuildError(err error) (*BuildError, bool) {
	var buildErr *BuildError
	if errors.As(err, &buildErr) {
		return buildErr, true
	}
	return nil, false
}

// GetErrorCode extracts the error code from an error if it's a BuildError.
func GetErrorCode(err error) string {
	if buildErr, ok := IsBuildError(err); ok {
		return buildErr.Code
	}
	return ""
}
