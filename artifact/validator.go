// Package artifact checks for the expected plugin binary after a build and
// reports its size and checksum to the operator.
package artifact

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"ortbuild/core"
	"ortbuild/logging"
	"ortbuild/strategy"
)

// Report describes the expected output binary after a build invocation.
type Report struct {
	Strategy  strategy.Strategy
	Path      string
	Exists    bool
	SizeBytes int64
	Size      string // human-readable, e.g. "22.00 MB"
	SHA256    string // empty if the file is absent or unreadable
}

// Validator checks the build artifact and produces a Report.
type Validator struct {
	logger *logging.Logger
}

// NewValidator returns a Validator.
func NewValidator(logger *logging.Logger) *Validator {
	return &Validator{logger: logger}
}

// Validate checks for the expected binary at path.
//
// When the file exists the report carries its human-readable size and SHA256
// fingerprint. When absent, only the minimal strategy treats that as a hard
// ARTIFACT_MISSING failure; dynamic and static report without failing, which
// preserves the long-standing leniency of those paths.
func (v *Validator) Validate(path string, s strategy.Strategy) (Report, error) {
	report := Report{
		Strategy: s,
		Path:     path,
	}

	info, err := os.Stat(path)
	if err != nil {
		if s == strategy.Minimal {
			return report, core.ErrArtifactMissing(path)
		}
		v.logger.Warn("expected artifact not found",
			zap.String("path", path),
			zap.String("strategy", s.String()),
		)
		return report, nil
	}

	report.Exists = true
	report.SizeBytes = info.Size()
	report.Size = core.FormatBytes(info.Size())

	sum, err := core.ComputeSHA256(path)
	if err != nil {
		v.logger.Warn("failed to checksum artifact", zap.Error(err))
	} else {
		report.SHA256 = sum
	}

	v.logger.Info("artifact validated",
		zap.String("path", path),
		zap.String("size", report.Size),
		zap.String("sha256", report.SHA256),
	)
	return report, nil
}

// SuccessMessage returns the strategy-specific success wording. Each strategy
// notes its bundling characteristics so the operator knows what the binary
// expects at load time.
func (r Report) SuccessMessage() string {
	switch r.Strategy {
	case strategy.Dynamic:
		return fmt.Sprintf("Built %s (%s) - requires a system ONNX Runtime shared library at load time", r.Path, r.Size)
	case strategy.Static:
		return fmt.Sprintf("Built %s (%s) - vendor ONNX Runtime archive bundled, no system dependency", r.Path, r.Size)
	case strategy.Minimal:
		return fmt.Sprintf("Built %s (%s) - size-reduced ONNX Runtime statically linked", r.Path, r.Size)
	default:
		return fmt.Sprintf("Built %s (%s)", r.Path, r.Size)
	}
}

// Print writes the report to the operator's console.
func (r Report) Print() {
	if r.Exists {
		color.New(color.FgGreen, color.Bold).Printf("✓ %s\n", r.SuccessMessage())
		if r.SHA256 != "" {
			fmt.Printf("  sha256: %s\n", r.SHA256)
		}
		return
	}
	color.New(color.FgYellow).Printf("! Expected artifact not found: %s\n", r.Path)
}
