// Package archive merges the minimal ONNX Runtime's per-component static
// archives into one combined archive that the linker can consume. Used only
// by the minimal strategy.
package archive

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"go.uber.org/zap"

	"ortbuild/core"
	"ortbuild/logging"
)

// MemberPatterns are the name globs matched under the library directory:
// the family of per-component runtime archives plus the two protobuf schema
// archives the runtime depends on.
var MemberPatterns = []string{
	"libonnxruntime_*.a",
	"libonnx.a",
	"libonnx_proto.a",
}

// UnifiedArchiveName is the combined archive written inside the library
// directory, overwriting any prior unified archive.
const UnifiedArchiveName = "libonnxruntime.a"

// scriptName is the transient archiver script. It is removed before Unify
// returns, whether the archiver succeeds or fails.
const scriptName = "unify.mri"

// Unifier merges static archives via the platform archiver's MRI script mode.
type Unifier struct {
	// ArPath is the archiver executable, typically binutils ar.
	ArPath string

	logger *logging.Logger

	// runScript executes the archiver against the script file.
	// Overridable in tests.
	runScript func(ctx context.Context, scriptPath string) error
}

// NewUnifier returns a Unifier that invokes the given archiver.
func NewUnifier(arPath string, logger *logging.Logger) *Unifier {
	u := &Unifier{
		ArPath: arPath,
		logger: logger,
	}
	u.runScript = u.runAr
	return u
}

// Unify merges all archives matching MemberPatterns under libDir into a
// single combined archive and returns its path.
//
// The library directory must exist: a missing directory is a fatal
// MISSING_PREREQUISITE error instructing the operator to run the
// containerized minimal runtime build first.
//
// Members are added in discovery order. That order is not guaranteed stable
// across platforms; this is acceptable because archive-member order does not
// affect linking correctness. An empty directory is not an error: the result
// is an empty-member archive.
//
// The transient script file is removed before Unify returns, regardless of
// archiver success or failure.
func (u *Unifier) Unify(ctx context.Context, libDir string) (string, error) {
	if _, err := os.Stat(libDir); os.IsNotExist(err) {
		return "", core.ErrMissingPrerequisite(libDir)
	}

	members, err := DiscoverMembers(libDir)
	if err != nil {
		return "", err
	}

	target := filepath.Join(libDir, UnifiedArchiveName)
	script := BuildScript(target, members)
	scriptPath := filepath.Join(libDir, scriptName)

	if err := os.WriteFile(scriptPath, []byte(script), 0644); err != nil {
		return "", core.ErrArchiveToolFailed(u.ArPath, err)
	}
	// Guaranteed cleanup: the script never outlives the call.
	defer os.Remove(scriptPath)

	u.logger.Info("unifying static archives",
		zap.Int("members", len(members)),
		zap.String("target", target),
	)

	if err := u.runScript(ctx, scriptPath); err != nil {
		return "", core.ErrArchiveToolFailed(u.ArPath, err)
	}

	u.logger.Info("unified archive written", zap.String("path", target))
	return target, nil
}

// runAr executes the archiver in MRI script mode with the script as stdin.
func (u *Unifier) runAr(ctx context.Context, scriptPath string) error {
	script, err := os.Open(scriptPath)
	if err != nil {
		return err
	}
	defer script.Close()

	cmd := exec.CommandContext(ctx, u.ArPath, "-M")
	cmd.Stdin = script
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// DiscoverMembers enumerates the archive files matching MemberPatterns under
// libDir, in pattern order then glob enumeration order.
func DiscoverMembers(libDir string) ([]string, error) {
	var members []string
	for _, pattern := range MemberPatterns {
		matches, err := filepath.Glob(filepath.Join(libDir, pattern))
		if err != nil {
			return nil, err
		}
		members = append(members, matches...)
	}
	return members, nil
}

// BuildScript renders the MRI batch script: create-target directive, one add
// directive per member in the given order, then save and end.
//
// This is a pure function with no side effects.
func BuildScript(target string, members []string) string {
	script := "CREATE " + target + "\n"
	for _, member := range members {
		script += "ADDLIB " + member + "\n"
	}
	script += "SAVE\nEND\n"
	return script
}
