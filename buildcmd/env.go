package buildcmd

import (
	"fmt"
	"path/filepath"
	"sort"
)

// Environment variable names consumed by the external build command and the
// ort crate's build script.
const (
	// EnvBuildJobs is the parallelism hint for the build command.
	EnvBuildJobs = "CARGO_BUILD_JOBS"

	// EnvOrtStrategy tells the runtime crate's build script where the
	// runtime comes from. Set to "system" for the minimal strategy only.
	EnvOrtStrategy = "ORT_STRATEGY"

	// EnvOrtLibLocation is the library search path for the unified archive.
	// Set for the minimal strategy only.
	EnvOrtLibLocation = "ORT_LIB_LOCATION"
)

// Env is the build invocation's environment as an explicit value object.
// It is passed to exactly one command invocation and never written into the
// orchestrator's own process environment, so values cannot leak between runs.
type Env map[string]string

// NewEnv returns the base environment shared by all strategies: only the
// parallelism hint.
func NewEnv(jobs int) Env {
	return Env{
		EnvBuildJobs: fmt.Sprintf("%d", jobs),
	}
}

// WithSystemRuntime adds the minimal strategy's linkage hints: system linkage
// and the absolute search path for the unified-archive directory.
// Returns a new Env; the receiver is not modified.
func (e Env) WithSystemRuntime(libDir string) (Env, error) {
	abs, err := filepath.Abs(libDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve library path %q: %w", libDir, err)
	}
	out := make(Env, len(e)+2)
	for k, v := range e {
		out[k] = v
	}
	out[EnvOrtStrategy] = "system"
	out[EnvOrtLibLocation] = abs
	return out, nil
}

// Flatten renders the environment as KEY=VALUE pairs in sorted key order,
// suitable for appending to an exec.Cmd environment.
func (e Env) Flatten() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+e[k])
	}
	return pairs
}
