package core

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Default configuration values.
const (
	// DefaultConfigFile is the optional YAML configuration file, looked up
	// relative to the workspace root.
	DefaultConfigFile = "ortbuild.yaml"

	// DefaultLibDir is where the containerized minimal ONNX Runtime build
	// drops its per-component static archives.
	DefaultLibDir = "libs/ort-minimal"

	// DefaultArtifactPath is the expected plugin binary, identical across
	// all three strategies.
	DefaultArtifactPath = "target/release/libnnplugin.so"

	// DefaultVenvDir is the isolated Python environment used by the external
	// model-conversion tool.
	DefaultVenvDir = ".venv"

	// DefaultHistoryDB is the SQLite build-history database. An empty value
	// disables history recording.
	DefaultHistoryDB = ".ortbuild/history.db"

	// DefaultLogFile is the structured log output file.
	DefaultLogFile = "ortbuild.log"
)

// Config holds all configuration for one builder run.
// Values are resolved in three layers: built-in defaults, then the optional
// ortbuild.yaml file, then ORTBUILD_* environment variables (highest priority).
type Config struct {
	// WorkspaceRoot is the directory the build runs in. Defaults to the
	// current working directory; not settable from the YAML file.
	WorkspaceRoot string `yaml:"-"`

	// LibDir holds the minimal-runtime static archives (minimal strategy only).
	LibDir string `yaml:"lib_dir"`

	// ArtifactPath is the expected output binary, relative to the workspace.
	ArtifactPath string `yaml:"artifact"`

	// VenvDir is the isolated interpreter environment, relative to the workspace.
	VenvDir string `yaml:"venv_dir"`

	// CargoPath is the external build command.
	CargoPath string `yaml:"cargo"`

	// ArPath is the platform archiver used to unify static archives.
	ArPath string `yaml:"ar"`

	// Jobs is the parallelism hint passed to the build command.
	// Defaults to the host's available processor count.
	Jobs int `yaml:"jobs"`

	// HistoryDB is the SQLite build-history database path. Empty disables history.
	HistoryDB string `yaml:"history_db"`

	// LogFile is the structured log output path.
	LogFile string `yaml:"log_file"`

	// DevMode switches the console log encoder to a colored human-readable
	// format and enables debug-level logging.
	DevMode bool `yaml:"-"`
}

// DefaultConfig returns a Config populated with built-in defaults for the
// given workspace root.
func DefaultConfig(workspaceRoot string) Config {
	return Config{
		WorkspaceRoot: workspaceRoot,
		LibDir:        DefaultLibDir,
		ArtifactPath:  DefaultArtifactPath,
		VenvDir:       DefaultVenvDir,
		CargoPath:     "cargo",
		ArPath:        "ar",
		Jobs:          runtime.NumCPU(),
		HistoryDB:     DefaultHistoryDB,
		LogFile:       DefaultLogFile,
	}
}

// LoadConfig resolves the effective configuration for the given workspace root.
//
// Resolution order (later layers win):
//  1. Built-in defaults
//  2. <workspace>/ortbuild.yaml, if present
//  3. ORTBUILD_* environment variables
//
// A missing YAML file is not an error; a malformed one is.
func LoadConfig(workspaceRoot string) (Config, error) {
	cfg := DefaultConfig(workspaceRoot)

	yamlPath := filepath.Join(workspaceRoot, DefaultConfigFile)
	if data, err := os.ReadFile(yamlPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", yamlPath, err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to read %s: %w", yamlPath, err)
	}

	applyEnvOverrides(&cfg)

	if cfg.Jobs < 1 {
		cfg.Jobs = runtime.NumCPU()
	}
	return cfg, nil
}

// applyEnvOverrides applies ORTBUILD_* environment variables on top of cfg.
func applyEnvOverrides(cfg *Config) {
	cfg.LibDir = GetEnvOrDefault("ORTBUILD_LIB_DIR", cfg.LibDir)
	cfg.ArtifactPath = GetEnvOrDefault("ORTBUILD_ARTIFACT", cfg.ArtifactPath)
	cfg.VenvDir = GetEnvOrDefault("ORTBUILD_VENV_DIR", cfg.VenvDir)
	cfg.CargoPath = GetEnvOrDefault("ORTBUILD_CARGO", cfg.CargoPath)
	cfg.ArPath = GetEnvOrDefault("ORTBUILD_AR", cfg.ArPath)
	cfg.Jobs = ParseIntEnv("ORTBUILD_JOBS", cfg.Jobs)
	if v, ok := os.LookupEnv("ORTBUILD_HISTORY_DB"); ok {
		// Explicitly set empty value disables history recording.
		cfg.HistoryDB = v
	}
	cfg.LogFile = GetEnvOrDefault("ORTBUILD_LOG_FILE", cfg.LogFile)
	cfg.DevMode = ParseBoolEnv("DEV_MODE", cfg.DevMode)
}

// AbsLibDir returns the library directory resolved against the workspace root.
func (c Config) AbsLibDir() string {
	return c.absPath(c.LibDir)
}

// AbsArtifactPath returns the artifact path resolved against the workspace root.
func (c Config) AbsArtifactPath() string {
	return c.absPath(c.ArtifactPath)
}

// AbsHistoryDB returns the history database path resolved against the
// workspace root, or empty when history is disabled.
func (c Config) AbsHistoryDB() string {
	if c.HistoryDB == "" {
		return ""
	}
	return c.absPath(c.HistoryDB)
}

func (c Config) absPath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.WorkspaceRoot, p)
}
