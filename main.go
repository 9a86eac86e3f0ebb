package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"ortbuild/archive"
	"ortbuild/artifact"
	"ortbuild/buildcmd"
	"ortbuild/core"
	"ortbuild/db"
	"ortbuild/logging"
	"ortbuild/provision"
	"ortbuild/shutdown"
)

func main() {
	// Load .env if present; absence is normal.
	_ = godotenv.Load()

	workspaceRoot, err := os.Getwd()
	if err != nil {
		fmt.Printf("Failed to determine working directory: %v\n", err)
		os.Exit(core.ExitCodeError)
	}

	config, err := core.LoadConfig(workspaceRoot)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(core.ExitCodeError)
	}

	logger, err := logging.NewLogger(config.DevMode, config.LogFile)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(core.ExitCodeError)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	watcher := shutdown.Watch(cancel, logger)
	defer watcher.Stop()

	// History is best-effort: a broken database never blocks a build.
	var recorder RunRecorder
	if config.HistoryDB != "" {
		store, err := db.OpenRunStore(config.AbsHistoryDB())
		if err != nil {
			logger.Warn("build history disabled", zap.Error(err))
		} else {
			defer store.Close()
			recorder = store
		}
	}

	runner := &Runner{
		Config:      config,
		Provisioner: provision.NewProvisioner(config.VenvDir, logger.Named("provision")),
		Unifier:     archive.NewUnifier(config.ArPath, logger.Named("archive")),
		Invoker:     buildcmd.NewInvoker(config.CargoPath, workspaceRoot, logger.Named("build")),
		Validator:   artifact.NewValidator(logger.Named("artifact")),
		Recorder:    recorder,
		Logger:      logger,
	}

	token := ""
	if len(os.Args) > 1 {
		token = os.Args[1]
	}

	code := runner.Dispatch(ctx, token)

	// A build aborted by a signal reports the signal's exit code, not the
	// build command's failure.
	if sigCode := watcher.ExitCode(); core.IsSignalExit(sigCode) {
		code = sigCode
	}

	logger.Sync()
	os.Exit(code)
}
