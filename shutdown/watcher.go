package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"ortbuild/core"
	"ortbuild/logging"
)

// Watcher listens for termination signals. On the first signal it cancels the
// build context so the external build command is killed; on the second it
// forces an immediate exit.
type Watcher struct {
	mu       sync.Mutex
	exitCode int

	sigChan chan os.Signal
	done    chan struct{}
}

// Watch installs signal handlers and returns the running Watcher.
// cancel is invoked on the first SIGINT or SIGTERM.
func Watch(cancel context.CancelFunc, logger *logging.Logger) *Watcher {
	w := &Watcher{
		exitCode: core.ExitCodeSuccess,
		sigChan:  make(chan os.Signal, 1),
		done:     make(chan struct{}),
	}

	counter := NewSignalCounter(2, func() {
		os.Exit(w.ExitCode())
	})

	signal.Notify(w.sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer close(w.done)
		for sig := range w.sigChan {
			code := core.ExitCodeSIGINT
			if sig == syscall.SIGTERM {
				code = core.ExitCodeSIGTERM
			}
			w.mu.Lock()
			w.exitCode = code
			w.mu.Unlock()

			if counter.Increment() == 1 {
				logger.Warnf("received %s, stopping build (press again to force quit)", sig)
				cancel()
			}
		}
	}()

	return w
}

// ExitCode returns the signal-derived exit code, or ExitCodeSuccess if no
// signal was received.
func (w *Watcher) ExitCode() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.exitCode
}

// Stop removes the signal handlers and ends the watcher goroutine.
func (w *Watcher) Stop() {
	signal.Stop(w.sigChan)
	close(w.sigChan)
	<-w.done
}
