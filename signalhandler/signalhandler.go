package signalhandler

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"layoutdna/logging"
)

// SetupHandler returns a context cancelled on SIGINT or SIGTERM so in-flight
// sections can finish their current crop and the run can stop cleanly. A
// second signal kills the process with the default behavior.
func SetupHandler(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logging.LogWarning("Received %v, stopping after current sections", sig)
			cancel()
		case <-ctx.Done():
		}
		// Restore default handling for a second signal
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}

// GetOptimalProcs returns the optimal number of worker goroutines for the system
func GetOptimalProcs() int {
	numCPU := runtime.NumCPU()

	// OpenCV already parallelizes inside each call
	maxProcs := (numCPU * 3) / 4
	if maxProcs < 1 {
		maxProcs = 1
	}

	return maxProcs
}
