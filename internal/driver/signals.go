package driver

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"lector/internal/fsource"
)

// WatchSignals returns a context cancelled on SIGINT or SIGTERM. Run stops
// taking new files once it is cancelled. stop unregisters the handler and
// blocks until no file write is in flight, so the process never exits
// between a temp file and its rename.
func WatchSignals(parent context.Context) (ctx context.Context, stop func()) {
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	return ctx, func() {
		cancel()
		fsource.Guard.Wait()
	}
}
