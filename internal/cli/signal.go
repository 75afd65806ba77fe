package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// ShutdownError is the cancellation cause of a context stopped by an OS signal.
type ShutdownError struct {
	Signal os.Signal
}

func (e *ShutdownError) Error() string {
	return fmt.Sprintf("received %s", e.Signal)
}

// WithShutdownSignals returns a context cancelled on SIGINT or SIGTERM.
// The signal is recorded as the context's cause; see ShutdownSignal.
func WithShutdownSignals(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigCh)
		select {
		case sig := <-sigCh:
			cancel(&ShutdownError{Signal: sig})
		case <-ctx.Done():
		}
	}()

	return ctx, func() { cancel(nil) }
}

// ShutdownSignal returns the signal that cancelled ctx, or nil.
func ShutdownSignal(ctx context.Context) os.Signal {
	var shutdown *ShutdownError
	if errors.As(context.Cause(ctx), &shutdown) {
		return shutdown.Signal
	}
	return nil
}
