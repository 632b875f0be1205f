package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"
)

// Serve runs server on its Addr until ctx is done, then shuts it down and
// returns once in-flight requests have drained or shutdownTimeout has passed
func Serve(ctx context.Context, server *http.Server, shutdownTimeout time.Duration) error {
	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return err
	}
	return ServeListener(ctx, server, ln, shutdownTimeout)
}

// ServeListener is Serve on an existing listener
func ServeListener(ctx context.Context, server *http.Server, ln net.Listener, shutdownTimeout time.Duration) error {
	done := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		done <- server.Shutdown(shutdownCtx)
	}()

	if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	// Serve returns as soon as Shutdown starts; wait for the drain
	return <-done
}
