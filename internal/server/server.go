// Package server owns the HTTP serving lifecycle shared by every binary:
// listen, wait for SIGINT/SIGTERM, drain with a bounded shutdown.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const shutdownTimeout = 10 * time.Second

// Run serves handler on addr until the process receives a shutdown signal
// or the listener fails.
func Run(addr string, handler http.Handler, logger *log.Logger) {
	if logger == nil {
		logger = log.Default()
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	logger.Printf("listening on %s", addr)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- srv.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Printf("server error: %v", err)
		}
	case <-stopCtx.Done():
		logger.Printf("shutdown signal received, stopping server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Printf("server shutdown error: %v", err)
	}
	logger.Printf("server stopped")
}
