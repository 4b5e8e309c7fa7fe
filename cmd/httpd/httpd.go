// Package httpd implements the uniwatch HTTP server command. It runs
// every enabled scraper and exposes the manual-trigger API until the
// process is interrupted.
package httpd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/uniwatch/uniwatch/cmd/common"
	"github.com/uniwatch/uniwatch/internal/api"
	"github.com/uniwatch/uniwatch/internal/logger"
)

const (
	signalChannelBufferSize = 1
	errorChannelBufferSize  = 1
	defaultShutdownTimeout  = 30 * time.Second
)

// Command returns the httpd command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "httpd",
		Short: "Run the watch service with its HTTP control surface",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Start()
		},
	}
}

// Start runs the scrapers and the HTTP server until interrupted.
// It handles graceful shutdown on SIGINT or SIGTERM signals.
func Start() error {
	deps, err := common.NewCommandDeps()
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	r, err := common.BuildRunner(deps)
	if err != nil {
		return fmt.Errorf("failed to build runner: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.Start(ctx)

	server, errChan := startHTTPServer(deps, r)

	return runUntilInterrupt(deps.Logger, server, cancel, r.Wait, errChan)
}

// startHTTPServer creates and starts the HTTP server.
// Returns the server and an error channel for server errors.
func startHTTPServer(deps *common.CommandDeps, r api.Runner) (*http.Server, chan error) {
	server := api.NewHTTPServer(deps.Logger, deps.Config, r)

	deps.Logger.Info("Starting HTTP server", "addr", server.Addr)
	errChan := make(chan error, errorChannelBufferSize)
	go func() {
		if serveErr := server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errChan <- serveErr
		}
	}()

	return server, errChan
}

// runUntilInterrupt blocks until a signal or a server error, then shuts
// everything down in order: HTTP server first, scrapers second.
func runUntilInterrupt(
	log logger.Interface,
	server *http.Server,
	stopScrapers context.CancelFunc,
	waitScrapers func(),
	errChan chan error,
) error {
	sigChan := make(chan os.Signal, signalChannelBufferSize)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case serverErr := <-errChan:
		log.Error("Server error", "error", serverErr)
		stopScrapers()
		waitScrapers()
		return fmt.Errorf("server error: %w", serverErr)
	case sig := <-sigChan:
		log.Info("Shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", "error", err)
	}

	stopScrapers()
	waitScrapers()

	log.Info("Shutdown complete")
	return nil
}
