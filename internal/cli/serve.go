package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"farmmarket/console/internal/jobs"
	"farmmarket/console/internal/server"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the console views as JSON over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			scheduler := jobs.NewCronScheduler(a.log.With().Str("component", "scheduler").Logger())
			console := server.New(a.cfg, a.log, a.sessions, a.client, scheduler)

			failed := make(chan error, 1)
			go func() {
				failed <- console.Start()
			}()

			return waitForShutdown(cmd.Context(), a.log, console, failed)
		},
	}
}

func waitForShutdown(parent context.Context, logger zerolog.Logger, console *server.Console, failed <-chan error) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case serveErr = <-failed:
		logger.Error().Err(serveErr).Msg("http server failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := console.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("console shutdown incomplete")
		return err
	}

	logger.Info().Msg("console exited cleanly")
	return serveErr
}
