// Package server exposes the console views over HTTP and owns the polling
// they start.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"farmmarket/console/internal/apiclient"
	"farmmarket/console/internal/config"
	"farmmarket/console/internal/handlers"
	"farmmarket/console/internal/jobs"
	"farmmarket/console/internal/middleware"
	"farmmarket/console/internal/session"
)

// Runner is the scheduler behind the tracking view's auto-refresh.
type Runner interface {
	jobs.Scheduler
	Start()
	Stop(ctx context.Context) error
}

type Console struct {
	server *http.Server
	views  handlers.HandlerSet
	runner Runner
	log    zerolog.Logger
	cfg    *config.AppConfig
}

// NewEngine builds the router with the standard middleware and the console
// routes under /api.
func NewEngine(cfg *config.AppConfig, log zerolog.Logger, views handlers.HandlerSet) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.RedirectTrailingSlash = true
	engine.RedirectFixedPath = true

	engine.Use(
		middleware.RequestID(),
		middleware.Logger(log, "/api/healthz"),
		middleware.Recovery(log),
		middleware.CORS(cfg.AllowCORSOrigins),
	)

	views.RegisterRoutes(engine.Group("/api"))
	return engine
}

func New(cfg *config.AppConfig, log zerolog.Logger, sessions *session.Store, client *apiclient.Client, runner Runner) *Console {
	views := handlers.NewHandlerSet(log, cfg, sessions, client, runner)

	return &Console{
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
			Handler:      NewEngine(cfg, log, views),
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
			IdleTimeout:  cfg.HTTP.IdleTimeout,
		},
		views:  views,
		runner: runner,
		log:    log,
		cfg:    cfg,
	}
}

func (c *Console) Handler() http.Handler {
	return c.server.Handler
}

// Start runs the refresh scheduler and serves until Shutdown.
func (c *Console) Start() error {
	c.runner.Start()
	c.log.Info().
		Str("addr", c.server.Addr).
		Str("backend", c.cfg.API.BaseURL).
		Dur("tracking_interval", c.cfg.Tracking.Interval).
		Msg("console server starting")

	if err := c.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen and serve: %w", err)
	}
	return nil
}

// Shutdown stops taking requests, then unmounts the views, then waits for
// refreshes already running. A request still in flight when ctx ends is cut
// off.
func (c *Console) Shutdown(ctx context.Context) error {
	c.log.Info().Msg("console server shutting down")

	var errs []error
	if err := c.server.Shutdown(ctx); err != nil {
		c.log.Error().Err(err).Msg("graceful shutdown failed")
		if err := c.server.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close listener: %w", err))
		}
		errs = append(errs, fmt.Errorf("shutdown http: %w", err))
	}

	c.views.Close()
	c.log.Debug().Msg("views unmounted")

	if err := c.runner.Stop(ctx); err != nil {
		c.log.Warn().Err(err).Msg("tracking refresh still running")
		errs = append(errs, fmt.Errorf("stop scheduler: %w", err))
	}
	return errors.Join(errs...)
}
