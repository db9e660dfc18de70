package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/olympicsnav/internal/adapters/http/api"
	"github.com/okian/olympicsnav/internal/adapters/http/site"
	"github.com/okian/olympicsnav/internal/adapters/http/swagger"
	repository "github.com/okian/olympicsnav/internal/adapters/repository"
	app "github.com/okian/olympicsnav/internal/app"
	"github.com/okian/olympicsnav/internal/config"
	"github.com/okian/olympicsnav/pkg/logger"
	"github.com/okian/olympicsnav/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 40 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger isn't configured yet.
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "navigator failed", logger.Error(err))
		os.Exit(1)
	}
}

// run serves cfg until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config) error {
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := newService(ctx, cfg, log)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	go startServiceMetricsUpdater(ctx, svc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, cfg, svc, log),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
	return nil
}

// newService builds the navigator over the configured CSV files.
func newService(ctx context.Context, cfg *config.Config, log logger.Logger) *app.Service {
	store := repository.NewFileStore(ctx,
		repository.WithRecordsPath(cfg.RecordsPath),
		repository.WithHostsPath(cfg.HostsPath),
		repository.WithKeepNonMedal(!cfg.DropNonMedal),
		repository.WithLogger(log.Named("repository")),
	)
	return app.New(
		app.WithLogger(log),
		app.WithStore(store),
		app.WithSessionCapacity(cfg.SessionCapacity),
		app.WithMaxPageSize(cfg.MaxPageSize),
		app.WithDefaultPageSize(cfg.DefaultPageSize),
		app.WithAssetsBaseURL(cfg.AssetsBaseURL),
	)
}

// newMux registers the API, the docs and the front end.
func newMux(ctx context.Context, cfg *config.Config, svc *app.Service, log logger.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	swagger.Register(ctx, mux)

	// Validate has already checked the ranges.
	trusted, _ := cfg.TrustedPrefixes()
	limiter := api.NewRateLimiter(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst, api.WithTrustedProxies(trusted...))
	apiServer := api.NewServer(svc, svc,
		api.WithServerLogger(log.Named("api")),
		api.WithRateLimiter(limiter),
	)
	apiServer.Register(ctx, mux)

	// Catch-all; more specific patterns above win.
	site.Register(ctx, mux)
	return mux
}

// startServiceMetricsUpdater periodically samples service gauges.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(metrics.RefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if sessions, ok := svc.GetStats()["sessionsActive"].(int); ok {
				metrics.UpdateSessionsActive(sessions)
			}
		}
	}
}
