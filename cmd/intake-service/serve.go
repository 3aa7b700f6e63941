package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/devcatalyst/intake-service/internal/cache"
	"github.com/devcatalyst/intake-service/internal/config"
	"github.com/devcatalyst/intake-service/internal/handlers"
	"github.com/devcatalyst/intake-service/internal/metrics"
	"github.com/devcatalyst/intake-service/internal/repositories"
	"github.com/devcatalyst/intake-service/internal/schema"
	"github.com/devcatalyst/intake-service/internal/services"
	"github.com/devcatalyst/intake-service/internal/utils"
	"github.com/devcatalyst/intake-service/internal/validator"
	"github.com/devcatalyst/intake-service/pkg"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return serve(cfg)
		},
	}
}

func newLogger(cfg *config.Config) utils.Logger {
	if cfg.IsProduction() {
		return utils.NewDefaultLogger()
	}
	return utils.NewDevelopmentLogger()
}

func serve(cfg *config.Config) error {
	logger := newLogger(cfg)
	slogger := utils.ToSlogLogger(logger)
	slog.SetDefault(slogger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	form, err := schema.Load(cfg.FormSchemaPath)
	if err != nil {
		return fmt.Errorf("load form schema: %w", err)
	}

	// A missing store keeps the service up; writes then fail with a
	// configuration error and /health reports it.
	var store repositories.TabularStore
	var pinger handlers.Pinger
	store, err = pkg.OpenTabularStore(ctx, cfg)
	switch {
	case errors.Is(err, pkg.ErrStoreNotConfigured):
		slogger.Warn("tabular store not configured", "backend", cfg.StoreBackend, "error", err)
		store = nil
	case err != nil:
		return fmt.Errorf("open tabular store: %w", err)
	default:
		pinger = store
		defer store.Close()
	}

	sessionCache := cache.NewMemoryCache()
	if cfg.RedisURL != "" {
		client, err := pkg.NewRedisClient(ctx, cfg)
		if err != nil {
			return err
		}
		defer client.Close()
		sessionCache = cache.NewRedisCache(client, logger)
		slogger.Info("session cache", "backend", "redis")
	}

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		return fmt.Errorf("create event publisher: %w", err)
	}
	defer publisher.Close()

	m := metrics.New()
	v := validator.New()

	serviceManager := services.NewServiceManager(
		services.NewIntakeService(store, form, v, publisher, m, slogger, services.IntakeOptions{
			PrimarySheet:          cfg.PrimarySheet,
			SerializeHeaderWrites: cfg.SerializeHeaderWrites,
		}),
		services.NewAggregationService(store, form, m, slogger, cfg.PrimarySheet),
		services.NewEvaluationService(store, v, publisher, m, slogger, cfg.SerializeHeaderWrites),
		services.NewSessionService(sessionCache, m, slogger, services.SessionOptions{
			DashboardPassword:   cfg.DashboardPassword,
			EvaluationPasswords: cfg.EvaluationPasswords,
			TTL:                 cfg.SessionTTL,
		}),
	)

	router := handlers.NewHandlerManager(serviceManager, v, m, pinger, logger).NewRouter()

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slogger.Info("HTTP server starting",
			"addr", httpServer.Addr,
			"environment", cfg.Environment,
			"store", cfg.StoreBackend,
			"form", form.ID)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	slogger.Info("shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slogger.Error("HTTP server shutdown error", "error", err)
	}

	slogger.Info("intake-service stopped")
	return nil
}
