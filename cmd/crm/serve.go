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

	"github.com/boddenberg/crm-previdenciario-go/internal/handler"
	"github.com/boddenberg/crm-previdenciario-go/internal/infra/gemini"
	"github.com/boddenberg/crm-previdenciario-go/internal/infra/notify"
	"github.com/boddenberg/crm-previdenciario-go/internal/infra/observability"
	"github.com/boddenberg/crm-previdenciario-go/internal/infra/resilience"
	"github.com/boddenberg/crm-previdenciario-go/internal/infra/store"
	"github.com/boddenberg/crm-previdenciario-go/internal/port"
	"github.com/boddenberg/crm-previdenciario-go/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("store_driver", cfg.StoreDriver),
		zap.String("store_path", cfg.StorePath),
		zap.String("ai_model", cfg.AIModel),
		zap.Bool("ai_configured", cfg.AIConfigured()),
		zap.Duration("ai_timeout", cfg.AITimeout),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("notification_ttl", cfg.NotificationTTL),
		zap.Duration("urgent_window", cfg.UrgentWindow),
	)

	// --- Tracing ---
	shutdownTracer, err := observability.InitTracer(cfg.TracingEnabled, cfg.OTLPEndpoint, "crm-previdenciario")
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	defer shutdownTracer(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Store ---
	kv, err := store.Open(cfg.StoreDriver, cfg.StorePath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer kv.Close()

	// --- Services ---
	ctx := cmd.Context()
	crmSvc, err := service.NewCrmService(ctx, kv, metrics, logger, service.CrmConfig{
		UrgentWindow: cfg.UrgentWindow,
	})
	if err != nil {
		return fmt.Errorf("load repository: %w", err)
	}

	var generator port.ContentGenerator
	if cfg.AIConfigured() {
		gc, err := gemini.New(ctx, gemini.Config{
			APIKey:    cfg.GeminiAPIKey,
			Model:     cfg.AIModel,
			UseVertex: cfg.AIUseVertex,
			Project:   cfg.GoogleProject,
			Location:  cfg.GoogleLocation,
			Timeout:   cfg.AITimeout,
			Resilience: resilience.Config{
				MaxRetries:     cfg.MaxRetries,
				InitialBackoff: cfg.InitialBackoff,
				MaxConcurrency: cfg.MaxConcurrency,
			},
		}, logger)
		if err != nil {
			return fmt.Errorf("init gemini: %w", err)
		}
		logger.Info("gemini client ready", zap.String("model", gc.Model()))
		generator = gc
	}
	aiSvc := service.NewAssistantService(generator, metrics, logger)

	relay := notify.New(cfg.NotificationTTL, notify.WithMetrics(metrics))
	defer relay.Close()

	// --- Router ---
	router := handler.NewRouter(crmSvc, aiSvc, relay, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.AITimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	}

	logger.Info("server shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
