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

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/replysms/botservice/internal/platform/config"
	"github.com/replysms/botservice/internal/platform/database"
	"github.com/replysms/botservice/internal/platform/logger"
	"github.com/replysms/botservice/internal/platform/messagebroker"

	"github.com/replysms/botservice/internal/botservice/adapters/identity"
	"github.com/replysms/botservice/internal/botservice/adapters/intent"
	"github.com/replysms/botservice/internal/botservice/adapters/push"
	"github.com/replysms/botservice/internal/botservice/adapters/smsprovider"
	"github.com/replysms/botservice/internal/botservice/app"
	"github.com/replysms/botservice/internal/botservice/repository/postgres"
	transporthttp "github.com/replysms/botservice/internal/botservice/transport/http"
)

const (
	serviceName     = "botservice"
	shutdownTimeout = 10 * time.Second
)

func main() {
	mainCtx, mainCancel := context.WithCancel(context.Background())
	defer mainCancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "service", serviceName, "error", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.LogLevel)
	appLogger = appLogger.With("service", serviceName)
	appLogger.Info("Starting service...")

	appLogger.Info("Configuration loaded",
		"log_level", cfg.LogLevel,
		"http_port", cfg.HTTPPort,
		"metrics_port", cfg.MetricsPort,
		"nats_url", cfg.NATSUrl,
		"postgres_dsn_present", cfg.PostgresDSN != "",
		"cnam_enabled", cfg.CNAMEnabled,
		"coupon_configured", cfg.CouponConfigured(),
		"admin_enabled", cfg.AdminEnabled,
	)

	dbPool, err := database.NewDBPool(mainCtx, cfg.PostgresDSN)
	if err != nil {
		appLogger.Error("Failed to initialize database connection pool", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()
	appLogger.Info("Database connection pool initialized")

	natsClient, err := messagebroker.NewNATSClient(cfg.NATSUrl, appLogger, serviceName)
	if err != nil {
		appLogger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer natsClient.Close()
	appLogger.Info("NATS connection initialized")

	// Repositories.
	recordRepo := postgres.NewPgRecordRepository(dbPool, appLogger)
	messageLogRepo := postgres.NewPgMessageLogRepository(dbPool, appLogger)

	// External collaborators.
	classifier := intent.NewClient(appLogger, cfg.IntentAPIURL, cfg.IntentAPIToken, nil)
	identityLookup := identity.NewClient(appLogger, cfg.IdentityAPIURL, cfg.IdentityAPIKey, cfg.IdentityAPISecret, nil)
	pusher := push.NewNATSPublisher(natsClient, cfg.PushSubject, appLogger)

	var smsAdapter smsprovider.Adapter
	if cfg.SMSAPIURL != "" {
		smsAdapter = smsprovider.NewNexmoSMSProvider(appLogger, cfg.SMSAPIURL, cfg.SMSAPIKey, cfg.SMSAPISecret, nil)
	} else {
		appLogger.Warn("SMS API not configured, using mock provider")
		smsAdapter = smsprovider.NewMockSMSProvider(appLogger)
	}

	// Application components.
	resolver := app.NewIdentityResolver(recordRepo, identityLookup, pusher, appLogger)
	dispatcher := app.NewDispatcher(classifier, resolver, pusher, cfg.CNAMEnabled, appLogger)
	issuer := app.NewCouponIssuer(recordRepo, smsAdapter, app.NewKeyedMutex(), cfg.CouponCode, cfg.CouponTemplate, appLogger)
	msgLogger := app.NewMessageLogger(messageLogRepo, appLogger)
	processor := app.NewInboundProcessor(dispatcher, issuer, msgLogger, appLogger)

	// Transport.
	validate := validator.New()
	webhookHandler := transporthttp.NewWebhookHandler(processor, validate, appLogger, cfg.DispatchTimeout())
	adminHandler := transporthttp.NewAdminHandler(recordRepo, messageLogRepo, appLogger, cfg.AdminDefaultLimit)
	router := transporthttp.NewRouter(webhookHandler, adminHandler, transporthttp.RouterConfig{
		AdminEnabled:      cfg.AdminEnabled,
		AdminUsername:     cfg.AdminUsername,
		AdminPasswordHash: cfg.AdminPasswordHash,
	}, appLogger)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.MetricsPort),
		Handler:           metricsMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, groupCtx := errgroup.WithContext(mainCtx)

	g.Go(func() error {
		appLogger.Info("HTTP server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		appLogger.Info("Metrics server listening", "addr", metricsServer.Addr)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("Error shutting down HTTP server", "error", err)
		}
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("Error shutting down metrics server", "error", err)
		}
		return nil
	})

	appLogger.Info("Service components initialized. Service is ready.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		appLogger.Info("Received termination signal", "signal", sig.String())
	case <-groupCtx.Done():
		appLogger.Error("A critical component failed, initiating shutdown")
	}

	mainCancel()

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		appLogger.Error("Error during graceful shutdown", "error", err)
	}

	appLogger.Info("Service shutdown complete.")
}
