package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appchat "coffee-chat/application/chat"
	"coffee-chat/domain/audit"
	"coffee-chat/infrastructure/maps"
	"coffee-chat/infrastructure/openai"
	infrapersistence "coffee-chat/infrastructure/persistence"
	"coffee-chat/infrastructure/weather"
	httpiface "coffee-chat/interfaces/http"
	"coffee-chat/internal/config"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	ctx := context.Background()

	// Local development convenience; missing .env is fine
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	// Configure logging level
	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	// Configure logging formatter per environment
	switch cfg.Logging.Format {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	default:
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	logrus.SetReportCaller(cfg.Logging.ReportCaller)

	logrus.WithFields(logrus.Fields{
		"port":               cfg.Server.Port,
		"host":               cfg.Server.Host,
		"model":              cfg.LLM.Model,
		"enable_persistence": cfg.Database.EnablePersistence,
	}).Info("Starting chat backend")

	// LLM backend with circuit breaker
	baseProvider := openai.NewProvider(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Model)
	circuitBreakerConfig := openai.CircuitBreakerConfig{
		Enabled:          cfg.CircuitBreaker.Enabled,
		FailureThreshold: cfg.CircuitBreaker.FailureThreshold,
		SuccessThreshold: cfg.CircuitBreaker.SuccessThreshold,
		Timeout:          cfg.CircuitBreaker.Timeout,
		MaxRequests:      cfg.CircuitBreaker.MaxRequests,
	}
	provider := openai.NewCircuitBreakerProvider(baseProvider, baseProvider, circuitBreakerConfig)

	logrus.WithFields(logrus.Fields{
		"enabled":           circuitBreakerConfig.Enabled,
		"failure_threshold": circuitBreakerConfig.FailureThreshold,
		"timeout":           circuitBreakerConfig.Timeout,
	}).Info("Circuit breaker configured")

	// Context adapters pinned to the shop
	weatherClient := weather.NewClient(cfg.Weather.APIKey, cfg.Weather.BaseURL, cfg.Weather.Latitude, cfg.Weather.Longitude)
	mapsClient := maps.NewClient(cfg.Maps.APIKey, cfg.Maps.BaseURL, cfg.Maps.DestinationAddress, cfg.Maps.DestinationLatitude, cfg.Maps.DestinationLongitude)

	classifier := appchat.NewClassifier(provider)

	var sink audit.Sink = infrapersistence.NewNoopSink()
	var dbManager *infrapersistence.DatabaseManager
	var eventProcessor *infrapersistence.EventProcessor

	if cfg.Database.EnablePersistence {
		dbManager = infrapersistence.NewDatabaseManager()

		if err := dbManager.Connect(ctx, cfg.GetDatabaseDSN()); err != nil {
			logrus.WithError(err).Fatal("Failed to connect to database")
		}
		if err := dbManager.Migrate(); err != nil {
			logrus.WithError(err).Fatal("Failed to run database migrations")
		}

		eventProcessor = infrapersistence.NewEventProcessor(
			dbManager.Interactions(),
			cfg.Database.Workers,
			cfg.Database.BufferSize,
		)
		if err := eventProcessor.Start(ctx); err != nil {
			logrus.WithError(err).Fatal("Failed to start event processor")
		}

		sink = infrapersistence.NewAsyncSink(eventProcessor)
		logrus.Info("Persistence layer initialized successfully")
	} else {
		logrus.Info("Running without persistence layer")
	}

	service := appchat.NewService(classifier, weatherClient, mapsClient, provider, provider, sink)

	var router *httpiface.Router
	if cfg.Database.EnablePersistence {
		router = httpiface.NewRouterWithPersistence(
			service,
			cfg.Auth.APIKey,
			cfg.Server.CorsOrigins,
			cfg.RateLimit.Requests,
			cfg.RateLimit.Window,
			dbManager,
			eventProcessor,
		)
	} else {
		router = httpiface.NewRouter(service, cfg.Auth.APIKey, cfg.Server.CorsOrigins, cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}

	ginRouter := router.SetupRoutes()

	address := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              address,
		Handler:           ginRouter,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// No WriteTimeout: SSE streams outlive any fixed deadline
		IdleTimeout: 60 * time.Second,
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		logrus.WithField("address", address).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()

	<-c
	logrus.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Server forced to shutdown")
	} else {
		logrus.Info("Server shutdown complete")
	}

	if cfg.Database.EnablePersistence {
		logrus.Info("Shutting down persistence layer...")

		if eventProcessor != nil {
			if err := eventProcessor.Stop(); err != nil {
				logrus.WithError(err).Error("Failed to stop event processor")
			}
		}
		if dbManager != nil {
			if err := dbManager.Close(); err != nil {
				logrus.WithError(err).Error("Failed to close database connection")
			}
		}

		logrus.Info("Persistence layer shutdown complete")
	}
}
