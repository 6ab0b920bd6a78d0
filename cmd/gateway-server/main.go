package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"sealgate/config"
	"sealgate/logging"
	"sealgate/middleware"
	"sealgate/observability"
	"sealgate/pkg/apiclient"
	"sealgate/pkg/credstore"
	"sealgate/pkg/policy"
	"sealgate/services/gateway"
)

var (
	// Command-line flags
	configFile = flag.String("config", "", "Path to configuration file")
	version    = flag.Bool("version", false, "Print version information")
)

const (
	ServiceName    = "gateway-server"
	ServiceVersion = "1.0.0"
)

func main() {
	flag.Parse()

	// Initialize logger
	logger := logging.GetLogger()

	// Print version and exit if requested
	if *version {
		fmt.Printf("%s version %s\n", ServiceName, ServiceVersion)
		os.Exit(0)
	}

	// Load configuration
	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Error("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	// Override service name and version
	cfg.Service.Name = ServiceName
	cfg.Service.Version = ServiceVersion

	// Print build and feature flag information
	logger.PrintBuildInfo(ServiceName, ServiceVersion)
	logConfiguration(cfg, logger)

	// Initialize observability exporters
	obsProvider, err := observability.Init(context.Background(), cfg, logger, ServiceName, ServiceVersion)
	if err != nil {
		logger.Warn("Observability partially initialized: %v", err)
	}

	// A broken open policy should surface at startup, not on first file load
	if cfg.Envelope.OpenPolicy != "" {
		if err := policy.ValidatePolicy(context.Background(), cfg.Envelope.OpenPolicy); err != nil {
			logger.Error("Configured open policy is invalid: %v", err)
			os.Exit(1)
		}
		logger.Startup("Open policy validated")
	}

	// Select the credential store backend
	store := newCredStore(cfg, logger)

	// Build the API client and router
	api := apiclient.NewClient(cfg.Backend.BaseURL, store, cfg.Backend.Timeout)
	tabs := gateway.NewTabRegistry()
	router := gateway.NewRouter(store, api, tabs, nil, gateway.RouterConfig{
		LoginURL: cfg.Backend.LoginURL,
		MailHost: cfg.Backend.MailHost,
		Version:  ServiceVersion,
	})

	rateLimiter := middleware.NewRateLimiter(cfg)
	rateLimiter.PrintRateLimitInfo(ServiceName)

	server := gateway.NewServer(cfg, router, rateLimiter)

	// Start server in a goroutine
	go func() {
		logger.Startup("Starting %s version %s", ServiceName, ServiceVersion)
		logger.Startup("Environment: %s", cfg.Service.Environment)

		if err := server.Start(); err != nil {
			logger.Error("Failed to start server: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Startup("Shutting down %s gracefully...", ServiceName)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulStop)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Server shutdown: %v", err)
	}
	if obsProvider != nil {
		if err := obsProvider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Observability shutdown: %v", err)
		}
	}
}

// newCredStore selects the credential store backend from configuration. A
// backend that fails to come up falls back to the in-memory store with a
// warning rather than refusing to start; credentials then simply do not
// survive a restart.
func newCredStore(cfg *config.Config, logger *logging.Logger) credstore.Store {
	switch cfg.CredStore.Type {
	case "file":
		logger.Startup("Using file credential store at %s", cfg.CredStore.File.Path)
		store, err := credstore.NewFileStore(cfg.CredStore.File.Path)
		if err != nil {
			logger.Warn("Failed to initialize file credential store: %v", err)
			logger.Warn("Falling back to in-memory credential store")
			return credstore.NewMemoryStore()
		}
		return store

	case "redis":
		logger.Startup("Using Redis credential store at %s", cfg.CredStore.Redis.Address)
		store, err := credstore.NewRedisStore(credstore.RedisStoreConfig{
			Addr:     cfg.CredStore.Redis.Address,
			Password: cfg.CredStore.Redis.Password,
			DB:       cfg.CredStore.Redis.DB,
			Key:      cfg.CredStore.Redis.Key,
		})
		if err != nil {
			logger.Warn("Failed to initialize Redis credential store: %v", err)
			logger.Warn("Falling back to in-memory credential store")
			return credstore.NewMemoryStore()
		}
		return store

	case "postgres":
		logger.Startup("Using PostgreSQL credential store at %s:%d", cfg.CredStore.Postgres.Host, cfg.CredStore.Postgres.Port)
		store, err := credstore.NewPostgresStore(context.Background(), cfg.GetPostgresURL())
		if err != nil {
			logger.Warn("Failed to initialize PostgreSQL credential store: %v", err)
			logger.Warn("Falling back to in-memory credential store")
			return credstore.NewMemoryStore()
		}
		return store

	default:
		logger.Startup("Using in-memory credential store")
		return credstore.NewMemoryStore()
	}
}

// logConfiguration logs the configuration with sensitive data masked
func logConfiguration(cfg *config.Config, logger *logging.Logger) {
	logger.Startup("Configuration loaded successfully")
	logger.Info("Service: %s v%s (%s)", cfg.Service.Name, cfg.Service.Version, cfg.Service.Environment)
	logger.Info("Server: %s:%d (timeouts: read=%v write=%v idle=%v)",
		cfg.Server.Host, cfg.Server.Port,
		cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.IdleTimeout)
	logger.Info("Backend: %s (timeout: %v)", cfg.Backend.BaseURL, cfg.Backend.Timeout)
	logger.Info("Credential store: %s", cfg.CredStore.Type)
	logger.Info("Allowed origins: %v", cfg.Security.AllowedOrigins)
	logger.Info("Logging mode: %s", logging.LoggingMode())

	if cfg.IsDevelopment() {
		logger.Info("Running in DEVELOPMENT mode")
	} else if cfg.IsProduction() {
		logger.Info("Running in PRODUCTION mode")
		logger.Info("  - Rate limiting: %v", cfg.Security.RateLimiting.Enabled)
		logger.Info("  - Metrics: %v", cfg.Observability.Metrics.Enabled)
		logger.Info("  - Tracing: %v", cfg.Observability.Tracing.Enabled)
	}
}
