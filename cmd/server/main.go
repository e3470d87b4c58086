package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "nftflow-backend/internal/api/http"
	"nftflow-backend/internal/config"
	"nftflow-backend/internal/logger"
	"nftflow-backend/internal/registry"
	"nftflow-backend/internal/repository/postgres"
	"nftflow-backend/internal/security"
	"nftflow-backend/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting NFTFlow Settlement Engine...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)

	// Initialize Asset Registry
	var assetRegistry registry.AssetRegistry
	if cfg.Registry.Type == "" || cfg.Registry.Type == "mock" {
		logger.Info("Using mock asset registry (in-memory)")
		assetRegistry = registry.NewMockAssetRegistry()
	} else {
		logger.Error("Unsupported registry type", "type", cfg.Registry.Type)
		log.Fatalf("Registry type '%s' not yet implemented", cfg.Registry.Type)
	}

	// Initialize Services
	emailSvc := service.NewEmailService(cfg.Email)
	authSvc := service.NewAuthService(store, tokenManager)
	reputationSvc := service.NewReputationService(store, cfg.Engine)
	streamSvc := service.NewStreamService(store, cfg.Engine)
	rentalSvc := service.NewRentalService(store, assetRegistry, nil, emailSvc, cfg.Engine)
	ledgerSvc := service.NewLedgerService(store)
	eventSvc := service.NewEventService(store)

	// Set up HTTP server
	router := httpapi.NewRouter(httpapi.Services{
		Auth:       authSvc,
		Rentals:    rentalSvc,
		Streams:    streamSvc,
		Reputation: reputationSvc,
		Ledger:     ledgerSvc,
		Events:     eventSvc,
	}, tokenManager)

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}
