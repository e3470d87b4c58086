package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"nftflow-backend/internal/config"
	"nftflow-backend/internal/jobs"
	"nftflow-backend/internal/logger"
	"nftflow-backend/internal/registry"
	"nftflow-backend/internal/repository/postgres"
	"nftflow-backend/internal/scheduler"
	"nftflow-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'sweep-milestones', 'mark-recoverable-rentals', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting NFTFlow Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
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

	// Initialize Asset Registry
	var assetRegistry registry.AssetRegistry
	if cfg.Registry.Type == "" || cfg.Registry.Type == "mock" {
		assetRegistry = registry.NewMockAssetRegistry()
	} else {
		logger.Error("Unsupported registry type", "type", cfg.Registry.Type)
		log.Fatalf("Registry type '%s' not yet implemented", cfg.Registry.Type)
	}

	// Initialize Services
	emailSvc := service.NewEmailService(cfg.Email)
	streamSvc := service.NewStreamService(store, cfg.Engine)
	rentalSvc := service.NewRentalService(store, assetRegistry, nil, emailSvc, cfg.Engine)

	jobServices := &jobs.Services{
		Streams: streamSvc,
		Rentals: rentalSvc,
		Email:   emailSvc,
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(db, store, jobServices, assetRegistry, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "sweep-milestones":
		jobRunner.SweepMilestones()
	case "mark-recoverable-rentals":
		jobRunner.MarkRecoverableRentals()
	case "all":
		jobRunner.RunAll()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - sweep-milestones\n")
		fmt.Printf("  - mark-recoverable-rentals\n")
		fmt.Printf("  - all\n")
		os.Exit(1)
	}
}
