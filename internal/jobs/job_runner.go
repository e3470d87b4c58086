package jobs

import (
	"database/sql"

	"nftflow-backend/internal/config"
	"nftflow-backend/internal/logger"
	"nftflow-backend/internal/registry"
	"nftflow-backend/internal/repository/postgres"
	"nftflow-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	db       *sql.DB
	store    *postgres.Store
	services *Services
	registry registry.AssetRegistry
	config   *config.Config
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Streams service.StreamService
	Rentals service.RentalService
	Email   service.EmailService
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(db *sql.DB, store *postgres.Store, services *Services, reg registry.AssetRegistry, cfg *config.Config) *JobRunner {
	return &JobRunner{
		db:       db,
		store:    store,
		services: services,
		registry: reg,
		config:   cfg,
	}
}

// Config exposes the runner's configuration to the scheduler
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.SweepMilestones()
	jr.MarkRecoverableRentals()
}
