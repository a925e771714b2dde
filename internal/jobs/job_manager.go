package jobs

import (
	"fmt"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	reconciliationJob *DriverStatusReconciliationJob
	orphanSweepJob    *OrphanSweepJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers and cron schedules as dependencies.
func NewJobManager(
	reconcileHandler commands.ReconcileDriverStatusesCommandHandler,
	sweepHandler commands.SweepOrphanTransactionsCommandHandler,
	reconcileSchedule string,
	sweepSchedule string,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		reconciliationJob: NewDriverStatusReconciliationJob(reconcileHandler, reconcileSchedule, logger),
		orphanSweepJob:    NewOrphanSweepJob(sweepHandler, sweepSchedule, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.reconciliationJob.Start(); err != nil {
		return fmt.Errorf("failed to start driver status reconciliation job: %w", err)
	}

	if err := jm.orphanSweepJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.reconciliationJob.Stop()
		return fmt.Errorf("failed to start orphan sweep job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.orphanSweepJob.Stop()
	jm.reconciliationJob.Stop()
}
