package jobs

import (
	"context"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DriverStatusReconciliationJob periodically re-derives every driver's
// status from their live order count. The claim and completion paths keep
// statuses current on their own; this job repairs drift left behind by
// crashes between an order write and the driver write.
type DriverStatusReconciliationJob struct {
	handler  commands.ReconcileDriverStatusesCommandHandler
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewDriverStatusReconciliationJob creates the reconciliation job with the
// given cron schedule.
func NewDriverStatusReconciliationJob(
	handler commands.ReconcileDriverStatusesCommandHandler,
	schedule string,
	logger *slog.Logger,
) *DriverStatusReconciliationJob {
	return &DriverStatusReconciliationJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "driver_status_reconciliation_job"),
	}
}

// Start schedules the job.
func (j *DriverStatusReconciliationJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		cmd := commands.NewReconcileDriverStatusesCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Driver status reconciliation failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(),
		"Driver status reconciliation job started", "schedule", j.schedule)
	return nil
}

// Stop stops the job.
func (j *DriverStatusReconciliationJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Driver status reconciliation job stopped")
}
