package jobs

import (
	"context"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// OrphanSweepJob periodically scans the ledger for half-linked settlement
// entries. The sweep only reports; repair of an orphaned pair is a manual
// operation because it moves money.
type OrphanSweepJob struct {
	handler  commands.SweepOrphanTransactionsCommandHandler
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewOrphanSweepJob creates the sweep job with the given cron schedule.
func NewOrphanSweepJob(
	handler commands.SweepOrphanTransactionsCommandHandler,
	schedule string,
	logger *slog.Logger,
) *OrphanSweepJob {
	return &OrphanSweepJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "orphan_sweep_job"),
	}
}

// Start schedules the job.
func (j *OrphanSweepJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		cmd := commands.NewSweepOrphanTransactionsCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Orphan sweep failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Orphan sweep job started", "schedule", j.schedule)
	return nil
}

// Stop stops the job.
func (j *OrphanSweepJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Orphan sweep job stopped")
}
