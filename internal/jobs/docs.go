// Package jobs provides scheduled background tasks for the dispatch system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic maintenance the request paths cannot guarantee.
//
// # Available Jobs
//
// 1. DriverStatusReconciliationJob - re-derives each driver's status from their
// live order count and corrects drift left behind by crashes
// 2. OrphanSweepJob - scans the settlement ledger for half-linked pairs,
// relinks or rebuilds the missing side, and logs every repair
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(reconcileHandler, sweepHandler,
//		"0 * * * * *", "0 */5 * * * *", logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Schedules are six-field cron expressions (with seconds) supplied by
// configuration. Reconciliation is cheap and safe to run often; the sweep
// writes only when it finds a half-written pair, so a healthy ledger makes
// it a read-only pass.
//
// # Error Handling
//
// Both jobs log failures and keep their schedule; a failed run is retried on
// the next tick. Neither job touches driver cash balances.
package jobs
