// Package jobs provides the scheduled background tasks of the service.
//
// The only job today is the hourly carrier status reconciliation batch,
// scheduled with github.com/robfig/cron/v3. The scheduler guarantees at
// most one batch invocation in flight; overlapping ticks are skipped, not
// queued, because every transition is idempotent and the next run picks up
// whatever the skipped one would have done.
package jobs

import (
	"fmt"

	"go.uber.org/zap"

	"shiptrack/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	reconciliationJob *ReconciliationJob
}

// NewJobManager creates a job manager with all required jobs wired to their
// command handlers.
func NewJobManager(
	reconcileHandler commands.ReconcileShipmentsCommandHandler,
	schedule string,
	logger *zap.Logger,
) *JobManager {
	return &JobManager{
		reconciliationJob: NewReconciliationJob(reconcileHandler, schedule, logger),
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.reconciliationJob.Start(); err != nil {
		return fmt.Errorf("failed to start reconciliation job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.reconciliationJob.Stop()
}
