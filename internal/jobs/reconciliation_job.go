package jobs

import (
	"context"
	"sync/atomic"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"shiptrack/internal/core/application/usecases/commands"
)

// ReconciliationJob runs the carrier status reconciliation batch on a fixed
// schedule. At most one batch is in flight at a time: if a run is still
// going when the next tick fires, the tick is skipped.
type ReconciliationJob struct {
	handler  commands.ReconcileShipmentsCommandHandler
	cron     *cron.Cron
	schedule string
	running  atomic.Bool
	logger   *zap.Logger
}

// NewReconciliationJob creates the scheduled reconciliation job. The
// schedule is a cron expression such as "@hourly".
func NewReconciliationJob(
	handler commands.ReconcileShipmentsCommandHandler,
	schedule string,
	logger *zap.Logger,
) *ReconciliationJob {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconciliationJob{
		handler:  handler,
		cron:     cron.New(),
		schedule: schedule,
		logger:   logger.With(zap.String("component", "reconciliation_job")),
	}
}

// Start begins the scheduled execution.
func (j *ReconciliationJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, j.run)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("reconciliation job started", zap.String("schedule", j.schedule))
	return nil
}

// Stop stops the scheduler. A batch already in flight runs to completion.
func (j *ReconciliationJob) Stop() {
	j.cron.Stop()
	j.logger.Info("reconciliation job stopped")
}

func (j *ReconciliationJob) run() {
	if !j.running.CompareAndSwap(false, true) {
		j.logger.Warn("previous reconciliation run still in flight, skipping tick")
		return
	}
	defer j.running.Store(false)

	ctx := context.Background()

	cmd, err := commands.NewReconcileShipmentsCommand(nil, true)
	if err != nil {
		j.logger.Error("failed to build reconciliation command", zap.Error(err))
		return
	}

	outcome, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.Error("reconciliation run failed", zap.Error(err))
		return
	}

	j.logger.Info("reconciliation run finished",
		zap.Int("primaryUpdated", len(outcome.Primary.Updated)),
		zap.Int("primaryErrors", len(outcome.Primary.Errors)),
		zap.Int("chargeUpdated", len(outcome.Charge.Updated)),
		zap.Int("chargeErrors", len(outcome.Charge.Errors)),
		zap.Duration("duration", outcome.FinishedAt.Sub(outcome.StartedAt)))
}
