package lobbyjobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	lobbyservice "github.com/brett-phillips/ELO/app/modules/lobby/application"
	"github.com/brett-phillips/ELO/app/shared/observability/attr"
	"github.com/riverqueue/river"
)

// SweepWorker runs SweepQueueTimeouts for each periodic job.
type SweepWorker struct {
	river.WorkerDefaults[SweepQueueTimeoutsArgs]
	service lobbyservice.Service
	logger  *slog.Logger
	now     func() time.Time
	timeout time.Duration
}

// NewSweepWorker creates a SweepWorker.
func NewSweepWorker(service lobbyservice.Service, logger *slog.Logger, now func() time.Time) *SweepWorker {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &SweepWorker{service: service, logger: logger, now: now, timeout: 2 * time.Minute}
}

// Work sweeps once. A returned error lets River record the attempt; the next
// periodic run retries regardless.
func (w *SweepWorker) Work(ctx context.Context, job *river.Job[SweepQueueTimeoutsArgs]) error {
	res, err := w.service.SweepQueueTimeouts(ctx, w.now())
	if err != nil {
		w.logger.ErrorContext(ctx, "Queue timeout sweep failed",
			attr.Int64("job_id", job.ID),
			attr.Error(err),
		)
		return fmt.Errorf("sweep queue timeouts: %w", err)
	}
	if res.Success == nil {
		return nil
	}

	sweep := *res.Success
	if sweep.Skipped {
		w.logger.InfoContext(ctx, "Queue timeout sweep skipped, previous run still active",
			attr.Int64("job_id", job.ID),
		)
		return nil
	}
	w.logger.InfoContext(ctx, "Queue timeout sweep finished",
		attr.Int64("job_id", job.ID),
		attr.Int("lobbies_checked", sweep.LobbiesChecked),
		attr.Int("evicted", len(sweep.Evicted)),
	)
	return nil
}

func (w *SweepWorker) Timeout(*river.Job[SweepQueueTimeoutsArgs]) time.Duration {
	return w.timeout
}
