package jobs

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"liberia/internal/models"
)

// Syncer runs one pull sync. *service.SyncService implements it.
type Syncer interface {
	PullSync(ctx context.Context) (*models.SyncResult, error)
}

// ScheduledSyncJob runs the pull sync on a fixed interval. A tick that
// arrives while a run is still going is skipped.
type ScheduledSyncJob struct {
	syncer   Syncer
	interval time.Duration
	running  atomic.Bool
	ticker   *time.Ticker
	done     chan struct{}
}

func NewScheduledSyncJob(syncer Syncer, interval time.Duration) *ScheduledSyncJob {
	return &ScheduledSyncJob{
		syncer:   syncer,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start begins the background job; the first run happens immediately.
func (j *ScheduledSyncJob) Start(ctx context.Context) {
	slog.Info("Starting scheduled pull sync", "interval", j.interval.String())

	j.ticker = time.NewTicker(j.interval)

	go j.runOnce(ctx)

	go func() {
		for {
			select {
			case <-j.ticker.C:
				go j.runOnce(ctx)
			case <-j.done:
				slog.Info("Scheduled pull sync stopped")
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop gracefully stops the background job
func (j *ScheduledSyncJob) Stop() {
	if j.ticker != nil {
		j.ticker.Stop()
	}
	close(j.done)
}

// runOnce reports whether a sync actually ran.
func (j *ScheduledSyncJob) runOnce(ctx context.Context) bool {
	if !j.running.CompareAndSwap(false, true) {
		slog.Warn("Previous pull sync still running, skipping tick")
		return false
	}
	defer j.running.Store(false)

	// An aborted run is retried on the next tick.
	if _, err := j.syncer.PullSync(ctx); err != nil {
		slog.Error("Scheduled pull sync aborted", "error", err)
	}
	return true
}
