package jobs

import (
	"context"
	"log/slog"
	"time"

	"cyberdock/internal/sales"
)

// SnapshotRefresher reloads the cached sale snapshot.
type SnapshotRefresher interface {
	RefreshSales(ctx context.Context, accountID string) ([]sales.Sale, error)
}

// CacheWarmJob reloads the all-accounts snapshot so requests rarely pay
// for a cold load.
type CacheWarmJob struct {
	refresher SnapshotRefresher
	logger    *slog.Logger
	timeout   time.Duration
}

func NewCacheWarmJob(refresher SnapshotRefresher, logger *slog.Logger, timeout time.Duration) *CacheWarmJob {
	return &CacheWarmJob{refresher: refresher, logger: logger, timeout: timeout}
}

// Run executes one refresh.
func (j *CacheWarmJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	start := time.Now()
	records, err := j.refresher.RefreshSales(ctx, "")
	if err != nil {
		return err
	}
	j.logger.Debug("Sales snapshot refreshed",
		slog.Int("records", len(records)),
		slog.Duration("elapsed", time.Since(start)))
	return nil
}
