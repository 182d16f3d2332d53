package jobs

import (
	"context"
	"log/slog"
)

// Purger drops the per-account snapshots.
type Purger interface {
	PurgeAccountSnapshots() int
}

// CachePurgeJob evicts the snapshots of individual account filters so
// they do not outlive the accounts people actually look at. The
// all-accounts snapshot is kept warm by CacheWarmJob.
type CachePurgeJob struct {
	purger Purger
	logger *slog.Logger
}

func NewCachePurgeJob(purger Purger, logger *slog.Logger) *CachePurgeJob {
	return &CachePurgeJob{purger: purger, logger: logger}
}

func (j *CachePurgeJob) Run(_ context.Context) error {
	if n := j.purger.PurgeAccountSnapshots(); n > 0 {
		j.logger.Info("Purged account snapshots", slog.Int("count", n))
	}
	return nil
}
