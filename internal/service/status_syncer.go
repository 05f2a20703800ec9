package service

import (
	"context"
	"log/slog"
	"time"

	"ballotbox/internal/cache"
	"ballotbox/internal/repository"
)

// StatusSyncer keeps the stored election status column in step with time.
// Nothing reads the column to make a decision.
type StatusSyncer struct {
	repo     repository.ElectionRepository
	cache    *cache.Client
	logger   *slog.Logger
	interval time.Duration
	now      func() time.Time
}

// NewStatusSyncer creates a syncer that runs every interval.
func NewStatusSyncer(repo repository.ElectionRepository, cache *cache.Client, logger *slog.Logger, interval time.Duration) *StatusSyncer {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &StatusSyncer{repo: repo, cache: cache, logger: logger, interval: interval, now: time.Now}
}

// SyncOnce rewrites stale statuses and returns how many rows changed.
func (s *StatusSyncer) SyncOnce(ctx context.Context) (int64, error) {
	changed, err := s.repo.SyncStatuses(ctx, s.now().UTC())
	if err != nil {
		s.logger.Error("election status sync failed", "op", "election.sync_status", "error", err)
		return 0, err
	}
	if changed > 0 {
		_ = s.cache.Delete(ctx, electionListCacheKey, statsCacheKey)
		s.logger.Info("election statuses updated", "op", "election.sync_status", "changed", changed)
	}
	return changed, nil
}

// Run syncs immediately and then on every tick until ctx is done.
func (s *StatusSyncer) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	_, _ = s.SyncOnce(ctx)
	for {
		select {
		case <-ticker.C:
			_, _ = s.SyncOnce(ctx)
		case <-ctx.Done():
			return
		}
	}
}
