package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"ballotbox/internal/model"
	"ballotbox/internal/repository"
)

const (
	auditBatchSize     = 10
	auditFlushInterval = time.Second
)

// BallotRecorder receives vote attempts for the audit trail.
type BallotRecorder interface {
	Record(ctx context.Context, entry model.BallotLog)
}

// BallotAuditor writes vote attempts to storage in batches. Once Run has
// returned, Record writes each entry synchronously.
type BallotAuditor struct {
	repo    repository.BallotLogRepository
	logger  *slog.Logger
	entries chan model.BallotLog

	mu      sync.RWMutex
	stopped bool
}

// NewBallotAuditor creates an auditor. Call Run to start flushing.
func NewBallotAuditor(repo repository.BallotLogRepository, logger *slog.Logger) *BallotAuditor {
	if logger == nil {
		logger = slog.Default()
	}
	return &BallotAuditor{
		repo:    repo,
		logger:  logger,
		entries: make(chan model.BallotLog, 100),
	}
}

// Record queues an entry without blocking the caller.
func (a *BallotAuditor) Record(ctx context.Context, entry model.BallotLog) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	a.mu.RLock()
	if !a.stopped {
		select {
		case a.entries <- entry:
			a.mu.RUnlock()
			return
		default:
		}
	}
	a.mu.RUnlock()

	// Queue full or worker stopped, write synchronously
	if err := a.repo.Create(context.WithoutCancel(ctx), &entry); err != nil {
		a.logger.Error("ballot audit write failed", "op", "audit.record", "election_id", entry.ElectionID, "voter_id", entry.VoterID, "error", err)
	}
}

// Run flushes queued entries until ctx is done, then drains what is left.
func (a *BallotAuditor) Run(ctx context.Context) {
	batch := make([]model.BallotLog, 0, auditBatchSize)
	ticker := time.NewTicker(auditFlushInterval)
	defer ticker.Stop()

	flush := func(ctx context.Context) {
		if len(batch) == 0 {
			return
		}
		if err := a.repo.CreateBatch(ctx, batch); err != nil {
			a.logger.Error("ballot audit flush failed", "op", "audit.flush", "entries", len(batch), "error", err)
		}
		batch = batch[:0]
	}

	for {
		select {
		case entry := <-a.entries:
			batch = append(batch, entry)
			if len(batch) >= auditBatchSize {
				flush(ctx)
			}
		case <-ticker.C:
			flush(ctx)
		case <-ctx.Done():
			a.mu.Lock()
			a.stopped = true
			a.mu.Unlock()

			final := context.WithoutCancel(ctx)
			for {
				select {
				case entry := <-a.entries:
					batch = append(batch, entry)
				default:
					flush(final)
					return
				}
			}
		}
	}
}
