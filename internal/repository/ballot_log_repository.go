package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ballotbox/internal/model"
)

// BallotLogRepository defines vote attempt audit persistence.
type BallotLogRepository interface {
	Create(ctx context.Context, log *model.BallotLog) error
	CreateBatch(ctx context.Context, logs []model.BallotLog) error
	ListByElection(ctx context.Context, electionID uuid.UUID, limit int) ([]model.BallotLog, error)
}

type ballotLogRepository struct {
	db *gorm.DB
}

// NewBallotLogRepository creates a new ballot log repository.
func NewBallotLogRepository(db *gorm.DB) BallotLogRepository {
	return &ballotLogRepository{db: db}
}

// Create creates a new ballot log entry.
func (r *ballotLogRepository) Create(ctx context.Context, log *model.BallotLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// CreateBatch creates multiple ballot log entries in a single round trip.
func (r *ballotLogRepository) CreateBatch(ctx context.Context, logs []model.BallotLog) error {
	if len(logs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(logs, 100).Error
}

// ListByElection returns the newest attempts for an election.
func (r *ballotLogRepository) ListByElection(ctx context.Context, electionID uuid.UUID, limit int) ([]model.BallotLog, error) {
	var logs []model.BallotLog
	q := r.db.WithContext(ctx).Where("election_id = ?", electionID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
