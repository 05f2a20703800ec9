package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ballotbox/internal/model"
)

// ElectionRepository defines election and candidacy persistence operations.
type ElectionRepository interface {
	Create(ctx context.Context, election *model.Election) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Election, error)
	List(ctx context.Context) ([]model.Election, error)
	ListVotedBy(ctx context.Context, voterID uuid.UUID) ([]model.Election, error)
	AddCandidates(ctx context.Context, electionID uuid.UUID, userIDs []uuid.UUID) error
	IsCandidate(ctx context.Context, electionID, userID uuid.UUID) (bool, error)
	CountOpenAt(ctx context.Context, at time.Time) (int64, error)
	CountEndedBy(ctx context.Context, at time.Time) (int64, error)
	SyncStatuses(ctx context.Context, at time.Time) (int64, error)
	// Transaction methods
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo ElectionRepository) error) error
}

type electionRepository struct {
	db *gorm.DB
}

// NewElectionRepository creates a new election repository.
func NewElectionRepository(db *gorm.DB) ElectionRepository {
	return &electionRepository{db: db}
}

func withCandidates(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Candidacies", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Candidacies.User").
		Preload("Candidacies.User.CandidateDetails")
}

// Create inserts the election row only; candidacies go through AddCandidates.
func (r *electionRepository) Create(ctx context.Context, election *model.Election) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(election).Error
}

// FindByID finds an election by ID with its candidates in registration order.
func (r *electionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Election, error) {
	var election model.Election
	if err := withCandidates(r.db.WithContext(ctx)).Where("id = ?", id).First(&election).Error; err != nil {
		return nil, err
	}
	return &election, nil
}

// List returns all elections, newest start first.
func (r *electionRepository) List(ctx context.Context) ([]model.Election, error) {
	var elections []model.Election
	if err := withCandidates(r.db.WithContext(ctx)).Order("start_date DESC").Find(&elections).Error; err != nil {
		return nil, err
	}
	return elections, nil
}

// ListVotedBy returns the elections the voter has a vote in.
func (r *electionRepository) ListVotedBy(ctx context.Context, voterID uuid.UUID) ([]model.Election, error) {
	var elections []model.Election
	err := r.db.WithContext(ctx).
		Joins("JOIN votes ON votes.election_id = elections.id").
		Where("votes.voter_id = ?", voterID).
		Order("elections.start_date DESC").
		Find(&elections).Error
	if err != nil {
		return nil, err
	}
	return elections, nil
}

// AddCandidates registers userIDs in order after any existing candidates.
// Pairs that are already registered are skipped and take no position.
func (r *electionRepository) AddCandidates(ctx context.Context, electionID uuid.UUID, userIDs []uuid.UUID) error {
	if len(userIDs) == 0 {
		return nil
	}
	db := r.db.WithContext(ctx)

	var registered []uuid.UUID
	if err := db.Model(&model.ElectionCandidate{}).
		Where("election_id = ? AND user_id IN ?", electionID, userIDs).
		Pluck("user_id", &registered).Error; err != nil {
		return err
	}
	skip := make(map[uuid.UUID]bool, len(registered))
	for _, id := range registered {
		skip[id] = true
	}

	var next int
	if err := db.Model(&model.ElectionCandidate{}).
		Where("election_id = ?", electionID).
		Select("COALESCE(MAX(position) + 1, 0)").
		Scan(&next).Error; err != nil {
		return err
	}

	rows := make([]model.ElectionCandidate, 0, len(userIDs))
	for _, id := range userIDs {
		if skip[id] {
			continue
		}
		skip[id] = true
		rows = append(rows, model.ElectionCandidate{
			ElectionID: electionID,
			UserID:     id,
			Position:   next + len(rows),
		})
	}
	if len(rows) == 0 {
		return nil
	}
	return db.Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}

// IsCandidate reports whether userID holds a candidacy in electionID.
func (r *electionRepository) IsCandidate(ctx context.Context, electionID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ElectionCandidate{}).
		Where("election_id = ? AND user_id = ?", electionID, userID).
		Count(&count).Error
	return count > 0, err
}

// CountOpenAt counts elections whose window contains at.
func (r *electionRepository) CountOpenAt(ctx context.Context, at time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Election{}).
		Where("start_date <= ? AND end_date > ?", at, at).
		Count(&count).Error
	return count, err
}

// CountEndedBy counts elections whose window closed at or before at.
func (r *electionRepository) CountEndedBy(ctx context.Context, at time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Election{}).
		Where("end_date <= ?", at).
		Count(&count).Error
	return count, err
}

// SyncStatuses rewrites the stored status column from the time window.
func (r *electionRepository) SyncStatuses(ctx context.Context, at time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := []struct {
			status model.ElectionStatus
			where  string
			args   []interface{}
		}{
			{model.ElectionStatusUpcoming, "start_date > ?", []interface{}{at}},
			{model.ElectionStatusActive, "start_date <= ? AND end_date > ?", []interface{}{at, at}},
			{model.ElectionStatusCompleted, "end_date <= ?", []interface{}{at}},
		}
		for _, u := range updates {
			res := tx.Model(&model.Election{}).
				Where(u.where, u.args...).
				Where("status <> ?", u.status).
				Update("status", u.status)
			if res.Error != nil {
				return res.Error
			}
			total += res.RowsAffected
		}
		return nil
	})
	return total, err
}

// WithTransaction executes a function within a database transaction.
func (r *electionRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo ElectionRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &electionRepository{db: tx}
		return fn(ctx, txRepo)
	})
}
