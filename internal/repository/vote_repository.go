package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ballotbox/internal/model"
)

// VoteRepository defines vote persistence operations.
type VoteRepository interface {
	Create(ctx context.Context, vote *model.Vote) error
	Exists(ctx context.Context, electionID, voterID uuid.UUID) (bool, error)
	Tally(ctx context.Context, electionID uuid.UUID) ([]model.TallyRow, error)
	CountDistinctVoters(ctx context.Context) (int64, error)
}

type voteRepository struct {
	db *gorm.DB
}

// NewVoteRepository creates a new vote repository.
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

// Create inserts a single vote row. A second row for the same
// (election, voter) fails with gorm.ErrDuplicatedKey.
func (r *voteRepository) Create(ctx context.Context, vote *model.Vote) error {
	return r.db.WithContext(ctx).Create(vote).Error
}

// Exists reports whether the voter already has a vote in the election.
func (r *voteRepository) Exists(ctx context.Context, electionID, voterID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Vote{}).
		Where("election_id = ? AND voter_id = ?", electionID, voterID).
		Count(&count).Error
	return count > 0, err
}

// Tally counts votes per registered candidate. Every candidacy yields a row,
// zero-vote candidates included, ordered by count then registration order.
func (r *voteRepository) Tally(ctx context.Context, electionID uuid.UUID) ([]model.TallyRow, error) {
	var rows []model.TallyRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			ec.user_id AS candidate_id,
			u.full_name AS full_name,
			u.username AS username,
			COUNT(v.id) AS vote_count
		FROM election_candidates ec
		JOIN users u ON u.id = ec.user_id
		LEFT JOIN votes v ON v.election_id = ec.election_id AND v.candidate_id = ec.user_id
		WHERE ec.election_id = ?
		GROUP BY ec.user_id, u.full_name, u.username, ec.position
		ORDER BY vote_count DESC, ec.position ASC, ec.user_id ASC
	`, electionID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CountDistinctVoters counts users who have cast at least one vote.
func (r *voteRepository) CountDistinctVoters(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Vote{}).
		Distinct("voter_id").
		Count(&count).Error
	return count, err
}
