package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Vote records that a voter cast a ballot for a candidate in an election.
// The (election_id, voter_id) unique index is what rejects a second ballot.
type Vote struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	ElectionID  uuid.UUID `json:"election_id" gorm:"type:char(36);not null;uniqueIndex:idx_votes_election_voter,priority:1"`
	VoterID     uuid.UUID `json:"voter_id" gorm:"type:char(36);not null;uniqueIndex:idx_votes_election_voter,priority:2;index"`
	CandidateID uuid.UUID `json:"candidate_id" gorm:"type:char(36);not null;index"`
	CreatedAt   time.Time `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (v *Vote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// TallyRow is the vote count of one candidate in one election.
type TallyRow struct {
	CandidateID uuid.UUID       `json:"candidate_id"`
	FullName    string          `json:"full_name"`
	Username    string          `json:"username"`
	VoteCount   int64           `json:"vote_count"`
	Share       decimal.Decimal `json:"share" gorm:"-"`
}
