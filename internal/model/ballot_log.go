package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BallotOutcome is the result of a vote attempt.
type BallotOutcome string

const (
	BallotOutcomeAccepted BallotOutcome = "accepted"
	BallotOutcomeRejected BallotOutcome = "rejected"
)

// BallotLog records a vote attempt, accepted or not.
// It never records the chosen candidate.
type BallotLog struct {
	ID         uuid.UUID     `json:"id" gorm:"type:char(36);primaryKey"`
	ElectionID uuid.UUID     `json:"election_id" gorm:"type:char(36);not null;index"`
	VoterID    uuid.UUID     `json:"voter_id" gorm:"type:char(36);not null;index"`
	Outcome    BallotOutcome `json:"outcome" gorm:"type:varchar(20);not null;index"`
	Reason     string        `json:"reason,omitempty" gorm:"type:text"`
	CreatedAt  time.Time     `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (l *BallotLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
