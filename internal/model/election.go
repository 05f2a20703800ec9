package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ElectionStatus represents the lifecycle phase of an election.
type ElectionStatus string

const (
	ElectionStatusUpcoming  ElectionStatus = "upcoming"
	ElectionStatusActive    ElectionStatus = "active"
	ElectionStatusCompleted ElectionStatus = "completed"
)

// Election represents a vote held over the window [StartDate, EndDate).
// Status is a stored copy kept for queries; StatusAt is authoritative.
type Election struct {
	ID          uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	Title       string         `json:"title" gorm:"size:255;not null"`
	Description string         `json:"description" gorm:"type:text;not null"`
	StartDate   time.Time      `json:"start_date" gorm:"not null;index"`
	EndDate     time.Time      `json:"end_date" gorm:"not null;index"`
	Status      ElectionStatus `json:"status" gorm:"type:varchar(20);not null;default:'upcoming';index"`
	CreatedBy   uuid.UUID      `json:"created_by" gorm:"type:char(36)"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	// Relations
	Candidacies []ElectionCandidate `json:"-" gorm:"foreignKey:ElectionID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (e *Election) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// StatusAt derives the lifecycle status from the time window.
func (e *Election) StatusAt(t time.Time) ElectionStatus {
	switch {
	case t.Before(e.StartDate):
		return ElectionStatusUpcoming
	case t.Before(e.EndDate):
		return ElectionStatusActive
	default:
		return ElectionStatusCompleted
	}
}

// IsOpenAt reports whether t lies within [StartDate, EndDate).
func (e *Election) IsOpenAt(t time.Time) bool {
	return e.StatusAt(t) == ElectionStatusActive
}

// ElectionCandidate is the candidacy relation between an election and a user.
// Position records registration order within the election.
type ElectionCandidate struct {
	ElectionID uuid.UUID `json:"election_id" gorm:"type:char(36);primaryKey"`
	UserID     uuid.UUID `json:"user_id" gorm:"type:char(36);primaryKey;index"`
	Position   int       `json:"position" gorm:"not null;default:0"`
	CreatedAt  time.Time `json:"created_at"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}
