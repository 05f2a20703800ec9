package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoleDetails is the role-specific part of a user, one variant per role.
type RoleDetails interface {
	Role() Role
}

// AdminDetails holds fields only admins carry.
type AdminDetails struct {
	ID         uuid.UUID `json:"-" gorm:"type:char(36);primaryKey"`
	UserID     uuid.UUID `json:"-" gorm:"type:char(36);not null;uniqueIndex"`
	EmployeeID string    `json:"employee_id" gorm:"size:100;not null;uniqueIndex"`
	Department string    `json:"department" gorm:"size:255;not null"`
}

// CandidateDetails holds fields only candidates carry.
type CandidateDetails struct {
	ID               uuid.UUID `json:"-" gorm:"type:char(36);primaryKey"`
	UserID           uuid.UUID `json:"-" gorm:"type:char(36);not null;uniqueIndex"`
	PartyAffiliation string    `json:"party_affiliation" gorm:"size:255;not null"`
	Bio              string    `json:"bio,omitempty" gorm:"type:text"`
}

// VoterDetails holds fields only voters carry.
type VoterDetails struct {
	ID          uuid.UUID `json:"-" gorm:"type:char(36);primaryKey"`
	UserID      uuid.UUID `json:"-" gorm:"type:char(36);not null;uniqueIndex"`
	VoterNumber string    `json:"voter_number" gorm:"size:100;not null;uniqueIndex"`
	Address     string    `json:"address" gorm:"size:255;not null"`
}

func (*AdminDetails) Role() Role     { return RoleAdmin }
func (*CandidateDetails) Role() Role { return RoleCandidate }
func (*VoterDetails) Role() Role     { return RoleVoter }

func (d *AdminDetails) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

func (d *CandidateDetails) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

func (d *VoterDetails) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
