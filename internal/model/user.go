package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role tags a user account as admin, candidate or voter.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleCandidate Role = "candidate"
	RoleVoter     Role = "voter"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCandidate, RoleVoter:
		return true
	}
	return false
}

// UserStatus represents the state of an account.
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
)

// User represents an account in the identity store.
type User struct {
	ID           uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	FullName     string     `json:"full_name" gorm:"size:255;not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Username     string     `json:"username" gorm:"uniqueIndex;size:100;not null"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         Role       `json:"role" gorm:"type:varchar(20);not null;default:'voter';index"`
	Status       UserStatus `json:"status" gorm:"type:varchar(20);not null;default:'active'"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Role-specific details, at most one is populated and it matches Role.
	AdminDetails     *AdminDetails     `json:"admin_details,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CandidateDetails *CandidateDetails `json:"candidate_details,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	VoterDetails     *VoterDetails     `json:"voter_details,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// IsActive reports whether the account may sign in.
func (u *User) IsActive() bool {
	return u.Status == "" || u.Status == UserStatusActive
}

// Details returns the role-specific record matching the user's role, or nil.
func (u *User) Details() RoleDetails {
	switch u.Role {
	case RoleAdmin:
		if u.AdminDetails != nil {
			return u.AdminDetails
		}
	case RoleCandidate:
		if u.CandidateDetails != nil {
			return u.CandidateDetails
		}
	case RoleVoter:
		if u.VoterDetails != nil {
			return u.VoterDetails
		}
	}
	return nil
}

// SetDetails attaches d to the matching relation and clears the others.
// It returns false when d does not belong to the user's role.
func (u *User) SetDetails(d RoleDetails) bool {
	if d == nil {
		return true
	}
	if d.Role() != u.Role {
		return false
	}
	u.AdminDetails, u.CandidateDetails, u.VoterDetails = nil, nil, nil
	switch v := d.(type) {
	case *AdminDetails:
		u.AdminDetails = v
	case *CandidateDetails:
		u.CandidateDetails = v
	case *VoterDetails:
		u.VoterDetails = v
	}
	return true
}
