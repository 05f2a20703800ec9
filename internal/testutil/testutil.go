// Package testutil provides an in-memory database and fixtures for tests.
package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ballotbox/internal/db"
	"ballotbox/internal/model"
)

// SetupTestDB opens a fresh in-memory sqlite database with the full schema.
// A single connection is used so every query sees the same database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gormDB, err := db.Open("sqlite", ":memory:", "silent")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(gormDB); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return gormDB
}

// CreateTestUser inserts a user with the given role and returns it.
func CreateTestUser(t *testing.T, gormDB *gorm.DB, role model.Role, username string) *model.User {
	t.Helper()

	user := &model.User{
		FullName:     "User " + username,
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: "x",
		Role:         role,
		Status:       model.UserStatusActive,
	}
	if err := gormDB.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return user
}

// CreateTestElection inserts an election over [start, start+d) with the
// given candidates registered in order.
func CreateTestElection(t *testing.T, gormDB *gorm.DB, start time.Time, d time.Duration, candidates ...uuid.UUID) *model.Election {
	t.Helper()

	election := &model.Election{
		Title:       "Test election",
		Description: "test",
		StartDate:   start,
		EndDate:     start.Add(d),
		Status:      model.ElectionStatusUpcoming,
	}
	if err := gormDB.Omit("Candidacies").Create(election).Error; err != nil {
		t.Fatalf("Failed to create election: %v", err)
	}
	for i, id := range candidates {
		row := model.ElectionCandidate{ElectionID: election.ID, UserID: id, Position: i}
		if err := gormDB.Omit("User").Create(&row).Error; err != nil {
			t.Fatalf("Failed to register candidate: %v", err)
		}
	}
	return election
}
