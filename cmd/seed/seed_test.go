package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ballotbox/internal/model"
	"ballotbox/internal/repository"
	"ballotbox/internal/testutil"
)

const seedJSON = `[
  {"full_name": "Ada Admin", "email": "Admin@Example.com", "username": "admin", "password": "admin123", "role": "admin",
   "details": {"employee_id": "E-1", "department": "Elections"}},
  {"full_name": "Carl Candidate", "email": "carl@example.com", "username": "carl", "password": "secret1", "role": "candidate",
   "details": {"party_affiliation": "Green"}},
  {"full_name": "Bad Role", "email": "bad@example.com", "username": "bad", "password": "secret1", "role": "king"},
  {"full_name": "Short", "email": "short@example.com", "username": "short", "password": "123", "role": "voter"}
]`

func TestSeedUsers(t *testing.T) {
	gormDB := testutil.SetupTestDB(t)
	repo := repository.NewUserRepository(gormDB)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(seedJSON), 0o600))

	records, err := loadSeedRecords(path)
	require.NoError(t, err)
	require.Len(t, records, 4)

	result, err := seedUsers(ctx, repo, records)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{Created: 2, Existing: 0, Skipped: 2}, result)

	admin, err := repo.FindByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, admin.Role)

	full, err := repo.FindByID(ctx, admin.ID)
	require.NoError(t, err)
	require.NotNil(t, full.AdminDetails)
	assert.Equal(t, "E-1", full.AdminDetails.EmployeeID)

	again, err := seedUsers(ctx, repo, records)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{Created: 0, Existing: 2, Skipped: 2}, again)
}

func TestParseSeedRecords_InvalidJSON(t *testing.T) {
	_, err := parseSeedRecords([]byte("{not json"))
	assert.Error(t, err)
}
