package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "ballotbox/internal/errors"
	"ballotbox/internal/model"
	"ballotbox/internal/repository"
	"ballotbox/internal/testutil"
)

func TestUserService_ProfileIncludesVotedElections(t *testing.T) {
	gormDB := testutil.SetupTestDB(t)
	ctx := context.Background()

	a := testutil.CreateTestUser(t, gormDB, model.RoleCandidate, "alice")
	voter := testutil.CreateTestUser(t, gormDB, model.RoleVoter, "v1")
	voted := testutil.CreateTestElection(t, gormDB, t0, time.Hour, a.ID)
	testutil.CreateTestElection(t, gormDB, t0, time.Hour, a.ID)
	require.NoError(t, gormDB.Create(&model.Vote{ElectionID: voted.ID, VoterID: voter.ID, CandidateID: a.ID}).Error)

	svc := NewUserService(repository.NewUserRepository(gormDB), repository.NewElectionRepository(gormDB), nil).(*userService)
	svc.now = fixedClock(t0.Add(2 * time.Hour))

	profile, err := svc.GetProfile(ctx, voter.ID)
	require.NoError(t, err)
	assert.Equal(t, voter.ID, profile.User.ID)
	require.Len(t, profile.VotedElections, 1)
	assert.Equal(t, voted.ID, profile.VotedElections[0].ID)
	assert.Equal(t, model.ElectionStatusCompleted, profile.VotedElections[0].Status)

	_, err = svc.GetProfile(ctx, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestUserService_UpdateProfile(t *testing.T) {
	gormDB := testutil.SetupTestDB(t)
	ctx := context.Background()

	voter := testutil.CreateTestUser(t, gormDB, model.RoleVoter, "v1")
	testutil.CreateTestUser(t, gormDB, model.RoleVoter, "v2")

	svc := NewUserService(repository.NewUserRepository(gormDB), repository.NewElectionRepository(gormDB), nil)

	profile, err := svc.UpdateProfile(ctx, voter.ID, UpdateProfileInput{
		FullName: "Vera Voter",
		Details:  &model.VoterDetails{VoterNumber: "V-100", Address: "2 High St"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Vera Voter", profile.User.FullName)
	assert.Equal(t, "v1@example.com", profile.User.Email)
	require.NotNil(t, profile.User.VoterDetails)
	assert.Equal(t, "V-100", profile.User.VoterDetails.VoterNumber)

	_, err = svc.UpdateProfile(ctx, voter.ID, UpdateProfileInput{Email: "V2@example.com"})
	assert.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)

	_, err = svc.UpdateProfile(ctx, voter.ID, UpdateProfileInput{Details: &model.CandidateDetails{Bio: "x"}})
	assert.ErrorIs(t, err, apperrors.ErrInvalidRoleDetails)

	_, err = svc.UpdateProfile(ctx, uuid.New(), UpdateProfileInput{FullName: "nobody"})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestUserService_ListCandidates(t *testing.T) {
	userRepo := new(MockUserRepository)
	userRepo.On("ListByRole", mock.Anything, model.RoleCandidate).Return([]model.User{{Username: "alice", Role: model.RoleCandidate}}, nil)
	userRepo.On("List", mock.Anything).Return(nil, gorm.ErrInvalidDB)

	svc := NewUserService(userRepo, new(MockElectionRepository), nil)

	candidates, err := svc.ListCandidates(context.Background())
	require.NoError(t, err)
	assert.Len(t, candidates, 1)

	_, err = svc.ListUsers(context.Background())
	assert.ErrorIs(t, err, gorm.ErrInvalidDB)

	userRepo.AssertExpectations(t)
}
