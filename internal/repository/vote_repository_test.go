package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"ballotbox/internal/model"
	"ballotbox/internal/testutil"
)

var t0 = time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)

func TestVoteRepository_UniquePerElectionAndVoter(t *testing.T) {
	gormDB := testutil.SetupTestDB(t)
	repo := NewVoteRepository(gormDB)
	ctx := context.Background()

	a := testutil.CreateTestUser(t, gormDB, model.RoleCandidate, "alice")
	b := testutil.CreateTestUser(t, gormDB, model.RoleCandidate, "bob")
	voter := testutil.CreateTestUser(t, gormDB, model.RoleVoter, "v1")
	election := testutil.CreateTestElection(t, gormDB, t0, time.Hour, a.ID, b.ID)

	require.NoError(t, repo.Create(ctx, &model.Vote{ElectionID: election.ID, VoterID: voter.ID, CandidateID: a.ID}))

	err := repo.Create(ctx, &model.Vote{ElectionID: election.ID, VoterID: voter.ID, CandidateID: b.ID})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	exists, err := repo.Exists(ctx, election.ID, voter.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	other := testutil.CreateTestElection(t, gormDB, t0, time.Hour, a.ID)
	assert.NoError(t, repo.Create(ctx, &model.Vote{ElectionID: other.ID, VoterID: voter.ID, CandidateID: a.ID}))
}

func TestVoteRepository_ConcurrentInsertsKeepOneRow(t *testing.T) {
	gormDB := testutil.SetupTestDB(t)
	repo := NewVoteRepository(gormDB)

	a := testutil.CreateTestUser(t, gormDB, model.RoleCandidate, "alice")
	voter := testutil.CreateTestUser(t, gormDB, model.RoleVoter, "v1")
	election := testutil.CreateTestElection(t, gormDB, t0, time.Hour, a.ID)

	const attempts = 20
	var ok, dup atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.Create(context.Background(), &model.Vote{ElectionID: election.ID, VoterID: voter.ID, CandidateID: a.ID})
			switch {
			case err == nil:
				ok.Add(1)
			case assert.ErrorIs(t, err, gorm.ErrDuplicatedKey):
				dup.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), ok.Load())
	assert.Equal(t, int32(attempts-1), dup.Load())

	var rows int64
	require.NoError(t, gormDB.Model(&model.Vote{}).Where("election_id = ?", election.ID).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

func TestVoteRepository_TallyIncludesZeroVoteCandidates(t *testing.T) {
	gormDB := testutil.SetupTestDB(t)
	repo := NewVoteRepository(gormDB)
	ctx := context.Background()

	a := testutil.CreateTestUser(t, gormDB, model.RoleCandidate, "alice")
	b := testutil.CreateTestUser(t, gormDB, model.RoleCandidate, "bob")
	c := testutil.CreateTestUser(t, gormDB, model.RoleCandidate, "carol")
	election := testutil.CreateTestElection(t, gormDB, t0, time.Hour, a.ID, b.ID, c.ID)
	other := testutil.CreateTestElection(t, gormDB, t0, time.Hour, a.ID, b.ID, c.ID)

	for i := 0; i < 2; i++ {
		v := testutil.CreateTestUser(t, gormDB, model.RoleVoter, "c-voter-"+uuid.NewString()[:8])
		require.NoError(t, repo.Create(ctx, &model.Vote{ElectionID: election.ID, VoterID: v.ID, CandidateID: c.ID}))
	}
	// votes in another election must not leak into this tally
	for i := 0; i < 3; i++ {
		v := testutil.CreateTestUser(t, gormDB, model.RoleVoter, "o-voter-"+uuid.NewString()[:8])
		require.NoError(t, repo.Create(ctx, &model.Vote{ElectionID: other.ID, VoterID: v.ID, CandidateID: b.ID}))
	}

	rows, err := repo.Tally(ctx, election.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, c.ID, rows[0].CandidateID)
	assert.Equal(t, int64(2), rows[0].VoteCount)
	// zero-vote ties keep registration order
	assert.Equal(t, a.ID, rows[1].CandidateID)
	assert.Equal(t, int64(0), rows[1].VoteCount)
	assert.Equal(t, b.ID, rows[2].CandidateID)
	assert.Equal(t, int64(0), rows[2].VoteCount)
	assert.Equal(t, "bob", rows[2].Username)
}

func TestVoteRepository_TallyUnknownElectionIsEmpty(t *testing.T) {
	gormDB := testutil.SetupTestDB(t)
	repo := NewVoteRepository(gormDB)

	rows, err := repo.Tally(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestVoteRepository_CountDistinctVoters(t *testing.T) {
	gormDB := testutil.SetupTestDB(t)
	repo := NewVoteRepository(gormDB)
	ctx := context.Background()

	a := testutil.CreateTestUser(t, gormDB, model.RoleCandidate, "alice")
	voter := testutil.CreateTestUser(t, gormDB, model.RoleVoter, "v1")
	e1 := testutil.CreateTestElection(t, gormDB, t0, time.Hour, a.ID)
	e2 := testutil.CreateTestElection(t, gormDB, t0, time.Hour, a.ID)

	require.NoError(t, repo.Create(ctx, &model.Vote{ElectionID: e1.ID, VoterID: voter.ID, CandidateID: a.ID}))
	require.NoError(t, repo.Create(ctx, &model.Vote{ElectionID: e2.ID, VoterID: voter.ID, CandidateID: a.ID}))

	count, err := repo.CountDistinctVoters(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
