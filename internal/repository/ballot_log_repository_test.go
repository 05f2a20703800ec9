package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ballotbox/internal/model"
	"ballotbox/internal/testutil"
)

func TestBallotLogRepository_BatchAndList(t *testing.T) {
	gormDB := testutil.SetupTestDB(t)
	repo := NewBallotLogRepository(gormDB)
	ctx := context.Background()

	electionID := uuid.New()
	otherID := uuid.New()
	voterID := uuid.New()

	require.NoError(t, repo.CreateBatch(ctx, nil))
	require.NoError(t, repo.CreateBatch(ctx, []model.BallotLog{
		{ElectionID: electionID, VoterID: voterID, Outcome: model.BallotOutcomeAccepted, CreatedAt: t0},
		{ElectionID: electionID, VoterID: voterID, Outcome: model.BallotOutcomeRejected, Reason: "already voted", CreatedAt: t0.Add(time.Minute)},
		{ElectionID: otherID, VoterID: voterID, Outcome: model.BallotOutcomeAccepted, CreatedAt: t0},
	}))
	require.NoError(t, repo.Create(ctx, &model.BallotLog{
		ElectionID: electionID, VoterID: voterID, Outcome: model.BallotOutcomeRejected, Reason: "election not active", CreatedAt: t0.Add(2 * time.Minute),
	}))

	logs, err := repo.ListByElection(ctx, electionID, 0)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, "election not active", logs[0].Reason)
	assert.Equal(t, model.BallotOutcomeAccepted, logs[2].Outcome)

	limited, err := repo.ListByElection(ctx, electionID, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
