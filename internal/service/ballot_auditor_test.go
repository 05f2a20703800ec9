package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ballotbox/internal/model"
	"ballotbox/internal/repository"
	"ballotbox/internal/testutil"
)

func TestBallotAuditor_FlushesOnShutdown(t *testing.T) {
	gormDB := testutil.SetupTestDB(t)
	repo := repository.NewBallotLogRepository(gormDB)
	auditor := NewBallotAuditor(repo, nil)

	electionID := uuid.New()
	for i := 0; i < 3; i++ {
		auditor.Record(context.Background(), model.BallotLog{
			ElectionID: electionID,
			VoterID:    uuid.New(),
			Outcome:    model.BallotOutcomeAccepted,
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		auditor.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("auditor did not stop")
	}

	logs, err := repo.ListByElection(context.Background(), electionID, 0)
	require.NoError(t, err)
	assert.Len(t, logs, 3)
}

func TestBallotAuditor_WritesSynchronouslyWhenQueueFull(t *testing.T) {
	gormDB := testutil.SetupTestDB(t)
	repo := repository.NewBallotLogRepository(gormDB)
	auditor := NewBallotAuditor(repo, nil)
	auditor.entries = make(chan model.BallotLog)

	electionID := uuid.New()
	auditor.Record(context.Background(), model.BallotLog{
		ElectionID: electionID,
		VoterID:    uuid.New(),
		Outcome:    model.BallotOutcomeRejected,
		Reason:     "already voted",
	})

	logs, err := repo.ListByElection(context.Background(), electionID, 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "already voted", logs[0].Reason)
}

func TestBallotAuditor_RecordAfterStopIsWritten(t *testing.T) {
	gormDB := testutil.SetupTestDB(t)
	repo := repository.NewBallotLogRepository(gormDB)
	auditor := NewBallotAuditor(repo, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		auditor.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	electionID := uuid.New()
	auditor.Record(ctx, model.BallotLog{
		ElectionID: electionID,
		VoterID:    uuid.New(),
		Outcome:    model.BallotOutcomeAccepted,
	})

	logs, err := repo.ListByElection(context.Background(), electionID, 0)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
	assert.Empty(t, auditor.entries)
}

func TestBallotAuditor_VoteDuringShutdownIsAudited(t *testing.T) {
	gormDB := testutil.SetupTestDB(t)
	electionRepo := repository.NewElectionRepository(gormDB)
	voteRepo := repository.NewVoteRepository(gormDB)
	logRepo := repository.NewBallotLogRepository(gormDB)
	auditor := NewBallotAuditor(logRepo, nil)

	a := testutil.CreateTestUser(t, gormDB, model.RoleCandidate, "alice")
	voter := testutil.CreateTestUser(t, gormDB, model.RoleVoter, "v1")
	election := testutil.CreateTestElection(t, gormDB, t0, time.Hour, a.ID)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		auditor.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	svc := newTestVoteService(electionRepo, voteRepo, auditor, t0.Add(time.Minute))
	_, err := svc.CastVote(context.Background(), election.ID, voter.ID, a.ID)
	require.NoError(t, err)

	logs, err := logRepo.ListByElection(context.Background(), election.ID, 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, model.BallotOutcomeAccepted, logs[0].Outcome)
	assert.Equal(t, voter.ID, logs[0].VoterID)
}
