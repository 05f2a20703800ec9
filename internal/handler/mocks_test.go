package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"ballotbox/internal/model"
	"ballotbox/internal/service"
)

// MockVoteService is a mock implementation of VoteService.
type MockVoteService struct {
	mock.Mock
}

func (m *MockVoteService) CastVote(ctx context.Context, electionID, voterID, candidateID uuid.UUID) (*model.Vote, error) {
	args := m.Called(ctx, electionID, voterID, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Vote), args.Error(1)
}

func (m *MockVoteService) Results(ctx context.Context, electionID uuid.UUID) (*service.ElectionResults, error) {
	args := m.Called(ctx, electionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ElectionResults), args.Error(1)
}

func (m *MockVoteService) BallotLog(ctx context.Context, electionID uuid.UUID, limit int) ([]model.BallotLog, error) {
	args := m.Called(ctx, electionID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BallotLog), args.Error(1)
}

// MockElectionService is a mock implementation of ElectionService.
type MockElectionService struct {
	mock.Mock
}

func (m *MockElectionService) CreateElection(ctx context.Context, in service.CreateElectionInput) (*service.ElectionView, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ElectionView), args.Error(1)
}

func (m *MockElectionService) GetElection(ctx context.Context, id uuid.UUID) (*service.ElectionView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ElectionView), args.Error(1)
}

func (m *MockElectionService) ListElections(ctx context.Context) ([]service.ElectionView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.ElectionView), args.Error(1)
}

func (m *MockElectionService) AddCandidates(ctx context.Context, id uuid.UUID, candidateIDs []uuid.UUID) (*service.ElectionView, error) {
	args := m.Called(ctx, id, candidateIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ElectionView), args.Error(1)
}
