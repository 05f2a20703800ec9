package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"ballotbox/internal/model"
	"ballotbox/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) CountByRole(ctx context.Context, role model.Role) (int64, error) {
	args := m.Called(ctx, role)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

// MockElectionRepository is a mock implementation of ElectionRepository.
type MockElectionRepository struct {
	mock.Mock
}

func (m *MockElectionRepository) Create(ctx context.Context, election *model.Election) error {
	args := m.Called(ctx, election)
	return args.Error(0)
}

func (m *MockElectionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Election, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Election), args.Error(1)
}

func (m *MockElectionRepository) List(ctx context.Context) ([]model.Election, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Election), args.Error(1)
}

func (m *MockElectionRepository) ListVotedBy(ctx context.Context, voterID uuid.UUID) ([]model.Election, error) {
	args := m.Called(ctx, voterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Election), args.Error(1)
}

func (m *MockElectionRepository) AddCandidates(ctx context.Context, electionID uuid.UUID, userIDs []uuid.UUID) error {
	args := m.Called(ctx, electionID, userIDs)
	return args.Error(0)
}

func (m *MockElectionRepository) IsCandidate(ctx context.Context, electionID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, electionID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockElectionRepository) CountOpenAt(ctx context.Context, at time.Time) (int64, error) {
	args := m.Called(ctx, at)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockElectionRepository) CountEndedBy(ctx context.Context, at time.Time) (int64, error) {
	args := m.Called(ctx, at)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockElectionRepository) SyncStatuses(ctx context.Context, at time.Time) (int64, error) {
	args := m.Called(ctx, at)
	return args.Get(0).(int64), args.Error(1)
}

// WithTransaction runs fn against the mock itself.
func (m *MockElectionRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo repository.ElectionRepository) error) error {
	m.Called(ctx)
	return fn(ctx, m)
}

// MockVoteRepository is a mock implementation of VoteRepository.
type MockVoteRepository struct {
	mock.Mock
}

func (m *MockVoteRepository) Create(ctx context.Context, vote *model.Vote) error {
	args := m.Called(ctx, vote)
	return args.Error(0)
}

func (m *MockVoteRepository) Exists(ctx context.Context, electionID, voterID uuid.UUID) (bool, error) {
	args := m.Called(ctx, electionID, voterID)
	return args.Bool(0), args.Error(1)
}

func (m *MockVoteRepository) Tally(ctx context.Context, electionID uuid.UUID) ([]model.TallyRow, error) {
	args := m.Called(ctx, electionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TallyRow), args.Error(1)
}

func (m *MockVoteRepository) CountDistinctVoters(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uuid.UUID, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uuid.UUID, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func (m *MockTokenStore) BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

// MockBallotLogRepository is a mock implementation of BallotLogRepository.
type MockBallotLogRepository struct {
	mock.Mock
}

func (m *MockBallotLogRepository) Create(ctx context.Context, log *model.BallotLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockBallotLogRepository) CreateBatch(ctx context.Context, logs []model.BallotLog) error {
	args := m.Called(ctx, logs)
	return args.Error(0)
}

func (m *MockBallotLogRepository) ListByElection(ctx context.Context, electionID uuid.UUID, limit int) ([]model.BallotLog, error) {
	args := m.Called(ctx, electionID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BallotLog), args.Error(1)
}

// recordedBallots collects audit entries in memory.
type recordedBallots struct {
	mu      sync.Mutex
	entries []model.BallotLog
}

func (r *recordedBallots) Record(_ context.Context, entry model.BallotLog) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

func (r *recordedBallots) outcomes() []model.BallotOutcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.BallotOutcome, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Outcome)
	}
	return out
}
