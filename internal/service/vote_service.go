package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ballotbox/internal/cache"
	apperrors "ballotbox/internal/errors"
	"ballotbox/internal/model"
	"ballotbox/internal/repository"
)

var hundred = decimal.NewFromInt(100)

// ElectionResults is the tally of one election.
type ElectionResults struct {
	ElectionID uuid.UUID            `json:"election_id"`
	Title      string               `json:"title"`
	Status     model.ElectionStatus `json:"status"`
	TotalVotes int64                `json:"total_votes"`
	Results    []model.TallyRow     `json:"results"`
}

// VoteService records ballots and counts them.
type VoteService interface {
	CastVote(ctx context.Context, electionID, voterID, candidateID uuid.UUID) (*model.Vote, error)
	Results(ctx context.Context, electionID uuid.UUID) (*ElectionResults, error)
	BallotLog(ctx context.Context, electionID uuid.UUID, limit int) ([]model.BallotLog, error)
}

type voteService struct {
	electionRepo  repository.ElectionRepository
	voteRepo      repository.VoteRepository
	ballotLogRepo repository.BallotLogRepository
	audit         BallotRecorder
	cache         *cache.Client
	logger        *slog.Logger
	now           func() time.Time
}

// NewVoteService creates a new vote service. audit may be nil.
func NewVoteService(
	electionRepo repository.ElectionRepository,
	voteRepo repository.VoteRepository,
	ballotLogRepo repository.BallotLogRepository,
	audit BallotRecorder,
	cache *cache.Client,
	logger *slog.Logger,
) VoteService {
	if logger == nil {
		logger = slog.Default()
	}
	return &voteService{
		electionRepo:  electionRepo,
		voteRepo:      voteRepo,
		ballotLogRepo: ballotLogRepo,
		audit:         audit,
		cache:         cache,
		logger:        logger,
		now:           time.Now,
	}
}

// CastVote records a single ballot. Checks run in order: election exists,
// election open now, candidate registered, voter has not voted yet. The
// (election, voter) unique index decides races the pre-check cannot see.
func (s *voteService) CastVote(ctx context.Context, electionID, voterID, candidateID uuid.UUID) (*model.Vote, error) {
	const op = "vote.cast"

	vote, err := s.castVote(ctx, electionID, voterID, candidateID)
	if err != nil {
		if isDomainError(err) {
			s.record(ctx, electionID, voterID, model.BallotOutcomeRejected, err.Error())
			return nil, err
		}
		s.logger.Error("vote storage failure", "op", op, "election_id", electionID, "voter_id", voterID, "error", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.record(ctx, electionID, voterID, model.BallotOutcomeAccepted, "")
	_ = s.cache.Delete(ctx, statsCacheKey, profileCacheKey(voterID))
	s.logger.Info("vote recorded", "op", op, "election_id", electionID, "voter_id", voterID)
	return vote, nil
}

func (s *voteService) castVote(ctx context.Context, electionID, voterID, candidateID uuid.UUID) (*model.Vote, error) {
	election, err := s.electionRepo.FindByID(ctx, electionID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.ErrElectionNotFound
		}
		return nil, fmt.Errorf("find election: %w", err)
	}

	if !election.IsOpenAt(s.now()) {
		return nil, apperrors.ErrElectionNotActive
	}

	registered, err := s.electionRepo.IsCandidate(ctx, electionID, candidateID)
	if err != nil {
		return nil, fmt.Errorf("check candidacy: %w", err)
	}
	if !registered {
		return nil, apperrors.ErrCandidateNotRegistered
	}

	voted, err := s.voteRepo.Exists(ctx, electionID, voterID)
	if err != nil {
		return nil, fmt.Errorf("check existing vote: %w", err)
	}
	if voted {
		return nil, apperrors.ErrAlreadyVoted
	}

	vote := &model.Vote{
		ElectionID:  electionID,
		VoterID:     voterID,
		CandidateID: candidateID,
	}
	if err := s.voteRepo.Create(ctx, vote); err != nil {
		if apperrors.IsDuplicateKey(err) {
			return nil, apperrors.ErrAlreadyVoted
		}
		return nil, fmt.Errorf("insert vote: %w", err)
	}
	return vote, nil
}

// Results returns one row per registered candidate with its vote share.
func (s *voteService) Results(ctx context.Context, electionID uuid.UUID) (*ElectionResults, error) {
	const op = "vote.results"

	election, err := s.electionRepo.FindByID(ctx, electionID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.ErrElectionNotFound
		}
		s.logger.Error("tally storage failure", "op", op, "election_id", electionID, "error", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.voteRepo.Tally(ctx, electionID)
	if err != nil {
		s.logger.Error("tally storage failure", "op", op, "election_id", electionID, "error", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var total int64
	for _, row := range rows {
		total += row.VoteCount
	}
	for i := range rows {
		rows[i].Share = share(rows[i].VoteCount, total)
	}
	if rows == nil {
		rows = []model.TallyRow{}
	}

	return &ElectionResults{
		ElectionID: election.ID,
		Title:      election.Title,
		Status:     election.StatusAt(s.now()),
		TotalVotes: total,
		Results:    rows,
	}, nil
}

// BallotLog returns the newest vote attempts of an election.
func (s *voteService) BallotLog(ctx context.Context, electionID uuid.UUID, limit int) ([]model.BallotLog, error) {
	if _, err := s.electionRepo.FindByID(ctx, electionID); err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.ErrElectionNotFound
		}
		return nil, fmt.Errorf("find election: %w", err)
	}
	return s.ballotLogRepo.ListByElection(ctx, electionID, limit)
}

func (s *voteService) record(ctx context.Context, electionID, voterID uuid.UUID, outcome model.BallotOutcome, reason string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, model.BallotLog{
		ElectionID: electionID,
		VoterID:    voterID,
		Outcome:    outcome,
		Reason:     reason,
		CreatedAt:  s.now().UTC(),
	})
}

// share is part/total as a percentage rounded to two places.
func share(part, total int64) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(part).Mul(hundred).Div(decimal.NewFromInt(total)).Round(2)
}

func isDomainError(err error) bool {
	return errors.Is(err, apperrors.ErrElectionNotFound) ||
		errors.Is(err, apperrors.ErrElectionNotActive) ||
		errors.Is(err, apperrors.ErrCandidateNotRegistered) ||
		errors.Is(err, apperrors.ErrAlreadyVoted)
}
