package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"ballotbox/internal/cache"
	"ballotbox/internal/model"
	"ballotbox/internal/repository"
)

// Stats is the admin overview of the system.
type Stats struct {
	TotalVoters        int64           `json:"total_voters"`
	TotalCandidates    int64           `json:"total_candidates"`
	ActiveElections    int64           `json:"active_elections"`
	CompletedElections int64           `json:"completed_elections"`
	ParticipationRate  decimal.Decimal `json:"participation_rate"`
}

// StatsService computes the admin overview.
type StatsService interface {
	Overview(ctx context.Context) (*Stats, error)
}

type statsService struct {
	userRepo     repository.UserRepository
	electionRepo repository.ElectionRepository
	voteRepo     repository.VoteRepository
	cache        *cache.Client
	now          func() time.Time
}

// NewStatsService creates a new stats service.
func NewStatsService(userRepo repository.UserRepository, electionRepo repository.ElectionRepository, voteRepo repository.VoteRepository, cache *cache.Client) StatsService {
	return &statsService{
		userRepo:     userRepo,
		electionRepo: electionRepo,
		voteRepo:     voteRepo,
		cache:        cache,
		now:          time.Now,
	}
}

// Overview counts users and elections. Election phases come from the time
// window, not the stored status column.
func (s *statsService) Overview(ctx context.Context) (*Stats, error) {
	var cached Stats
	if s.cache.GetJSON(ctx, statsCacheKey, &cached) {
		return &cached, nil
	}

	now := s.now().UTC()
	stats := &Stats{}
	var err error

	if stats.TotalVoters, err = s.userRepo.CountByRole(ctx, model.RoleVoter); err != nil {
		return nil, fmt.Errorf("count voters: %w", err)
	}
	if stats.TotalCandidates, err = s.userRepo.CountByRole(ctx, model.RoleCandidate); err != nil {
		return nil, fmt.Errorf("count candidates: %w", err)
	}
	if stats.ActiveElections, err = s.electionRepo.CountOpenAt(ctx, now); err != nil {
		return nil, fmt.Errorf("count active elections: %w", err)
	}
	if stats.CompletedElections, err = s.electionRepo.CountEndedBy(ctx, now); err != nil {
		return nil, fmt.Errorf("count completed elections: %w", err)
	}

	participants, err := s.voteRepo.CountDistinctVoters(ctx)
	if err != nil {
		return nil, fmt.Errorf("count participants: %w", err)
	}
	stats.ParticipationRate = share(participants, stats.TotalVoters)

	s.cache.SetJSON(ctx, statsCacheKey, stats, statsCacheTTL)
	return stats, nil
}
