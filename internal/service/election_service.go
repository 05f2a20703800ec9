package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"ballotbox/internal/cache"
	apperrors "ballotbox/internal/errors"
	"ballotbox/internal/model"
	"ballotbox/internal/repository"
)

// CandidateSummary is a registered candidate as shown on an election.
type CandidateSummary struct {
	ID               uuid.UUID `json:"id"`
	FullName         string    `json:"full_name"`
	Username         string    `json:"username"`
	PartyAffiliation string    `json:"party_affiliation,omitempty"`
	Position         int       `json:"position"`
}

// ElectionView is an election with its candidates and current status.
type ElectionView struct {
	ID          uuid.UUID            `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	StartDate   time.Time            `json:"start_date"`
	EndDate     time.Time            `json:"end_date"`
	Status      model.ElectionStatus `json:"status"`
	CreatedBy   uuid.UUID            `json:"created_by"`
	CreatedAt   time.Time            `json:"created_at"`
	Candidates  []CandidateSummary   `json:"candidates"`
}

// CreateElectionInput carries the fields of a new election.
type CreateElectionInput struct {
	Title        string
	Description  string
	StartDate    time.Time
	EndDate      time.Time
	CandidateIDs []uuid.UUID
	CreatedBy    uuid.UUID
}

// ElectionService manages elections and their candidacies.
type ElectionService interface {
	CreateElection(ctx context.Context, in CreateElectionInput) (*ElectionView, error)
	GetElection(ctx context.Context, id uuid.UUID) (*ElectionView, error)
	ListElections(ctx context.Context) ([]ElectionView, error)
	AddCandidates(ctx context.Context, id uuid.UUID, candidateIDs []uuid.UUID) (*ElectionView, error)
}

type electionService struct {
	electionRepo repository.ElectionRepository
	userRepo     repository.UserRepository
	cache        *cache.Client
	now          func() time.Time
}

// NewElectionService creates a new election service.
func NewElectionService(electionRepo repository.ElectionRepository, userRepo repository.UserRepository, cache *cache.Client) ElectionService {
	return &electionService{
		electionRepo: electionRepo,
		userRepo:     userRepo,
		cache:        cache,
		now:          time.Now,
	}
}

// CreateElection writes the election and its candidacies in one transaction.
// Candidates keep the order of the input list; repeated ids are collapsed.
func (s *electionService) CreateElection(ctx context.Context, in CreateElectionInput) (*ElectionView, error) {
	if !in.EndDate.After(in.StartDate) {
		return nil, apperrors.ErrInvalidTimeWindow
	}

	candidateIDs := uniqueIDs(in.CandidateIDs)
	if err := s.checkCandidates(ctx, candidateIDs); err != nil {
		return nil, err
	}

	election := &model.Election{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		StartDate:   in.StartDate.UTC(),
		EndDate:     in.EndDate.UTC(),
		CreatedBy:   in.CreatedBy,
	}
	election.Status = election.StatusAt(s.now())

	err := s.electionRepo.WithTransaction(ctx, func(ctx context.Context, repo repository.ElectionRepository) error {
		if err := repo.Create(ctx, election); err != nil {
			return fmt.Errorf("create election: %w", err)
		}
		if err := repo.AddCandidates(ctx, election.ID, candidateIDs); err != nil {
			return fmt.Errorf("register candidates: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.cache.Delete(ctx, electionListCacheKey, statsCacheKey)
	return s.GetElection(ctx, election.ID)
}

// GetElection returns one election with its status derived now.
func (s *electionService) GetElection(ctx context.Context, id uuid.UUID) (*ElectionView, error) {
	election, err := s.electionRepo.FindByID(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.ErrElectionNotFound
		}
		return nil, fmt.Errorf("find election: %w", err)
	}
	view := toElectionView(election, s.now())
	return &view, nil
}

// ListElections returns all elections. The list is cached; status is not
// trusted from the cache and is derived again on every read.
func (s *electionService) ListElections(ctx context.Context) ([]ElectionView, error) {
	now := s.now()

	var cached []ElectionView
	if s.cache.GetJSON(ctx, electionListCacheKey, &cached) {
		for i := range cached {
			cached[i].Status = statusAt(cached[i].StartDate, cached[i].EndDate, now)
		}
		return cached, nil
	}

	elections, err := s.electionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list elections: %w", err)
	}

	views := make([]ElectionView, 0, len(elections))
	for i := range elections {
		views = append(views, toElectionView(&elections[i], now))
	}
	s.cache.SetJSON(ctx, electionListCacheKey, views, electionListCacheTTL)
	return views, nil
}

// AddCandidates registers more candidates after the existing ones.
func (s *electionService) AddCandidates(ctx context.Context, id uuid.UUID, candidateIDs []uuid.UUID) (*ElectionView, error) {
	if _, err := s.electionRepo.FindByID(ctx, id); err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.ErrElectionNotFound
		}
		return nil, fmt.Errorf("find election: %w", err)
	}

	candidateIDs = uniqueIDs(candidateIDs)
	if err := s.checkCandidates(ctx, candidateIDs); err != nil {
		return nil, err
	}
	err := s.electionRepo.WithTransaction(ctx, func(ctx context.Context, repo repository.ElectionRepository) error {
		if err := repo.AddCandidates(ctx, id, candidateIDs); err != nil {
			return fmt.Errorf("register candidates: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.cache.Delete(ctx, electionListCacheKey)
	return s.GetElection(ctx, id)
}

// checkCandidates ensures every id references a user with role candidate.
func (s *electionService) checkCandidates(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("find candidates: %w", err)
	}
	found := make(map[uuid.UUID]bool, len(users))
	for _, u := range users {
		if u.Role == model.RoleCandidate {
			found[u.ID] = true
		}
	}
	for _, id := range ids {
		if !found[id] {
			return fmt.Errorf("%w: %s", apperrors.ErrInvalidCandidate, id)
		}
	}
	return nil
}

func toElectionView(e *model.Election, now time.Time) ElectionView {
	candidates := make([]CandidateSummary, 0, len(e.Candidacies))
	for _, c := range e.Candidacies {
		summary := CandidateSummary{
			ID:       c.UserID,
			FullName: c.User.FullName,
			Username: c.User.Username,
			Position: c.Position,
		}
		if c.User.CandidateDetails != nil {
			summary.PartyAffiliation = c.User.CandidateDetails.PartyAffiliation
		}
		candidates = append(candidates, summary)
	}
	return ElectionView{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		StartDate:   e.StartDate,
		EndDate:     e.EndDate,
		Status:      e.StatusAt(now),
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
		Candidates:  candidates,
	}
}

func statusAt(start, end, now time.Time) model.ElectionStatus {
	e := model.Election{StartDate: start, EndDate: end}
	return e.StatusAt(now)
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
