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

// VotedElection is an election the user has cast a ballot in.
type VotedElection struct {
	ID        uuid.UUID            `json:"id"`
	Title     string               `json:"title"`
	StartDate time.Time            `json:"start_date"`
	EndDate   time.Time            `json:"end_date"`
	Status    model.ElectionStatus `json:"status"`
}

// Profile is a user with role details and voting history.
type Profile struct {
	User           *model.User     `json:"user"`
	VotedElections []VotedElection `json:"voted_elections"`
}

// UpdateProfileInput carries optional profile changes; empty fields are kept.
type UpdateProfileInput struct {
	FullName string
	Email    string
	Username string
	Details  model.RoleDetails
}

// UserService exposes identity store operations.
type UserService interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, in UpdateProfileInput) (*Profile, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	ListCandidates(ctx context.Context) ([]model.User, error)
}

type userService struct {
	repo         repository.UserRepository
	electionRepo repository.ElectionRepository
	cache        *cache.Client
	now          func() time.Time
}

// NewUserService builds a UserService with repositories and cache.
func NewUserService(repo repository.UserRepository, electionRepo repository.ElectionRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, electionRepo: electionRepo, cache: cache, now: time.Now}
}

func (s *userService) GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	var cached Profile
	if s.cache.GetJSON(ctx, profileCacheKey(id), &cached) && cached.User != nil {
		s.refreshStatuses(cached.VotedElections)
		return &cached, nil
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	elections, err := s.electionRepo.ListVotedBy(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list voted elections: %w", err)
	}

	now := s.now()
	profile := &Profile{User: user, VotedElections: make([]VotedElection, 0, len(elections))}
	for i := range elections {
		e := &elections[i]
		profile.VotedElections = append(profile.VotedElections, VotedElection{
			ID:        e.ID,
			Title:     e.Title,
			StartDate: e.StartDate,
			EndDate:   e.EndDate,
			Status:    e.StatusAt(now),
		})
	}

	s.cache.SetJSON(ctx, profileCacheKey(id), profile, profileCacheTTL)
	return profile, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id uuid.UUID, in UpdateProfileInput) (*Profile, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if v := strings.TrimSpace(in.FullName); v != "" {
		user.FullName = v
	}
	if v := strings.ToLower(strings.TrimSpace(in.Email)); v != "" {
		user.Email = v
	}
	if v := strings.TrimSpace(in.Username); v != "" {
		user.Username = v
	}
	if !user.SetDetails(in.Details) {
		return nil, apperrors.ErrInvalidRoleDetails
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if apperrors.IsDuplicateKey(err) {
			return nil, apperrors.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	_ = s.cache.Delete(ctx, profileCacheKey(id))
	return s.GetProfile(ctx, id)
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}

func (s *userService) ListCandidates(ctx context.Context) ([]model.User, error) {
	return s.repo.ListByRole(ctx, model.RoleCandidate)
}

func (s *userService) refreshStatuses(elections []VotedElection) {
	now := s.now()
	for i := range elections {
		elections[i].Status = statusAt(elections[i].StartDate, elections[i].EndDate, now)
	}
}
