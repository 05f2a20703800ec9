package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"ballotbox/internal/errors"
	"ballotbox/internal/service"
)

const (
	defaultBallotLogLimit = 100
	maxBallotLogLimit     = 1000
)

// ElectionHandler handles election, voting and results endpoints.
type ElectionHandler struct {
	electionService service.ElectionService
	voteService     service.VoteService
}

// NewElectionHandler creates a new election handler.
func NewElectionHandler(electionService service.ElectionService, voteService service.VoteService) *ElectionHandler {
	return &ElectionHandler{electionService: electionService, voteService: voteService}
}

// CreateElectionRequest represents an election creation request.
type CreateElectionRequest struct {
	Title        string    `json:"title" validate:"required,max=255"`
	Description  string    `json:"description" validate:"required"`
	StartDate    time.Time `json:"start_date" validate:"required"`
	EndDate      time.Time `json:"end_date" validate:"required"`
	CandidateIDs []string  `json:"candidate_ids" validate:"omitempty,dive,uuid"`
}

// AddCandidatesRequest represents a request to register more candidates.
type AddCandidatesRequest struct {
	CandidateIDs []string `json:"candidate_ids" validate:"required,min=1,dive,uuid"`
}

// VoteRequest represents a ballot.
type VoteRequest struct {
	CandidateID string `json:"candidate_id" validate:"required,uuid"`
}

// VoteResponse represents an accepted ballot.
type VoteResponse struct {
	Message     string    `json:"message"`
	ElectionID  uuid.UUID `json:"election_id"`
	CandidateID uuid.UUID `json:"candidate_id"`
	CastAt      time.Time `json:"cast_at"`
}

// ListElections godoc
// @Summary List elections with their candidates
// @Tags elections
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.ElectionView
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /elections [get]
func (h *ElectionHandler) ListElections(c echo.Context) error {
	elections, err := h.electionService.ListElections(c.Request().Context())
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, elections)
}

// GetElection godoc
// @Summary Get election by id
// @Tags elections
// @Produce json
// @Security BearerAuth
// @Param id path string true "Election ID"
// @Success 200 {object} service.ElectionView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /elections/{id} [get]
func (h *ElectionHandler) GetElection(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	election, err := h.electionService.GetElection(c.Request().Context(), id)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, election)
}

// CreateElection godoc
// @Summary Create an election
// @Tags elections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateElectionRequest true "Election data"
// @Success 201 {object} service.ElectionView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /elections [post]
func (h *ElectionHandler) CreateElection(c echo.Context) error {
	claims, err := CurrentClaims(c)
	if err != nil {
		return err
	}

	var req CreateElectionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	candidateIDs, err := parseUUIDs(req.CandidateIDs, "candidate_ids")
	if err != nil {
		return err
	}

	election, err := h.electionService.CreateElection(c.Request().Context(), service.CreateElectionInput{
		Title:        req.Title,
		Description:  req.Description,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		CandidateIDs: candidateIDs,
		CreatedBy:    claims.UserID,
	})
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusCreated, election)
}

// AddCandidates godoc
// @Summary Register candidates in an election
// @Tags elections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Election ID"
// @Param request body AddCandidatesRequest true "Candidate ids"
// @Success 200 {object} service.ElectionView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /elections/{id}/candidates [post]
func (h *ElectionHandler) AddCandidates(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req AddCandidatesRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	candidateIDs, err := parseUUIDs(req.CandidateIDs, "candidate_ids")
	if err != nil {
		return err
	}

	election, err := h.electionService.AddCandidates(c.Request().Context(), id, candidateIDs)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, election)
}

// CastVote godoc
// @Summary Cast a vote
// @Description The voter is the authenticated caller. A second vote in the same election returns 409.
// @Tags elections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Election ID"
// @Param request body VoteRequest true "Ballot"
// @Success 201 {object} VoteResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /elections/{id}/vote [post]
func (h *ElectionHandler) CastVote(c echo.Context) error {
	claims, err := CurrentClaims(c)
	if err != nil {
		return err
	}

	electionID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req VoteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	candidateID, err := uuid.Parse(req.CandidateID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Message: "invalid candidate_id",
			Code:    "INVALID_UUID",
		})
	}

	vote, err := h.voteService.CastVote(c.Request().Context(), electionID, claims.UserID, candidateID)
	if err != nil {
		return errorResponse(err)
	}

	return c.JSON(http.StatusCreated, VoteResponse{
		Message:     "vote recorded successfully",
		ElectionID:  vote.ElectionID,
		CandidateID: vote.CandidateID,
		CastAt:      vote.CreatedAt,
	})
}

// GetResults godoc
// @Summary Get election results
// @Tags elections
// @Produce json
// @Security BearerAuth
// @Param id path string true "Election ID"
// @Success 200 {object} service.ElectionResults
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /elections/{id}/results [get]
func (h *ElectionHandler) GetResults(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	results, err := h.voteService.Results(c.Request().Context(), id)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, results)
}

// GetBallotLog godoc
// @Summary List vote attempts of an election
// @Tags elections
// @Produce json
// @Security BearerAuth
// @Param id path string true "Election ID"
// @Param limit query int false "Maximum entries" default(100)
// @Success 200 {array} model.BallotLog
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /elections/{id}/ballots [get]
func (h *ElectionHandler) GetBallotLog(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	limit := defaultBallotLogLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Message: "limit must be a positive integer",
				Code:    "INVALID_LIMIT",
			})
		}
		limit = min(parsed, maxBallotLogLimit)
	}

	logs, err := h.voteService.BallotLog(c.Request().Context(), id, limit)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, logs)
}
