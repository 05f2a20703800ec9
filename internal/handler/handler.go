package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"ballotbox/internal/auth"
	"ballotbox/internal/errors"
	"ballotbox/internal/model"
)

// ClaimsContextKey is where the JWT guard stores *auth.Claims.
const ClaimsContextKey = "user"

// CurrentClaims returns the authenticated caller's claims.
func CurrentClaims(c echo.Context) (*auth.Claims, error) {
	claims, ok := c.Get(ClaimsContextKey).(*auth.Claims)
	if !ok || claims == nil || claims.UserID == uuid.Nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Message: "missing or invalid session",
			Code:    "UNAUTHORIZED",
		})
	}
	return claims, nil
}

// bindAndValidate decodes the request body into req and validates it.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Message: "invalid request body",
			Code:    "INVALID_REQUEST",
		})
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Message: err.Error(),
			Code:    "VALIDATION_ERROR",
		})
	}
	return nil
}

// errorResponse converts a service error into an echo error.
func errorResponse(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func parseUUIDParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Message: "invalid " + name,
			Code:    "INVALID_UUID",
		})
	}
	return id, nil
}

func parseUUIDs(values []string, field string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Message: "invalid " + field,
				Code:    "INVALID_UUID",
			})
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// RoleDetailsRequest carries the role-specific profile fields.
// Only the fields of the account's role are read.
type RoleDetailsRequest struct {
	EmployeeID       string `json:"employee_id" validate:"omitempty,max=100"`
	Department       string `json:"department" validate:"omitempty,max=255"`
	PartyAffiliation string `json:"party_affiliation" validate:"omitempty,max=255"`
	Bio              string `json:"bio"`
	VoterNumber      string `json:"voter_number" validate:"omitempty,max=100"`
	Address          string `json:"address" validate:"omitempty,max=255"`
}

// ToDetails builds the variant for role, or nil when the request is empty.
func (r *RoleDetailsRequest) ToDetails(role model.Role) model.RoleDetails {
	if r == nil {
		return nil
	}
	switch role {
	case model.RoleAdmin:
		if r.EmployeeID == "" && r.Department == "" {
			return nil
		}
		return &model.AdminDetails{EmployeeID: r.EmployeeID, Department: r.Department}
	case model.RoleCandidate:
		if r.PartyAffiliation == "" && r.Bio == "" {
			return nil
		}
		return &model.CandidateDetails{PartyAffiliation: r.PartyAffiliation, Bio: r.Bio}
	case model.RoleVoter:
		if r.VoterNumber == "" && r.Address == "" {
			return nil
		}
		return &model.VoterDetails{VoterNumber: r.VoterNumber, Address: r.Address}
	}
	return nil
}
