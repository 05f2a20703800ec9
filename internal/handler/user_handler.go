package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"ballotbox/internal/service"
)

// UserHandler bundles HTTP handlers.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// UpdateProfileRequest represents a profile update. Empty fields are kept.
type UpdateProfileRequest struct {
	FullName string              `json:"full_name" validate:"omitempty,max=255"`
	Email    string              `json:"email" validate:"omitempty,email"`
	Username string              `json:"username" validate:"omitempty,min=3,max=100"`
	Details  *RoleDetailsRequest `json:"details"`
}

// ListUsers godoc
// @Summary List all users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.User
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.svc.ListUsers(c.Request().Context())
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, users)
}

// ListCandidates godoc
// @Summary List candidate accounts
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/candidates [get]
func (h *UserHandler) ListCandidates(c echo.Context) error {
	users, err := h.svc.ListCandidates(c.Request().Context())
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, users)
}

// GetProfile godoc
// @Summary Get own profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Profile
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/profile [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	claims, err := CurrentClaims(c)
	if err != nil {
		return err
	}
	profile, err := h.svc.GetProfile(c.Request().Context(), claims.UserID)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary Update own profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile changes"
// @Success 200 {object} service.Profile
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /users/profile [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	claims, err := CurrentClaims(c)
	if err != nil {
		return err
	}

	var req UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	profile, err := h.svc.UpdateProfile(c.Request().Context(), claims.UserID, service.UpdateProfileInput{
		FullName: req.FullName,
		Email:    req.Email,
		Username: req.Username,
		Details:  req.Details.ToDetails(claims.Role),
	})
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, profile)
}
