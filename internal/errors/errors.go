package errors

import (
	"errors"
	"net/http"

	"gorm.io/gorm"
)

var (
	// ErrElectionNotFound is returned when an election does not exist.
	ErrElectionNotFound = errors.New("election not found")
	// ErrUserNotFound is returned when a user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrElectionNotActive is returned when voting happens outside the election window.
	ErrElectionNotActive = errors.New("election not active")
	// ErrCandidateNotRegistered is returned when the chosen candidate has no candidacy in the election.
	ErrCandidateNotRegistered = errors.New("candidate is not registered in this election")
	// ErrInvalidCandidate is returned when a candidate id does not reference a candidate account.
	ErrInvalidCandidate = errors.New("candidate ids must reference candidate accounts")
	// ErrInvalidTimeWindow is returned when an election ends before it starts.
	ErrInvalidTimeWindow = errors.New("end_date must be after start_date")
	// ErrInvalidRoleDetails is returned when role details do not match the account role.
	ErrInvalidRoleDetails = errors.New("role details do not match account role")
	// ErrAlreadyVoted is returned when a voter already has a vote in the election.
	ErrAlreadyVoted = errors.New("already voted")
	// ErrUserAlreadyExists is returned when email or username is taken.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrAccountInactive is returned when an inactive or suspended account signs in.
	ErrAccountInactive = errors.New("account is not active")
	// ErrForbidden is returned when the caller's role does not allow the operation.
	ErrForbidden = errors.New("forbidden")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Message: e.Message,
		Code:    e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
// Anything unrecognised becomes a 500 without the underlying text.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrElectionNotFound):
		return NewHTTPError(http.StatusNotFound, ErrElectionNotFound.Error(), "ELECTION_NOT_FOUND")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, ErrUserNotFound.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrElectionNotActive):
		return NewHTTPError(http.StatusBadRequest, ErrElectionNotActive.Error(), "ELECTION_NOT_ACTIVE")
	case errors.Is(err, ErrCandidateNotRegistered):
		return NewHTTPError(http.StatusBadRequest, ErrCandidateNotRegistered.Error(), "CANDIDATE_NOT_REGISTERED")
	case errors.Is(err, ErrInvalidCandidate):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidCandidate.Error(), "INVALID_CANDIDATE")
	case errors.Is(err, ErrInvalidTimeWindow):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidTimeWindow.Error(), "INVALID_TIME_WINDOW")
	case errors.Is(err, ErrInvalidRoleDetails):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidRoleDetails.Error(), "INVALID_ROLE_DETAILS")
	case errors.Is(err, ErrAlreadyVoted):
		return NewHTTPError(http.StatusConflict, ErrAlreadyVoted.Error(), "ALREADY_VOTED")
	case errors.Is(err, ErrUserAlreadyExists):
		return NewHTTPError(http.StatusConflict, ErrUserAlreadyExists.Error(), "USER_ALREADY_EXISTS")
	case errors.Is(err, ErrAccountInactive):
		return NewHTTPError(http.StatusForbidden, ErrAccountInactive.Error(), "ACCOUNT_INACTIVE")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, ErrForbidden.Error(), "FORBIDDEN")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}

// IsNotFound reports whether err is a missing-record error from the store.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateKey reports whether err is a unique constraint violation.
// The connection must be opened with TranslateError enabled.
func IsDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
