package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jordanjustice/gotcha-api/internal/model"
	"github.com/jordanjustice/gotcha-api/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodePlayerNotFound       = "PLAYER_NOT_FOUND"
	CodeArenaNotFound        = "ARENA_NOT_FOUND"
	CodeMatchNotFound        = "MATCH_NOT_FOUND"
	CodeDeviceNotFound       = "DEVICE_NOT_FOUND"
	CodeNotPlayingArena      = "NOT_PLAYING_ARENA"
	CodeNotPlayingMatch      = "NOT_PLAYING_MATCH"
	CodeMatchNotOpen         = "MATCH_NOT_OPEN"
	CodeMatchNotPending      = "MATCH_NOT_PENDING"
	CodeMatchConflict        = "MATCH_CONFLICT"
	CodeConfirmationMismatch = "CONFIRMATION_MISMATCH"
	CodeInvalidCoordinates   = "INVALID_COORDINATES"
	CodeInvalidEmail         = "INVALID_EMAIL"
	CodeEmailExists          = "EMAIL_EXISTS"
	CodeInvalidCredentials   = "INVALID_CREDENTIALS"
	CodeInternalError        = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Not-found errors keep their resource and id in the message
	var notFound *model.NotFoundError
	if errors.As(err, &notFound) {
		return &httpError{http.StatusNotFound, APIError{notFoundCode(err), notFound.Error()}}
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrArenaNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeArenaNotFound, "Arena not found"}}
	case errors.Is(err, model.ErrMatchNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeMatchNotFound, "Match not found"}}
	case errors.Is(err, model.ErrDeviceNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeDeviceNotFound, "Device not found"}}
	case errors.Is(err, model.ErrNotPlayingArena):
		return &httpError{http.StatusUnauthorized, APIError{CodeNotPlayingArena, "Not authorized to play in that Arena"}}
	case errors.Is(err, model.ErrNotPlayingMatch):
		return &httpError{http.StatusUnauthorized, APIError{CodeNotPlayingMatch, "Not authorized to play in that Match"}}
	case errors.Is(err, model.ErrMatchNotOpen):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeMatchNotOpen, "Match is not open"}}
	case errors.Is(err, model.ErrMatchNotPending):
		return &httpError{http.StatusPreconditionFailed, APIError{CodeMatchNotPending, "Match was not pending"}}
	case errors.Is(err, model.ErrConfirmationMismatch):
		return &httpError{http.StatusBadRequest, APIError{CodeConfirmationMismatch, "Confirmation code does not match"}}
	case errors.Is(err, model.ErrMatchConflict):
		return &httpError{http.StatusConflict, APIError{CodeMatchConflict, "A conflicting match was created first"}}
	case errors.Is(err, model.ErrInvalidCoordinates):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidCoordinates, "Latitude or longitude is invalid"}}
	case errors.Is(err, model.ErrInvalidEmail):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidEmail, "Email address is invalid"}}
	case errors.Is(err, model.ErrEmailExists):
		return &httpError{http.StatusConflict, APIError{CodeEmailExists, "Email address already registered"}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid email or password"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}
	case errors.Is(err, auth.ErrNameRequired):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, "Name is required"}}
	case errors.Is(err, auth.ErrPasswordRequired):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, "Password is required"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

func notFoundCode(err error) string {
	switch {
	case errors.Is(err, model.ErrArenaNotFound):
		return CodeArenaNotFound
	case errors.Is(err, model.ErrMatchNotFound):
		return CodeMatchNotFound
	case errors.Is(err, model.ErrPlayerNotFound):
		return CodePlayerNotFound
	default:
		return CodeInternalError
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
