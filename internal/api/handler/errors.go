package handler

import (
	"net/http"

	"github.com/jordanjustice/gotcha-api/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest       = apierr.CodeInvalidRequest
	CodeUnauthorized         = apierr.CodeUnauthorized
	CodePlayerNotFound       = apierr.CodePlayerNotFound
	CodeArenaNotFound        = apierr.CodeArenaNotFound
	CodeMatchNotFound        = apierr.CodeMatchNotFound
	CodeDeviceNotFound       = apierr.CodeDeviceNotFound
	CodeNotPlayingArena      = apierr.CodeNotPlayingArena
	CodeNotPlayingMatch      = apierr.CodeNotPlayingMatch
	CodeMatchNotOpen         = apierr.CodeMatchNotOpen
	CodeMatchNotPending      = apierr.CodeMatchNotPending
	CodeMatchConflict        = apierr.CodeMatchConflict
	CodeConfirmationMismatch = apierr.CodeConfirmationMismatch
	CodeInvalidCoordinates   = apierr.CodeInvalidCoordinates
	CodeInvalidEmail         = apierr.CodeInvalidEmail
	CodeEmailExists          = apierr.CodeEmailExists
	CodeInvalidCredentials   = apierr.CodeInvalidCredentials
	CodeInternalError        = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return apierr.NewUnauthorizedError()
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return apierr.NewInternalError()
}
