package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrEmailExists    = errors.New("email address has already been registered")
	ErrInvalidEmail   = errors.New("email address is invalid")

	// Arena errors
	ErrArenaNotFound      = errors.New("arena not found")
	ErrNotPlayingArena    = errors.New("not authorized to play in that arena")
	ErrInvalidCoordinates = errors.New("invalid coordinates")

	// Match errors
	ErrMatchNotFound        = errors.New("match not found")
	ErrNoOpponentAvailable  = errors.New("no opponent available")
	ErrSeekerIsOpponent     = errors.New("seeker cannot be in a match with themselves")
	ErrMatchedAtRequired    = errors.New("matched_at is required")
	ErrConflictingOutcome   = errors.New("match cannot be both found and ignored")
	ErrMatchNotOpen         = errors.New("match is not open")
	ErrMatchNotPending      = errors.New("match was not pending")
	ErrNotPlayingMatch      = errors.New("not authorized to play in that match")
	ErrConfirmationMismatch = errors.New("confirmation code does not match")
	// ErrMatchConflict signals a lost concurrent transition or creation
	// race. Callers may retry.
	ErrMatchConflict = errors.New("match was modified concurrently")

	// Device errors
	ErrDeviceNotFound = errors.New("device not found")
)

// NotFoundError carries the resource kind and id so the API can report
// which record was missing. It unwraps to the matching sentinel so
// errors.Is(err, ErrArenaNotFound) still works.
type NotFoundError struct {
	Resource string
	ID       string
	sentinel error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return e.sentinel
}

// NewArenaNotFound returns a NotFoundError for an arena
func NewArenaNotFound(id ArenaID) error {
	return &NotFoundError{Resource: "Arena", ID: string(id), sentinel: ErrArenaNotFound}
}

// NewMatchNotFound returns a NotFoundError for a match
func NewMatchNotFound(id MatchID) error {
	return &NotFoundError{Resource: "Match", ID: string(id), sentinel: ErrMatchNotFound}
}

// NewPlayerNotFound returns a NotFoundError for a player
func NewPlayerNotFound(id PlayerID) error {
	return &NotFoundError{Resource: "Player", ID: string(id), sentinel: ErrPlayerNotFound}
}
