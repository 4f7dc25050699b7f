package model

import "time"

// MatchID uniquely identifies a match
type MatchID string

// MatchState is the explicit lifecycle state of a match
type MatchState string

const (
	// MatchStateOpen means the match exists but capture has not begun
	MatchStateOpen MatchState = "open"
	// MatchStatePending means a confirmation code was generated and the
	// match is waiting on confirmation
	MatchStatePending MatchState = "pending"
	// MatchStateFound is terminal: the capture was confirmed
	MatchStateFound MatchState = "found"
	// MatchStateIgnored is terminal: the match was abandoned
	MatchStateIgnored MatchState = "ignored"
)

// Match pairs a seeker with an opponent at an arena and tracks the
// capture/confirmation workflow between them.
type Match struct {
	ID         MatchID
	SeekerID   PlayerID
	OpponentID PlayerID
	ArenaID    ArenaID

	MatchedAt time.Time

	// ConfirmationCode is a zero-padded 4-digit string, set when capture
	// begins. It stays a string so leading zeros survive.
	ConfirmationCode string
	PendingAt        *time.Time
	FoundAt          *time.Time
	IgnoredAt        *time.Time

	// Version increments on every transition. Updates compare-and-swap on
	// it so at most one concurrent transition wins.
	Version int
}

// State derives the lifecycle state from the transition timestamps.
// FoundAt and IgnoredAt are never both set; Validate enforces that.
func (m *Match) State() MatchState {
	switch {
	case m.FoundAt != nil:
		return MatchStateFound
	case m.IgnoredAt != nil:
		return MatchStateIgnored
	case m.PendingAt != nil:
		return MatchStatePending
	default:
		return MatchStateOpen
	}
}

// IsOpen reports whether the match has not reached a terminal state.
// Pending matches count as open.
func (m *Match) IsOpen() bool {
	return m.FoundAt == nil && m.IgnoredAt == nil
}

// OpponentFor returns the counterpart player: the opponent if the seeker
// is passed in, the seeker if the opponent is. Returns "" for a player
// who is not part of the match.
func (m *Match) OpponentFor(playerID PlayerID) PlayerID {
	switch playerID {
	case m.SeekerID:
		return m.OpponentID
	case m.OpponentID:
		return m.SeekerID
	default:
		return ""
	}
}

// HasParticipant reports whether the player is the seeker or the opponent
func (m *Match) HasParticipant(playerID PlayerID) bool {
	return playerID == m.SeekerID || playerID == m.OpponentID
}

// Validate checks the match invariants
func (m *Match) Validate() error {
	if m.SeekerID == m.OpponentID {
		return ErrSeekerIsOpponent
	}
	if m.MatchedAt.IsZero() {
		return ErrMatchedAtRequired
	}
	if m.FoundAt != nil && m.IgnoredAt != nil {
		return ErrConflictingOutcome
	}
	return nil
}
