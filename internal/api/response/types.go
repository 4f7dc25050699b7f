package response

import (
	"time"

	"github.com/jordanjustice/gotcha-api/internal/model"
	"github.com/jordanjustice/gotcha-api/internal/services/auth"
)

// Player represents a player in API responses
type Player struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	EmailAddress string `json:"email_address,omitempty"`
}

// PlayerFromModel converts a model.Player to a response Player.
// The email address is only included for the player's own record.
func PlayerFromModel(p *model.Player, includeEmail bool) Player {
	resp := Player{
		ID:   string(p.ID),
		Name: p.Name,
	}
	if includeEmail {
		resp.EmailAddress = p.EmailAddress
	}
	return resp
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Player       Player `json:"player"`
	SessionToken string `json:"session_token"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Player:       PlayerFromModel(&s.Player, true),
		SessionToken: s.Token,
	}
}

// Arena represents an arena in API responses
type Arena struct {
	ID             string  `json:"id"`
	LocationName   string  `json:"location_name"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	StreetAddress1 string  `json:"street_address_1,omitempty"`
	StreetAddress2 string  `json:"street_address_2,omitempty"`
	City           string  `json:"city,omitempty"`
	State          string  `json:"state,omitempty"`
	ZipCode        string  `json:"zip_code,omitempty"`
}

// ArenaFromModel converts a model.Arena
func ArenaFromModel(a *model.Arena) Arena {
	return Arena{
		ID:             string(a.ID),
		LocationName:   a.LocationName,
		Latitude:       a.Latitude,
		Longitude:      a.Longitude,
		StreetAddress1: a.StreetAddress1,
		StreetAddress2: a.StreetAddress2,
		City:           a.City,
		State:          a.State,
		ZipCode:        a.ZipCode,
	}
}

// ArenasFromModel converts a slice of arenas
func ArenasFromModel(arenas []*model.Arena) []Arena {
	resp := make([]Arena, len(arenas))
	for i, a := range arenas {
		resp[i] = ArenaFromModel(a)
	}
	return resp
}

// Match represents a match in API responses. The confirmation code is
// included while the match is pending so the capturing player can show
// it to their counterpart.
type Match struct {
	ID               string     `json:"id"`
	State            string     `json:"state"`
	ArenaID          string     `json:"arena_id"`
	SeekerID         string     `json:"seeker_id"`
	OpponentID       string     `json:"opponent_id"`
	ConfirmationCode string     `json:"confirmation_code,omitempty"`
	MatchedAt        time.Time  `json:"matched_at"`
	PendingAt        *time.Time `json:"pending_at,omitempty"`
	FoundAt          *time.Time `json:"found_at,omitempty"`
	IgnoredAt        *time.Time `json:"ignored_at,omitempty"`
}

// MatchFromModel converts a model.Match
func MatchFromModel(m *model.Match) Match {
	resp := Match{
		ID:         string(m.ID),
		State:      string(m.State()),
		ArenaID:    string(m.ArenaID),
		SeekerID:   string(m.SeekerID),
		OpponentID: string(m.OpponentID),
		MatchedAt:  m.MatchedAt,
		PendingAt:  m.PendingAt,
		FoundAt:    m.FoundAt,
		IgnoredAt:  m.IgnoredAt,
	}
	if m.State() == model.MatchStatePending {
		resp.ConfirmationCode = m.ConfirmationCode
	}
	return resp
}

// MatchesFromModel converts a slice of matches
func MatchesFromModel(matches []*model.Match) []Match {
	resp := make([]Match, len(matches))
	for i, m := range matches {
		resp[i] = MatchFromModel(m)
	}
	return resp
}

// Device represents a registered push device
type Device struct {
	ID           string    `json:"id"`
	Token        string    `json:"token"`
	RegisteredAt time.Time `json:"registered_at"`
}

// DeviceFromModel converts a model.Device
func DeviceFromModel(d *model.Device) Device {
	return Device{
		ID:           d.ID.String(),
		Token:        d.Token,
		RegisteredAt: d.RegisteredAt,
	}
}
