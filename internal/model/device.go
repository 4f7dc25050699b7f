package model

import (
	"time"

	"github.com/google/uuid"
)

// Device is a player's registered push-notification endpoint.
// A (player, token) pair is unique; re-registering the same token for the
// same player returns the existing record.
type Device struct {
	ID           uuid.UUID
	PlayerID     PlayerID
	Token        string
	RegisteredAt time.Time
}
