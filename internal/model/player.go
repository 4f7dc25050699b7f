package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Player represents a registered participant
type Player struct {
	ID           PlayerID
	Name         string
	EmailAddress string
	CreatedAt    time.Time
}

// Credentials holds a player's authentication data
// Stored separately so password hashes never travel with the player record
type Credentials struct {
	PlayerID     PlayerID
	EmailAddress string // lowercased, unique
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
