package model

import "time"

// ArenaID uniquely identifies an arena
type ArenaID string

// Arena is a physical location where players can be matched.
// Arenas are immutable after creation.
type Arena struct {
	ID             ArenaID
	LocationName   string
	Latitude       float64
	Longitude      float64
	StreetAddress1 string
	StreetAddress2 string
	City           string
	State          string
	ZipCode        string
}

// ArenaPlayer records a player's current presence in an arena
type ArenaPlayer struct {
	ArenaID  ArenaID
	PlayerID PlayerID
	JoinedAt time.Time
}
