package storage

import (
	"context"
	"time"

	"github.com/jordanjustice/gotcha-api/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)

	// Credentials operations
	SaveCredentials(ctx context.Context, creds *model.Credentials) error
	// GetCredentialsByEmail looks up credentials by lowercased email address
	GetCredentialsByEmail(ctx context.Context, email string) (*model.Credentials, error)

	// Arena operations
	SaveArena(ctx context.Context, arena *model.Arena) error
	GetArena(ctx context.Context, id model.ArenaID) (*model.Arena, error)
	ListArenas(ctx context.Context) ([]*model.Arena, error)

	// Arena membership operations
	// AddArenaPlayer records presence; returns false if the player was
	// already present (the call is then a no-op)
	AddArenaPlayer(ctx context.Context, arenaID model.ArenaID, playerID model.PlayerID, joinedAt time.Time) (bool, error)
	RemoveArenaPlayer(ctx context.Context, arenaID model.ArenaID, playerID model.PlayerID) error
	IsArenaPlayer(ctx context.Context, arenaID model.ArenaID, playerID model.PlayerID) (bool, error)
	GetArenaPlayers(ctx context.Context, arenaID model.ArenaID) ([]*model.ArenaPlayer, error)

	// Match operations
	// CreateMatch persists a new open match. It fails with
	// model.ErrMatchConflict when either participant already has an open
	// match in the arena, so concurrent seekers cannot double-assign an
	// opponent; callers treat that as a retryable conflict.
	CreateMatch(ctx context.Context, match *model.Match) error
	GetMatch(ctx context.Context, id model.MatchID) (*model.Match, error)
	// UpdateMatch applies a transition with a compare-and-swap on
	// match.Version: if the stored version differs, the update fails with
	// model.ErrMatchConflict and no state is written. On success the
	// stored (and passed) version is incremented.
	UpdateMatch(ctx context.Context, match *model.Match) error
	GetMatchesForPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.Match, error)
	GetMatchesInArena(ctx context.Context, arenaID model.ArenaID) ([]*model.Match, error)

	// Device operations
	SaveDevice(ctx context.Context, device *model.Device) error
	GetDevice(ctx context.Context, playerID model.PlayerID, token string) (*model.Device, error)
	GetDevicesForPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.Device, error)
	DeleteDeviceByToken(ctx context.Context, token string) error
}
