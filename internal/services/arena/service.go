package arena

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/jordanjustice/gotcha-api/internal/dependencies/clock"
	"github.com/jordanjustice/gotcha-api/internal/model"
	"github.com/jordanjustice/gotcha-api/internal/storage"
)

// NearbyRadiusMiles is the fixed search radius for nearby arenas
const NearbyRadiusMiles = 5.0

// Service manages arenas, the proximity search over them, and player
// presence within them. Presence is what authorizes match actions.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new arena Service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// GetArena retrieves an arena by id
func (s *Service) GetArena(ctx context.Context, id model.ArenaID) (*model.Arena, error) {
	return s.storage.GetArena(ctx, id)
}

// CreateArena stores a new arena. Arenas are immutable once created.
func (s *Service) CreateArena(ctx context.Context, arena *model.Arena) error {
	if !validCoordinates(arena.Latitude, arena.Longitude) {
		return model.ErrInvalidCoordinates
	}
	if arena.ID == "" {
		arena.ID = model.ArenaID("a_" + uuid.NewString())
	}
	return s.storage.SaveArena(ctx, arena)
}

// FindNearby returns all arenas within NearbyRadiusMiles of the given
// point. The boundary is inclusive. Result order is not guaranteed.
func (s *Service) FindNearby(ctx context.Context, latitude, longitude float64) ([]*model.Arena, error) {
	if !validCoordinates(latitude, longitude) {
		return nil, model.ErrInvalidCoordinates
	}

	arenas, err := s.storage.ListArenas(ctx)
	if err != nil {
		return nil, err
	}

	nearby := make([]*model.Arena, 0, len(arenas))
	for _, a := range arenas {
		if distanceMiles(latitude, longitude, a.Latitude, a.Longitude) <= NearbyRadiusMiles {
			nearby = append(nearby, a)
		}
	}
	return nearby, nil
}

// Play records the player as present in the arena. Returns true when the
// player newly joined, false when they were already playing there.
func (s *Service) Play(ctx context.Context, arenaID model.ArenaID, playerID model.PlayerID) (bool, error) {
	if _, err := s.storage.GetArena(ctx, arenaID); err != nil {
		return false, err
	}

	joined, err := s.storage.AddArenaPlayer(ctx, arenaID, playerID, s.clock.Now())
	if err != nil {
		return false, err
	}

	if joined {
		s.logger.Info("player joined arena",
			slog.String("arena_id", string(arenaID)),
			slog.String("player_id", string(playerID)),
		)
	}
	return joined, nil
}

// Leave removes the player's presence from the arena
func (s *Service) Leave(ctx context.Context, arenaID model.ArenaID, playerID model.PlayerID) error {
	if _, err := s.storage.GetArena(ctx, arenaID); err != nil {
		return err
	}
	return s.storage.RemoveArenaPlayer(ctx, arenaID, playerID)
}

// EnsurePlaying verifies the player is currently present in the arena.
// Fails closed: no membership record means not authorized.
func (s *Service) EnsurePlaying(ctx context.Context, playerID model.PlayerID, arenaID model.ArenaID) error {
	playing, err := s.storage.IsArenaPlayer(ctx, arenaID, playerID)
	if err != nil {
		return err
	}
	if !playing {
		return model.ErrNotPlayingArena
	}
	return nil
}

// seedArena is the on-disk shape of a seeded arena
type seedArena struct {
	ID             string  `json:"id"`
	LocationName   string  `json:"location_name"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	StreetAddress1 string  `json:"street_address_1"`
	StreetAddress2 string  `json:"street_address_2"`
	City           string  `json:"city"`
	State          string  `json:"state"`
	ZipCode        string  `json:"zip_code"`
}

// LoadFromFile seeds arenas from a JSON file
func (s *Service) LoadFromFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var seeds []seedArena
	if err := json.Unmarshal(data, &seeds); err != nil {
		return err
	}

	for _, seed := range seeds {
		arena := &model.Arena{
			ID:             model.ArenaID(seed.ID),
			LocationName:   seed.LocationName,
			Latitude:       seed.Latitude,
			Longitude:      seed.Longitude,
			StreetAddress1: seed.StreetAddress1,
			StreetAddress2: seed.StreetAddress2,
			City:           seed.City,
			State:          seed.State,
			ZipCode:        seed.ZipCode,
		}
		if err := s.CreateArena(ctx, arena); err != nil {
			return err
		}
	}

	s.logger.Info("arenas loaded", slog.Int("count", len(seeds)))
	return nil
}
