package device

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jordanjustice/gotcha-api/internal/dependencies/clock"
	"github.com/jordanjustice/gotcha-api/internal/model"
	"github.com/jordanjustice/gotcha-api/internal/storage"
)

// Service is the registry of push-notification device tokens
type Service struct {
	storage storage.Storage
	clock   clock.Clock
}

// New creates a new device Service
func New(storage storage.Storage, clock clock.Clock) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
	}
}

// Register stores a device token for a player. Registering the same
// token twice for the same player returns the existing record; created
// reports whether a new record was written.
func (s *Service) Register(ctx context.Context, playerID model.PlayerID, token string) (*model.Device, bool, error) {
	existing, err := s.storage.GetDevice(ctx, playerID, token)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, model.ErrDeviceNotFound) {
		return nil, false, err
	}

	device := &model.Device{
		ID:           uuid.New(),
		PlayerID:     playerID,
		Token:        token,
		RegisteredAt: s.clock.Now(),
	}

	if err := s.storage.SaveDevice(ctx, device); err != nil {
		return nil, false, err
	}
	return device, true, nil
}

// Unregister removes a device by its token
func (s *Service) Unregister(ctx context.Context, token string) error {
	return s.storage.DeleteDeviceByToken(ctx, token)
}

// DevicesFor returns all devices registered to a player
func (s *Service) DevicesFor(ctx context.Context, playerID model.PlayerID) ([]*model.Device, error) {
	return s.storage.GetDevicesForPlayer(ctx, playerID)
}
