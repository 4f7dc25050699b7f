package notify

import (
	"context"
	"log/slog"

	"github.com/jordanjustice/gotcha-api/internal/model"
	"github.com/jordanjustice/gotcha-api/internal/storage"
)

// Dispatcher formats and emits push-notification intents. It runs after
// a match transition has committed; nothing here can roll a transition
// back, so every failure is logged and swallowed.
type Dispatcher struct {
	storage storage.Storage
	sink    Sink
	logger  *slog.Logger
}

// NewDispatcher creates a Dispatcher
func NewDispatcher(storage storage.Storage, sink Sink, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		storage: storage,
		sink:    sink,
		logger:  logger,
	}
}

// Notify sends a notification to every device the player has registered.
// A player with no devices is a silent no-op. The badge carries the
// recipient's current count of open matches.
func (d *Dispatcher) Notify(ctx context.Context, playerID model.PlayerID, category Category, alert string, payload any) {
	devices, err := d.storage.GetDevicesForPlayer(ctx, playerID)
	if err != nil {
		d.logger.Error("device lookup failed",
			slog.String("player_id", string(playerID)),
			slog.String("error", err.Error()),
		)
		return
	}
	if len(devices) == 0 {
		return
	}

	badge, err := d.openMatchCount(ctx, playerID)
	if err != nil {
		d.logger.Error("badge count failed",
			slog.String("player_id", string(playerID)),
			slog.String("error", err.Error()),
		)
		badge = 0
	}

	for _, dev := range devices {
		n := &Notification{
			Token:    dev.Token,
			Alert:    alert,
			Category: category,
			Badge:    badge,
			Payload:  payload,
		}
		if err := d.sink.Push(ctx, n); err != nil {
			d.logger.Error("push failed",
				slog.String("player_id", string(playerID)),
				slog.String("category", string(category)),
				slog.String("error", err.Error()),
			)
		}
	}
}

// openMatchCount counts the player's matches that are not yet terminal
func (d *Dispatcher) openMatchCount(ctx context.Context, playerID model.PlayerID) (int, error) {
	matches, err := d.storage.GetMatchesForPlayer(ctx, playerID)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, m := range matches {
		if m.IsOpen() {
			count++
		}
	}
	return count, nil
}
