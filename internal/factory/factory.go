package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/jordanjustice/gotcha-api/internal/dependencies/clock"
	"github.com/jordanjustice/gotcha-api/internal/dependencies/random"
	"github.com/jordanjustice/gotcha-api/internal/services/arena"
	"github.com/jordanjustice/gotcha-api/internal/services/auth"
	"github.com/jordanjustice/gotcha-api/internal/services/device"
	"github.com/jordanjustice/gotcha-api/internal/services/match"
	"github.com/jordanjustice/gotcha-api/internal/services/notify"
	"github.com/jordanjustice/gotcha-api/internal/storage"
	"github.com/jordanjustice/gotcha-api/internal/storage/memory"
	redisstorage "github.com/jordanjustice/gotcha-api/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	AuthService   *auth.Service
	ArenaService  *arena.Service
	DeviceService *device.Service
	Dispatcher    *notify.Dispatcher
	MatchService  *match.Service
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// Sink delivers push notifications (optional)
	// If nil, notifications are logged instead of delivered
	Sink notify.Sink
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	sink := cfg.Sink
	if sink == nil {
		sink = notify.NewLogSink(logger)
	}

	return newWithDependencies(store, clk, rnd, cfg.AuthConfig, sink, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	authCfg auth.Config,
	sink notify.Sink,
	logger *slog.Logger,
) *App {
	// Create services
	authService := auth.New(store, clk, rnd, authCfg)
	arenaService := arena.New(store, clk, logger)
	deviceService := device.New(store, clk)
	dispatcher := notify.NewDispatcher(store, sink, logger)
	matchService := match.New(store, arenaService, dispatcher, clk, rnd, logger)

	return &App{
		Storage:       store,
		Clock:         clk,
		Random:        rnd,
		AuthService:   authService,
		ArenaService:  arenaService,
		DeviceService: deviceService,
		Dispatcher:    dispatcher,
		MatchService:  matchService,
	}
}
