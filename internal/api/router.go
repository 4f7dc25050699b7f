package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jordanjustice/gotcha-api/internal/api/handler"
	"github.com/jordanjustice/gotcha-api/internal/api/middleware"
	"github.com/jordanjustice/gotcha-api/internal/services/arena"
	"github.com/jordanjustice/gotcha-api/internal/services/auth"
	"github.com/jordanjustice/gotcha-api/internal/services/device"
	"github.com/jordanjustice/gotcha-api/internal/services/match"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger        *slog.Logger
	AuthService   *auth.Service
	ArenaService  *arena.Service
	MatchService  *match.Service
	DeviceService *device.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.AuthService)
	arenaHandler := handler.NewArenaHandler(cfg.ArenaService, cfg.MatchService)
	matchHandler := handler.NewMatchHandler(cfg.MatchService)
	deviceHandler := handler.NewDeviceHandler(cfg.DeviceService)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Registration and login require no auth
	api.HandleFunc("/players", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/sessions", playerHandler.Login).Methods(http.MethodPost)

	// Protected session routes
	sessions := api.PathPrefix("/sessions").Subrouter()
	sessions.Use(authMiddleware)
	sessions.HandleFunc("", playerHandler.Logout).Methods(http.MethodDelete)

	// Protected player routes
	players := api.PathPrefix("/players").Subrouter()
	players.Use(authMiddleware)
	players.HandleFunc("/me", playerHandler.GetMe).Methods(http.MethodGet)

	// Arena routes (all require auth)
	arenas := api.PathPrefix("/arenas").Subrouter()
	arenas.Use(authMiddleware)
	arenas.HandleFunc("", arenaHandler.FindNearby).Methods(http.MethodGet)
	arenas.HandleFunc("", arenaHandler.CreateArena).Methods(http.MethodPost)
	arenas.HandleFunc("/{arenaID}", arenaHandler.GetArena).Methods(http.MethodGet)
	arenas.HandleFunc("/{arenaID}/players", arenaHandler.Play).Methods(http.MethodPost)
	arenas.HandleFunc("/{arenaID}/players", arenaHandler.Leave).Methods(http.MethodDelete)
	arenas.HandleFunc("/{arenaID}/matches", arenaHandler.RequestMatch).Methods(http.MethodPost)

	// Match routes (all require auth)
	matches := api.PathPrefix("/matches").Subrouter()
	matches.Use(authMiddleware)
	matches.HandleFunc("", matchHandler.List).Methods(http.MethodGet)
	matches.HandleFunc("/{matchID}", matchHandler.Get).Methods(http.MethodGet)
	matches.HandleFunc("/{matchID}/capture", matchHandler.Capture).Methods(http.MethodPost)
	matches.HandleFunc("/{matchID}/confirm", matchHandler.Confirm).Methods(http.MethodPost)
	matches.HandleFunc("/{matchID}/ignore", matchHandler.Ignore).Methods(http.MethodPost)

	// Device routes (all require auth)
	devices := api.PathPrefix("/devices").Subrouter()
	devices.Use(authMiddleware)
	devices.HandleFunc("", deviceHandler.Register).Methods(http.MethodPost)
	devices.HandleFunc("/{token}", deviceHandler.Unregister).Methods(http.MethodDelete)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
