package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/jordanjustice/gotcha-api/internal/api/middleware"
	"github.com/jordanjustice/gotcha-api/internal/api/request"
	"github.com/jordanjustice/gotcha-api/internal/api/response"
	"github.com/jordanjustice/gotcha-api/internal/model"
	"github.com/jordanjustice/gotcha-api/internal/services/arena"
	"github.com/jordanjustice/gotcha-api/internal/services/match"
)

// ArenaHandler handles arena discovery, presence and pairing endpoints
type ArenaHandler struct {
	arenaService *arena.Service
	matchService *match.Service
}

// NewArenaHandler creates a new arena handler
func NewArenaHandler(arenaService *arena.Service, matchService *match.Service) *ArenaHandler {
	return &ArenaHandler{
		arenaService: arenaService,
		matchService: matchService,
	}
}

// FindNearby handles GET /api/v1/arenas?latitude=..&longitude=..
func (h *ArenaHandler) FindNearby(w http.ResponseWriter, r *http.Request) {
	latitude, err := parseCoordinate(r, "latitude")
	if err != nil {
		WriteError(w, err)
		return
	}
	longitude, err := parseCoordinate(r, "longitude")
	if err != nil {
		WriteError(w, err)
		return
	}

	arenas, err := h.arenaService.FindNearby(r.Context(), latitude, longitude)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ArenasFromModel(arenas))
}

// GetArena handles GET /api/v1/arenas/{arenaID}
func (h *ArenaHandler) GetArena(w http.ResponseWriter, r *http.Request) {
	arenaID := model.ArenaID(mux.Vars(r)["arenaID"])

	a, err := h.arenaService.GetArena(r.Context(), arenaID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ArenaFromModel(a))
}

// CreateArena handles POST /api/v1/arenas
func (h *ArenaHandler) CreateArena(w http.ResponseWriter, r *http.Request) {
	var req request.CreateArena
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.LocationName == "" {
		WriteError(w, NewInvalidRequestError("location_name is required"))
		return
	}

	a := &model.Arena{
		LocationName:   req.LocationName,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		StreetAddress1: req.StreetAddress1,
		StreetAddress2: req.StreetAddress2,
		City:           req.City,
		State:          req.State,
		ZipCode:        req.ZipCode,
	}

	if err := h.arenaService.CreateArena(r.Context(), a); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.ArenaFromModel(a))
}

// Play handles POST /api/v1/arenas/{arenaID}/players.
// Joining twice is idempotent.
func (h *ArenaHandler) Play(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	arenaID := model.ArenaID(mux.Vars(r)["arenaID"])

	joined, err := h.arenaService.Play(r.Context(), arenaID, player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	status := http.StatusOK
	if joined {
		status = http.StatusCreated
	}

	a, err := h.arenaService.GetArena(r.Context(), arenaID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, status, response.ArenaFromModel(a))
}

// Leave handles DELETE /api/v1/arenas/{arenaID}/players
func (h *ArenaHandler) Leave(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	arenaID := model.ArenaID(mux.Vars(r)["arenaID"])

	if err := h.arenaService.Leave(r.Context(), arenaID, player.ID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// RequestMatch handles POST /api/v1/arenas/{arenaID}/matches.
// Responds 204 when nobody is available to pair with.
func (h *ArenaHandler) RequestMatch(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	arenaID := model.ArenaID(mux.Vars(r)["arenaID"])

	m, err := h.matchService.RequestMatch(r.Context(), player.ID, arenaID)
	if errors.Is(err, model.ErrNoOpponentAvailable) {
		response.NoContent(w)
		return
	}
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.MatchFromModel(m))
}

// parseCoordinate reads a required float query parameter
func parseCoordinate(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, NewInvalidRequestError(name + " is required")
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, NewInvalidRequestError(name + " must be a number")
	}
	return value, nil
}
