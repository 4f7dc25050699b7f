package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jordanjustice/gotcha-api/internal/api/middleware"
	"github.com/jordanjustice/gotcha-api/internal/api/request"
	"github.com/jordanjustice/gotcha-api/internal/api/response"
	"github.com/jordanjustice/gotcha-api/internal/model"
	"github.com/jordanjustice/gotcha-api/internal/services/match"
)

// MatchHandler handles the capture and confirmation endpoints
type MatchHandler struct {
	matchService *match.Service
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(matchService *match.Service) *MatchHandler {
	return &MatchHandler{
		matchService: matchService,
	}
}

// List handles GET /api/v1/matches
func (h *MatchHandler) List(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	matches, err := h.matchService.MatchesFor(r.Context(), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MatchesFromModel(matches))
}

// Get handles GET /api/v1/matches/{matchID}
func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	matchID := model.MatchID(mux.Vars(r)["matchID"])

	m, err := h.matchService.GetMatch(r.Context(), matchID, player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MatchFromModel(m))
}

// Capture handles POST /api/v1/matches/{matchID}/capture
func (h *MatchHandler) Capture(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	matchID := model.MatchID(mux.Vars(r)["matchID"])

	m, err := h.matchService.Capture(r.Context(), matchID, player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MatchFromModel(m))
}

// Confirm handles POST /api/v1/matches/{matchID}/confirm
func (h *MatchHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	matchID := model.MatchID(mux.Vars(r)["matchID"])

	var req request.ConfirmCapture
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.ConfirmationCode == "" {
		WriteError(w, NewInvalidRequestError("confirmation_code is required"))
		return
	}

	m, err := h.matchService.ConfirmCapture(r.Context(), matchID, player.ID, req.ConfirmationCode)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MatchFromModel(m))
}

// Ignore handles POST /api/v1/matches/{matchID}/ignore
func (h *MatchHandler) Ignore(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	matchID := model.MatchID(mux.Vars(r)["matchID"])

	m, err := h.matchService.Ignore(r.Context(), matchID, player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MatchFromModel(m))
}
