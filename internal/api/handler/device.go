package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jordanjustice/gotcha-api/internal/api/middleware"
	"github.com/jordanjustice/gotcha-api/internal/api/request"
	"github.com/jordanjustice/gotcha-api/internal/api/response"
	"github.com/jordanjustice/gotcha-api/internal/services/device"
)

// DeviceHandler handles push token registration endpoints
type DeviceHandler struct {
	deviceService *device.Service
}

// NewDeviceHandler creates a new device handler
func NewDeviceHandler(deviceService *device.Service) *DeviceHandler {
	return &DeviceHandler{
		deviceService: deviceService,
	}
}

// Register handles POST /api/v1/devices.
// Re-registering the same token is idempotent and responds 200.
func (h *DeviceHandler) Register(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.RegisterDevice
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Token == "" {
		WriteError(w, NewInvalidRequestError("token is required"))
		return
	}

	d, created, err := h.deviceService.Register(r.Context(), player.ID, req.Token)
	if err != nil {
		WriteError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	response.JSON(w, status, response.DeviceFromModel(d))
}

// Unregister handles DELETE /api/v1/devices/{token}
func (h *DeviceHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	if err := h.deviceService.Unregister(r.Context(), token); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
