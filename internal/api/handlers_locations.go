package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	respond "github.com/tourkita/admin-backend/internal/api/respond"
	"github.com/tourkita/admin-backend/internal/model"
	"github.com/tourkita/admin-backend/internal/services"
)

// LocationHandler is a thin HTTP transport over LocationService.
type LocationHandler struct {
	svc *services.LocationService
}

func NewLocationHandler(svc *services.LocationService) *LocationHandler {
	return &LocationHandler{svc: svc}
}

// CreateLocation POST /api/locations
func (h *LocationHandler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var req model.Location
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	out, err := h.svc.CreateLocation(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// GetLocation GET /api/locations/{locationId}
func (h *LocationHandler) GetLocation(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.GetLocation(r.Context(), mux.Vars(r)["locationId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// ListLocations GET /api/locations
func (h *LocationHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	locs, err := h.svc.ListLocations(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"locations": locs, "count": len(locs)})
}

// UpdateLocation PATCH /api/locations/{locationId}
// Body fields are optional; absent fields keep their stored values.
func (h *LocationHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         *string  `json:"name"`
		Category     *string  `json:"category"`
		Address      *string  `json:"address"`
		Latitude     *float64 `json:"lat"`
		Longitude    *float64 `json:"lng"`
		Description  *string  `json:"description"`
		OpeningHours *string  `json:"openingHours"`
		ImageURL     *string  `json:"imageUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	out, err := h.svc.UpdateLocation(r.Context(), mux.Vars(r)["locationId"], services.UpdateLocationRequest{
		Name:         req.Name,
		Category:     req.Category,
		Address:      req.Address,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Description:  req.Description,
		OpeningHours: req.OpeningHours,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// DeleteLocation DELETE /api/locations/{locationId}
func (h *LocationHandler) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteLocation(r.Context(), mux.Vars(r)["locationId"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
