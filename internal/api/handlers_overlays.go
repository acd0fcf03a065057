package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	respond "github.com/tourkita/admin-backend/internal/api/respond"
	"github.com/tourkita/admin-backend/internal/model"
	"github.com/tourkita/admin-backend/internal/services"
)

// OverlayHandler is a thin HTTP transport over OverlayService.
type OverlayHandler struct {
	svc *services.OverlayService
}

func NewOverlayHandler(svc *services.OverlayService) *OverlayHandler {
	return &OverlayHandler{svc: svc}
}

// CreateOverlay POST /api/overlays
func (h *OverlayHandler) CreateOverlay(w http.ResponseWriter, r *http.Request) {
	var req model.Overlay
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	out, err := h.svc.CreateOverlay(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// GetOverlay GET /api/overlays/{overlayId}
func (h *OverlayHandler) GetOverlay(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.GetOverlay(r.Context(), mux.Vars(r)["overlayId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// ListOverlays GET /api/overlays
func (h *OverlayHandler) ListOverlays(w http.ResponseWriter, r *http.Request) {
	overlays, err := h.svc.ListOverlays(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"overlays": overlays, "count": len(overlays)})
}

// DeleteOverlay DELETE /api/overlays/{overlayId}
func (h *OverlayHandler) DeleteOverlay(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteOverlay(r.Context(), mux.Vars(r)["overlayId"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
