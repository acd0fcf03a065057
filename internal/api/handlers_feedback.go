package api

import (
	"encoding/json"
	"net/http"

	respond "github.com/tourkita/admin-backend/internal/api/respond"
	"github.com/tourkita/admin-backend/internal/model"
	"github.com/tourkita/admin-backend/internal/services"
)

// FeedbackHandler is a thin HTTP transport over FeedbackService.
type FeedbackHandler struct {
	svc *services.FeedbackService
}

func NewFeedbackHandler(svc *services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{svc: svc}
}

// CreateFeedback POST /api/feedback
func (h *FeedbackHandler) CreateFeedback(w http.ResponseWriter, r *http.Request) {
	var req model.Feedback
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	out, err := h.svc.CreateFeedback(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// ListFeedback GET /api/feedback
func (h *FeedbackHandler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	fb, err := h.svc.ListFeedback(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"feedback": fb, "count": len(fb)})
}

// FeedbackStats GET /api/feedback/stats
func (h *FeedbackHandler) FeedbackStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, stats)
}
