package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	respond "github.com/tourkita/admin-backend/internal/api/respond"
	"github.com/tourkita/admin-backend/internal/model"
	"github.com/tourkita/admin-backend/internal/services"
)

// UserHandler is a thin HTTP transport over UserService.
type UserHandler struct {
	svc       *services.UserService
	retention time.Duration
}

func NewUserHandler(svc *services.UserService, retention time.Duration) *UserHandler {
	if retention <= 0 {
		retention = services.ArchiveRetention
	}
	return &UserHandler{svc: svc, retention: retention}
}

// CreateUser POST /api/users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req model.User
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	out, err := h.svc.CreateUser(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// GetUser GET /api/users/{userId}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.GetUser(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// ListUsers GET /api/users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"users": users, "count": len(users)})
}

// ArchiveUser POST /api/users/{userId}/archive
func (h *UserHandler) ArchiveUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	out, err := h.svc.ArchiveUser(r.Context(), mux.Vars(r)["userId"], req.Reason)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// ListArchivedUsers GET /api/archived-users
func (h *UserHandler) ListArchivedUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListArchivedUsers(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"archivedUsers": users, "count": len(users)})
}

// SweepArchivedUsers POST /api/archived-users/sweep
func (h *UserHandler) SweepArchivedUsers(w http.ResponseWriter, r *http.Request) {
	removed, err := h.svc.SweepArchived(r.Context(), h.retention)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"removed": removed})
}
