package api

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	respond "github.com/tourkita/admin-backend/internal/api/respond"
	"github.com/tourkita/admin-backend/internal/services"
)

// maxAssetMemory caps the in-memory portion of a multipart parse; larger
// file parts spill to temp files.
const maxAssetMemory = 32 << 20

// ARTargetHandler is the HTTP transport over the AR asset lifecycle.
type ARTargetHandler struct {
	svc *services.ARAssetService
}

func NewARTargetHandler(svc *services.ARAssetService) *ARTargetHandler {
	return &ARTargetHandler{svc: svc}
}

// ListTargets GET /api/ar-targets?category=
func (h *ARTargetHandler) ListTargets(w http.ResponseWriter, r *http.Request) {
	targets, err := h.svc.ListTargets(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"targets": targets, "count": len(targets)})
}

// GetTarget GET /api/ar-targets/{targetId}
func (h *ARTargetHandler) GetTarget(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.GetTarget(r.Context(), mux.Vars(r)["targetId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// SaveTarget POST /api/ar-targets
// Multipart form: fields targetId (optional), locationId, category, name,
// description, physicalWidth; file parts image, model, video (each optional
// on edit). Closes over the request body, so files stream to the blob store.
func (h *ARTargetHandler) SaveTarget(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxAssetMemory); err != nil {
		respond.WriteBadRequest(w, "Invalid multipart form")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	req := services.SaveTargetRequest{
		TargetID:   r.FormValue("targetId"),
		LocationID: r.FormValue("locationId"),
		Category:   r.FormValue("category"),
		Name:       r.FormValue("name"),
	}
	if d := r.FormValue("description"); d != "" {
		req.Description = &d
	}
	if wv := r.FormValue("physicalWidth"); wv != "" {
		pw, err := strconv.ParseFloat(wv, 64)
		if err != nil {
			respond.WriteBadRequest(w, "physicalWidth must be a number")
			return
		}
		req.PhysicalWidth = pw
	}

	var closers []multipart.File
	defer func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}()
	for _, part := range []struct {
		field string
		dest  **services.AssetFile
	}{
		{"image", &req.Image},
		{"model", &req.Model},
		{"video", &req.Video},
	} {
		f, hdr, err := r.FormFile(part.field)
		if err == http.ErrMissingFile {
			continue
		}
		if err != nil {
			respond.WriteBadRequest(w, "Invalid file part "+part.field)
			return
		}
		closers = append(closers, f)
		*part.dest = &services.AssetFile{
			Filename:    hdr.Filename,
			ContentType: hdr.Header.Get("Content-Type"),
			Size:        hdr.Size,
			Reader:      f,
		}
	}

	out, err := h.svc.SaveTarget(r.Context(), req, nil)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	status := http.StatusCreated
	if req.TargetID != "" {
		status = http.StatusOK
	}
	respond.WriteJSON(w, status, out)
}

// DeleteTarget DELETE /api/ar-targets/{targetId}
func (h *ARTargetHandler) DeleteTarget(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteTarget(r.Context(), mux.Vars(r)["targetId"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
