package api

import (
	"errors"
	"net/http"

	respond "github.com/tourkita/admin-backend/internal/api/respond"
	"github.com/tourkita/admin-backend/internal/model"
)

// writeServiceError maps the model sentinel errors onto HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrInvalid):
		respond.WriteBadRequest(w, err.Error())
	case errors.Is(err, model.ErrNotFound):
		respond.WriteNotFound(w, err.Error())
	case errors.Is(err, model.ErrDuplicate):
		respond.WriteConflict(w, err.Error())
	default:
		respond.WriteInternalError(w, err.Error())
	}
}
