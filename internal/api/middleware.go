package api

import (
	"net/http"
	"strings"

	respond "github.com/tourkita/admin-backend/internal/api/respond"
	"github.com/tourkita/admin-backend/internal/auth"
)

// RequireAuth returns a mux middleware that validates the API key on every
// mutating request. Reads pass through so dashboards can poll without a key.
func RequireAuth(authorizer auth.Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}
			key := apiKeyFromRequest(r)
			if _, err := authorizer.Authorize(r.Context(), key, r.Method, r.URL.Path); err != nil {
				respond.WriteUnauthorized(w, err.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// apiKeyFromRequest accepts "Authorization: Bearer <key>" or "X-Api-Key".
func apiKeyFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if strings.HasPrefix(h, "Bearer ") {
			return strings.TrimPrefix(h, "Bearer ")
		}
		return h
	}
	return r.Header.Get("X-Api-Key")
}
