package middleware

import (
	"net/http"

	"github.com/baharkarakas/event-hub/internal/api/httpx"
	"github.com/baharkarakas/event-hub/internal/apperr"
	"github.com/baharkarakas/event-hub/internal/models"
)

// RequireCapability lets through only callers whose role grants c. Must run after Auth.
func RequireCapability(c models.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := FromCtx(r.Context())
			if !ok {
				httpx.WriteErr(w, r, apperr.ErrUnauthorized)
				return
			}
			if !u.Role.Can(c) {
				httpx.WriteErr(w, r, apperr.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
