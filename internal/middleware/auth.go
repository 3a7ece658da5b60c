// internal/middleware/auth.go
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/baharkarakas/event-hub/internal/api/httpx"
	"github.com/baharkarakas/event-hub/internal/apperr"
	"github.com/baharkarakas/event-hub/internal/auth"
)

// Authenticator turns a bearer token into claims. services.AuthService implements it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	authn Authenticator
}

func NewAuthMiddleware(a Authenticator) *AuthMiddleware {
	return &AuthMiddleware{authn: a}
}

func bearer(r *http.Request) (string, bool) {
	ah := r.Header.Get("Authorization")
	if len(ah) < len("Bearer ") || !strings.EqualFold(ah[:len("Bearer ")], "bearer ") {
		return "", false
	}
	tok := strings.TrimSpace(ah[len("Bearer "):])
	return tok, tok != ""
}

// Auth rejects requests without a valid, unrevoked bearer token with 401.
func (m *AuthMiddleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearer(r)
		if !ok {
			httpx.WriteError(w, http.StatusUnauthorized, apperr.CodeUnauthorized, "missing bearer token", nil)
			return
		}
		claims, err := m.authn.Authenticate(r.Context(), token)
		if err != nil {
			httpx.WriteErr(w, r, err)
			return
		}
		ctx := WithUser(r.Context(), UserCtx{UserID: claims.UserID, Role: claims.Role, Claims: claims})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
