package middleware

import (
	"context"

	"github.com/baharkarakas/event-hub/internal/auth"
	"github.com/baharkarakas/event-hub/internal/models"
)

type userKey struct{}

type UserCtx struct {
	UserID string
	Role   models.Role
	Claims *auth.Claims
}

func (u UserCtx) Actor() models.Actor { return models.Actor{UserID: u.UserID, Role: u.Role} }

func WithUser(ctx context.Context, u UserCtx) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

func FromCtx(ctx context.Context) (UserCtx, bool) {
	u, ok := ctx.Value(userKey{}).(UserCtx)
	return u, ok && u.UserID != ""
}
