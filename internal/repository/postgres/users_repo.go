// internal/repository/postgres/users_repo.go
package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/baharkarakas/event-hub/internal/apperr"
	"github.com/baharkarakas/event-hub/internal/db"
	"github.com/baharkarakas/event-hub/internal/models"
	"github.com/baharkarakas/event-hub/internal/repository"
)

type usersRepo struct{ q db.Querier }

func NewUsers(q db.Querier) repository.Users {
	return &usersRepo{q: q}
}

const userColumns = `id, username, email, password_hash, role, created_at, updated_at`

func (r *usersRepo) Create(ctx context.Context, u models.User) (models.User, error) {
	id := uuid.NewString()
	_, err := r.q.Exec(ctx,
		`INSERT INTO users(id, username, email, password_hash, role) VALUES($1,$2,$3,$4,$5)`,
		id, u.Username, u.Email, u.PasswordHash, string(u.Role),
	)
	if err != nil {
		return models.User{}, wrap("create user", err, apperr.ErrConflict)
	}
	return r.GetByID(ctx, id)
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email)=lower($1)`, email)
}

func (r *usersRepo) getOne(ctx context.Context, sql string, arg string) (models.User, error) {
	var (
		u    models.User
		role string
	)
	err := r.q.QueryRow(ctx, sql, arg).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return models.User{}, wrap("get user", err, nil)
	}
	u.Role = models.ParseRole(role)
	return u, nil
}

func (r *usersRepo) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id=$1)`, id).Scan(&exists)
	if err = wrap("user exists", err, nil); errors.Is(err, apperr.ErrNotFound) {
		return false, nil
	}
	return exists, err
}
