package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/baharkarakas/event-hub/internal/apperr"
	"github.com/baharkarakas/event-hub/internal/db"
	"github.com/baharkarakas/event-hub/internal/models"
	"github.com/baharkarakas/event-hub/internal/repository"
)

type registrationsRepo struct{ q db.Querier }

func NewRegistrations(q db.Querier) repository.Registrations { return &registrationsRepo{q: q} }

const registrationColumns = `id, user_id, event_id, created_at`

func scanRegistration(row pgx.Row) (models.Registration, error) {
	var reg models.Registration
	err := row.Scan(&reg.ID, &reg.UserID, &reg.EventID, &reg.CreatedAt)
	return reg, err
}

func (r *registrationsRepo) Create(ctx context.Context, userID, eventID string) (models.Registration, error) {
	reg, err := scanRegistration(r.q.QueryRow(ctx,
		`INSERT INTO registrations(id, user_id, event_id) VALUES($1,$2,$3) RETURNING `+registrationColumns,
		uuid.NewString(), userID, eventID,
	))
	if err != nil {
		return models.Registration{}, wrap("create registration", err, apperr.ErrAlreadyRegistered)
	}
	return reg, nil
}

func (r *registrationsRepo) GetByID(ctx context.Context, id string) (models.Registration, error) {
	reg, err := scanRegistration(r.q.QueryRow(ctx,
		`SELECT `+registrationColumns+` FROM registrations WHERE id=$1`, id))
	return reg, wrap("get registration", err, nil)
}

func (r *registrationsRepo) Find(ctx context.Context, userID, eventID string) (models.Registration, error) {
	reg, err := scanRegistration(r.q.QueryRow(ctx,
		`SELECT `+registrationColumns+` FROM registrations WHERE user_id=$1 AND event_id=$2`, userID, eventID))
	return reg, wrap("find registration", err, nil)
}

func (r *registrationsRepo) ListByEvent(ctx context.Context, eventID string) ([]models.Registration, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+registrationColumns+` FROM registrations WHERE event_id=$1 ORDER BY created_at ASC`, eventID)
	if err != nil {
		return nil, wrap("list registrations", err, nil)
	}
	defer rows.Close()

	out := []models.Registration{}
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, wrap("list registrations", err, nil)
		}
		out = append(out, reg)
	}
	return out, wrap("list registrations", rows.Err(), nil)
}

func (r *registrationsRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM registrations WHERE id=$1`, id)
	if err != nil {
		return wrap("delete registration", err, nil)
	}
	if tag.RowsAffected() == 0 {
		return wrap("delete registration", apperr.ErrNotFound, nil)
	}
	return nil
}
