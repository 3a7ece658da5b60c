package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/baharkarakas/event-hub/internal/apperr"
	"github.com/baharkarakas/event-hub/internal/db"
	"github.com/baharkarakas/event-hub/internal/models"
	"github.com/baharkarakas/event-hub/internal/repository"
)

type eventsRepo struct{ q db.Querier }

func NewEvents(q db.Querier) repository.Events { return &eventsRepo{q: q} }

// The organizer is joined in so every read carries its display fields.
const eventSelect = `SELECT e.id, e.title, e.description, e.type, e.date, e.time, e.location, e.image_url,
       e.organizer_id, e.created_at, e.updated_at, u.username, u.email
  FROM events e
  JOIN users u ON u.id = e.organizer_id`

func scanEvent(row pgx.Row) (models.Event, error) {
	var (
		e     models.Event
		typ   string
		date  time.Time
		org   models.UserRef
		email string
	)
	err := row.Scan(&e.ID, &e.Title, &e.Description, &typ, &date, &e.Time, &e.Location, &e.ImageURL,
		&e.OrganizerID, &e.CreatedAt, &e.UpdatedAt, &org.Username, &email)
	if err != nil {
		return models.Event{}, err
	}
	e.Type = models.EventType(typ)
	e.Date = models.NewDate(date)
	org.ID = e.OrganizerID
	org.Email = email
	e.Organizer = &org
	return e, nil
}

func (r *eventsRepo) Create(ctx context.Context, e models.Event) (models.Event, error) {
	id := uuid.NewString()
	_, err := r.q.Exec(ctx,
		`INSERT INTO events(id, title, description, type, date, time, location, image_url, organizer_id)
         VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		id, e.Title, e.Description, string(e.Type), e.Date.Time, e.Time, e.Location, e.ImageURL, e.OrganizerID,
	)
	if err != nil {
		return models.Event{}, wrap("create event", err, nil)
	}
	return r.GetByID(ctx, id)
}

func (r *eventsRepo) GetByID(ctx context.Context, id string) (models.Event, error) {
	e, err := scanEvent(r.q.QueryRow(ctx, eventSelect+` WHERE e.id=$1`, id))
	if err != nil {
		return models.Event{}, wrap("get event", err, nil)
	}
	return e, nil
}

func (r *eventsRepo) List(ctx context.Context) ([]models.Event, error) {
	return r.list(ctx, "list events", eventSelect+` ORDER BY e.date ASC, e.created_at ASC`)
}

func (r *eventsRepo) ListOnDate(ctx context.Context, d models.Date) ([]models.Event, error) {
	return r.list(ctx, "list events on date", eventSelect+` WHERE e.date=$1 ORDER BY e.created_at ASC`, d.Time)
}

func (r *eventsRepo) ListForUser(ctx context.Context, userID string) ([]models.Event, error) {
	return r.list(ctx, "list user events",
		eventSelect+` JOIN registrations reg ON reg.event_id = e.id WHERE reg.user_id=$1 ORDER BY e.date ASC`, userID)
}

func (r *eventsRepo) list(ctx context.Context, op, sql string, args ...any) ([]models.Event, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, wrap(op, err, nil)
	}
	defer rows.Close()

	out := []models.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, wrap(op, err, nil)
		}
		out = append(out, e)
	}
	return out, wrap(op, rows.Err(), nil)
}

func (r *eventsRepo) Update(ctx context.Context, e models.Event) (models.Event, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE events SET title=$2, description=$3, type=$4, date=$5, time=$6, location=$7, image_url=$8, updated_at=now()
         WHERE id=$1`,
		e.ID, e.Title, e.Description, string(e.Type), e.Date.Time, e.Time, e.Location, e.ImageURL,
	)
	if err != nil {
		return models.Event{}, wrap("update event", err, nil)
	}
	if tag.RowsAffected() == 0 {
		return models.Event{}, wrap("update event", apperr.ErrNotFound, nil)
	}
	return r.GetByID(ctx, e.ID)
}

func (r *eventsRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM events WHERE id=$1`, id)
	if err != nil {
		return wrap("delete event", err, nil)
	}
	if tag.RowsAffected() == 0 {
		return wrap("delete event", apperr.ErrNotFound, nil)
	}
	return nil
}
