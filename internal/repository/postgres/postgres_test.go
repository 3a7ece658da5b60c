package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/event-hub/internal/apperr"
	"github.com/baharkarakas/event-hub/internal/models"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

var userCols = []string{"id", "username", "email", "password_hash", "role", "created_at", "updated_at"}

func TestUsersGetByEmail(t *testing.T) {
	mock := newMock(t)
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE lower(email)=lower($1)`)).
		WithArgs("alice@example.com").
		WillReturnRows(pgxmock.NewRows(userCols).AddRow("u1", "alice", "alice@example.com", "hash", "Admin", now, now))

	u, err := NewUsers(mock).GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, models.RoleAdmin, u.Role)
}

func TestUsersGetByIDNotFound(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id=$1`)).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := NewUsers(mock).GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUsersCreateDuplicateEmail(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs(pgxmock.AnyArg(), "alice", "alice@example.com", "hash", "standard").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := NewUsers(mock).Create(context.Background(), models.User{
		Username: "alice", Email: "alice@example.com", PasswordHash: "hash", Role: models.RoleStandard,
	})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

var eventCols = []string{"id", "title", "description", "type", "date", "time", "location", "image_url",
	"organizer_id", "created_at", "updated_at", "username", "email"}

func TestEventsListScansOrganizer(t *testing.T) {
	mock := newMock(t)
	now := time.Now()
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	clock := "18:30"
	var none *string

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY e.date ASC`)).
		WillReturnRows(pgxmock.NewRows(eventCols).
			AddRow("e1", "Intro to Rust", "desc", "Workshop", day, &clock, none, none, "a1", now, now, "admin", "admin@example.com"))

	events, err := NewEvents(mock).List(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	e := events[0]
	assert.Equal(t, models.EventWorkshop, e.Type)
	assert.Equal(t, "2025-03-01", e.Date.String())
	require.NotNil(t, e.Time)
	assert.Equal(t, "18:30", *e.Time)
	assert.Nil(t, e.Location)
	require.NotNil(t, e.Organizer)
	assert.Equal(t, "admin", e.Organizer.Username)
	assert.Equal(t, "a1", e.Organizer.ID)
}

func TestEventsDeleteMissing(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM events WHERE id=$1`)).
		WithArgs("e1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := NewEvents(mock).Delete(context.Background(), "e1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestEventsUpdate(t *testing.T) {
	mock := newMock(t)
	now := time.Now()
	day := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	var none *string

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE events SET`)).
		WithArgs("e1", "New", "desc", "Meetup", day, none, none, none).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE e.id=$1`)).
		WithArgs("e1").
		WillReturnRows(pgxmock.NewRows(eventCols).
			AddRow("e1", "New", "desc", "Meetup", day, none, none, none, "a1", now, now, "admin", "admin@example.com"))

	e, err := NewEvents(mock).Update(context.Background(), models.Event{
		ID: "e1", Title: "New", Description: "desc", Type: models.EventMeetup, Date: models.NewDate(day),
	})
	require.NoError(t, err)
	assert.Equal(t, "New", e.Title)
}

var regCols = []string{"id", "user_id", "event_id", "created_at"}

func TestRegistrationsCreate(t *testing.T) {
	mock := newMock(t)
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO registrations`)).
		WithArgs(pgxmock.AnyArg(), "u1", "e1").
		WillReturnRows(pgxmock.NewRows(regCols).AddRow("r1", "u1", "e1", now))

	reg, err := NewRegistrations(mock).Create(context.Background(), "u1", "e1")
	require.NoError(t, err)
	assert.Equal(t, "r1", reg.ID)
}

func TestRegistrationsCreateDuplicate(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO registrations`)).
		WithArgs(pgxmock.AnyArg(), "u1", "e1").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "registrations_user_id_event_id_key"})

	_, err := NewRegistrations(mock).Create(context.Background(), "u1", "e1")
	assert.ErrorIs(t, err, apperr.ErrAlreadyRegistered)
}

func TestRegistrationsListByEvent(t *testing.T) {
	mock := newMock(t)
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM registrations WHERE event_id=$1`)).
		WithArgs("e1").
		WillReturnRows(pgxmock.NewRows(regCols).
			AddRow("r1", "u1", "e1", now).
			AddRow("r2", "u2", "e1", now))

	regs, err := NewRegistrations(mock).ListByEvent(context.Background(), "e1")
	require.NoError(t, err)
	assert.Len(t, regs, 2)
}

func TestRegistrationsDelete(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM registrations WHERE id=$1`)).
		WithArgs("r1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(t, NewRegistrations(mock).Delete(context.Background(), "r1"))
}

func TestAuditLogCreate(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO audit_logs`)).
		WithArgs(pgxmock.AnyArg(), "event", pgxmock.AnyArg(), pgxmock.AnyArg(), "create", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	l := models.NewAuditLog("event", "e1", "a1", "create", nil)
	assert.NoError(t, NewAuditLogs(mock).Create(context.Background(), l))
}

func TestWrapPassesUnknownErrors(t *testing.T) {
	boom := errors.New("boom")
	err := wrap("op", boom, apperr.ErrConflict)
	assert.ErrorIs(t, err, boom)
	code, _ := apperr.Classify(err)
	assert.Equal(t, apperr.CodeInternal, code)
	assert.NoError(t, wrap("op", nil, nil))
}

func TestMalformedIDIsNotFound(t *testing.T) {
	mock := newMock(t)
	badUUID := &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`}
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE e.id=$1`)).WithArgs("abc").WillReturnError(badUUID)
	_, err := NewEvents(mock).GetByID(ctx, "abc")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM registrations`)).WithArgs("abc").WillReturnError(badUUID)
	assert.ErrorIs(t, NewRegistrations(mock).Delete(ctx, "abc"), apperr.ErrNotFound)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS`)).WithArgs("abc").WillReturnError(badUUID)
	ok, err := NewUsers(mock).Exists(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRegistrationDanglingUserIsNotFound(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO registrations`)).
		WithArgs(pgxmock.AnyArg(), "u-gone", "e1").
		WillReturnError(&pgconn.PgError{Code: "23503"})

	_, err := NewRegistrations(mock).Create(context.Background(), "u-gone", "e1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
