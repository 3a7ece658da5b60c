package client

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/event-hub/internal/api"
	"github.com/baharkarakas/event-hub/internal/apperr"
	"github.com/baharkarakas/event-hub/internal/auth"
	"github.com/baharkarakas/event-hub/internal/config"
	"github.com/baharkarakas/event-hub/internal/models"
	"github.com/baharkarakas/event-hub/internal/repository/memory"
	"github.com/baharkarakas/event-hub/internal/services"
)

func newServer(t *testing.T, ttl time.Duration) *httptest.Server {
	t.Helper()
	st := memory.New()
	tm := auth.NewTokenManager("secret", "event-hub", ttl)
	h := api.NewRouter(api.RouterDeps{
		Cfg:    config.Config{CORSOrigins: []string{"*"}},
		Log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Auth:   services.NewAuthService(st.Users(), tm, auth.NewMemoryRevoker(), []string{"admin@example.com"}),
		Events: services.NewEventService(st.Events(), st.Registrations(), st.Users(), st.AuditLogs(), nil),
		Regs:   services.NewRegistrationService(st.Registrations(), st.Events(), st.Users(), st.AuditLogs(), nil, nil),
	})
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func signedIn(t *testing.T, base, name, email string) *Client {
	t.Helper()
	ctx := context.Background()
	c := New(base, NewMemoryStore(DefaultKeys), nil)
	_, err := c.Register(ctx, name, email, "secret1")
	require.NoError(t, err)
	_, err = c.Login(ctx, email, "secret1")
	require.NoError(t, err)
	return c
}

func strp(s string) *string { return &s }

func rust() models.EventInput {
	d, _ := models.ParseDate("2025-03-01")
	typ := models.EventWorkshop
	return models.EventInput{Title: strp("Intro to Rust"), Description: strp("Ownership"), Type: &typ, Date: &d}
}

func TestEndToEndScenario(t *testing.T) {
	srv := newServer(t, time.Hour)
	ctx := context.Background()
	admin := signedIn(t, srv.URL+"/api/v1", "root", "admin@example.com")
	alice := signedIn(t, srv.URL+"/api/v1", "alice", "alice@example.com")

	// alice is bounced from the admin-only view
	d, err := NewGuard(alice.store, nil).Check(ctx, "/create-event")
	require.NoError(t, err)
	assert.False(t, d.Allow)
	assert.Equal(t, HomePath, d.Redirect)

	_, err = alice.CreateEvent(ctx, rust())
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	created, err := admin.CreateEvent(ctx, rust())
	require.NoError(t, err)

	list, err := alice.ListEvents(ctx, models.EventFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Intro to Rust", list[0].Title)

	ok, err := alice.IsRegistered(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = alice.RegisterForEvent(ctx, created.ID)
	require.NoError(t, err)
	ok, _ = alice.IsRegistered(ctx, created.ID)
	assert.True(t, ok)

	_, err = alice.RegisterForEvent(ctx, created.ID)
	assert.ErrorIs(t, err, apperr.ErrAlreadyRegistered)

	mine, err := alice.MyEvents(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, created.ID, mine[0].ID)

	require.NoError(t, alice.CancelForEvent(ctx, created.ID))
	mine, err = alice.MyEvents(ctx)
	require.NoError(t, err)
	assert.Empty(t, mine)
	assert.ErrorIs(t, alice.CancelForEvent(ctx, created.ID), apperr.ErrNotFound)

	_, err = alice.UpdateEvent(ctx, created.ID, models.EventInput{Title: strp("x")})
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	require.NoError(t, admin.DeleteEvent(ctx, created.ID))
	_, err = admin.GetEvent(ctx, created.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestLoginFailureKeepsStoreEmpty(t *testing.T) {
	srv := newServer(t, time.Hour)
	ctx := context.Background()
	c := New(srv.URL, NewMemoryStore(DefaultKeys), nil)
	_, err := c.Register(ctx, "alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	_, err = c.Login(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
	var redirect *RedirectError
	assert.False(t, errors.As(err, &redirect))
	_, ok, _ := c.Session(ctx)
	assert.False(t, ok)
}

func TestExpiredTokenClearsSessionAndRedirects(t *testing.T) {
	srv := newServer(t, time.Hour)
	ctx := context.Background()
	c := signedIn(t, srv.URL, "alice", "alice@example.com")

	sess, ok, _ := c.Session(ctx)
	require.True(t, ok)
	expired := auth.NewTokenManager("secret", "event-hub", -time.Minute)
	tok, _, err := expired.Generate(sess.User.ID, sess.User.Role)
	require.NoError(t, err)
	require.NoError(t, c.store.Save(ctx, Session{Token: tok, User: sess.User}))

	_, err = c.ListEvents(ctx, models.EventFilter{})
	var redirect *RedirectError
	require.ErrorAs(t, err, &redirect)
	assert.Equal(t, LoginPath, redirect.To)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	_, ok, _ = c.Session(ctx)
	assert.False(t, ok)

	d, err := NewGuard(c.store, nil).Check(ctx, "/home")
	require.NoError(t, err)
	assert.Equal(t, LoginPath, d.Redirect)
}

func TestLogoutClearsSession(t *testing.T) {
	srv := newServer(t, time.Hour)
	ctx := context.Background()
	c := signedIn(t, srv.URL, "alice", "alice@example.com")
	sess, _, _ := c.Session(ctx)

	require.NoError(t, c.Logout(ctx))
	_, ok, _ := c.Session(ctx)
	assert.False(t, ok)

	// the old token is revoked server side too
	require.NoError(t, c.store.Save(ctx, sess))
	_, err := c.Me(ctx)
	var redirect *RedirectError
	assert.ErrorAs(t, err, &redirect)
}

func TestToleratesRawAndWrappedBodies(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/event/raw", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"e1","title":"Raw","type":"Meetup","date":"2025-01-01"}`)
	})
	mux.HandleFunc("/event/wrapped", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"responseData":{"id":"e2","title":"Wrapped","date":"2025-01-01T00:00:00Z"},"responseMessage":"ok"}`)
	})
	mux.HandleFunc("/event/legacy-error", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"responseMessage":"Event not found"}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctx := context.Background()
	c := New(srv.URL, NewMemoryStore(DefaultKeys), nil)

	e, err := c.GetEvent(ctx, "raw")
	require.NoError(t, err)
	assert.Equal(t, "Raw", e.Title)

	e, err = c.GetEvent(ctx, "wrapped")
	require.NoError(t, err)
	assert.Equal(t, "Wrapped", e.Title)
	assert.Equal(t, "2025-01-01", e.Date.String())

	_, err = c.GetEvent(ctx, "legacy-error")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Event not found", apiErr.Message)
}

func TestRegisterNeedsSession(t *testing.T) {
	c := New("http://127.0.0.1:1", NewMemoryStore(DefaultKeys), nil)
	_, err := c.RegisterForEvent(context.Background(), "e1")
	var redirect *RedirectError
	require.ErrorAs(t, err, &redirect)
	assert.Equal(t, LoginPath, redirect.To)
}
