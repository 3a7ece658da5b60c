package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/baharkarakas/event-hub/internal/apperr"
	"github.com/baharkarakas/event-hub/internal/models"
)

// RedirectError means the view must navigate to To. Returned when the API rejects the session.
type RedirectError struct {
	To  string
	Err error
}

func (e *RedirectError) Error() string { return fmt.Sprintf("redirect to %s: %v", e.To, e.Err) }
func (e *RedirectError) Unwrap() error { return e.Err }

// APIError is a non-2xx response. It unwraps to the matching apperr sentinel when the code is known.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details json.RawMessage
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: %s (%d)", e.Message, e.Status)
}

func (e *APIError) Unwrap() error { return apperr.FromCode(e.Code) }

type Client struct {
	base  string
	http  *http.Client
	store SessionStore
}

func New(baseURL string, store SessionStore, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{base: strings.TrimRight(baseURL, "/"), http: hc, store: store}
}

func (c *Client) Session(ctx context.Context) (Session, bool, error) { return c.store.Load(ctx) }

// do sends one request, attaching the stored token. A 401 on an authenticated call
// clears the session and yields a RedirectError to the login view.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	sess, authed, err := c.store.Load(ctx)
	if err != nil {
		return err
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", method, path, err)
	}

	if resp.StatusCode >= 300 {
		apiErr := decodeError(resp.StatusCode, raw)
		if resp.StatusCode == http.StatusUnauthorized && authed {
			if err := c.store.Clear(ctx); err != nil {
				return err
			}
			return &RedirectError{To: LoginPath, Err: fmt.Errorf("%w: %w", apperr.ErrUnauthorized, apiErr)}
		}
		return apiErr
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	return json.Unmarshal(unwrap(raw), out)
}

// unwrap returns responseData when the body is enveloped, else the body itself.
func unwrap(raw []byte) []byte {
	var env map[string]json.RawMessage
	if err := json.Unmarshal(raw, &env); err != nil {
		return raw
	}
	if data, ok := env["responseData"]; ok {
		return data
	}
	return raw
}

func decodeError(status int, raw []byte) *APIError {
	e := &APIError{Status: status}
	var body struct {
		Error           string          `json:"error"`
		Code            string          `json:"code"`
		Details         json.RawMessage `json:"details"`
		ResponseMessage string          `json:"responseMessage"`
		Message         string          `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		e.Message = strings.TrimSpace(string(raw))
	} else {
		e.Code, e.Details = body.Code, body.Details
		for _, m := range []string{body.Error, body.ResponseMessage, body.Message} {
			if m != "" {
				e.Message = m
				break
			}
		}
	}
	if e.Code == "" {
		// older servers send no code; infer from status
		switch status {
		case http.StatusUnauthorized:
			e.Code = apperr.CodeUnauthorized
		case http.StatusForbidden:
			e.Code = apperr.CodeForbidden
		case http.StatusNotFound:
			e.Code = apperr.CodeNotFound
		case http.StatusBadRequest:
			e.Code = apperr.CodeValidation
		}
	}
	return e
}

// Login stores the session on success. Invalid credentials leave the store untouched.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	var res struct {
		Token string            `json:"token"`
		User  models.Descriptor `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{"email": email, "password": password}, &res); err != nil {
		return Session{}, err
	}
	if res.Token == "" {
		return Session{}, errors.New("login: response carried no token")
	}
	res.User.Role = models.ParseRole(string(res.User.Role))
	sess := Session{Token: res.Token, User: res.User}
	if err := c.store.Save(ctx, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

func (c *Client) Register(ctx context.Context, username, email, password string) (models.User, error) {
	var u models.User
	err := c.do(ctx, http.MethodPost, "/auth/register",
		map[string]string{"username": username, "email": email, "password": password}, &u)
	return u, err
}

// Logout discards the local session even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	if clearErr := c.store.Clear(ctx); clearErr != nil {
		return clearErr
	}
	var redirect *RedirectError
	if errors.As(err, &redirect) {
		return nil
	}
	return err
}

func (c *Client) Me(ctx context.Context) (models.User, error) {
	var u models.User
	err := c.do(ctx, http.MethodGet, "/auth/me", nil, &u)
	return u, err
}

// ListEvents asks the server to filter by type and refines locally as well.
func (c *Client) ListEvents(ctx context.Context, f models.EventFilter) ([]models.Event, error) {
	path := "/event"
	if f.Type != "" {
		path += "?type=" + url.QueryEscape(string(f.Type))
	}
	var events []models.Event
	if err := c.do(ctx, http.MethodGet, path, nil, &events); err != nil {
		return nil, err
	}
	return f.Apply(events), nil
}

func (c *Client) GetEvent(ctx context.Context, id string) (models.Event, error) {
	var e models.Event
	err := c.do(ctx, http.MethodGet, "/event/"+url.PathEscape(id), nil, &e)
	return e, err
}

func (c *Client) CreateEvent(ctx context.Context, in models.EventInput) (models.Event, error) {
	var e models.Event
	err := c.do(ctx, http.MethodPost, "/event", in, &e)
	return e, err
}

func (c *Client) UpdateEvent(ctx context.Context, id string, in models.EventInput) (models.Event, error) {
	var e models.Event
	err := c.do(ctx, http.MethodPut, "/event/"+url.PathEscape(id), in, &e)
	return e, err
}

func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/event/"+url.PathEscape(id), nil, nil)
}

func (c *Client) currentUser(ctx context.Context) (models.Descriptor, error) {
	sess, ok, err := c.store.Load(ctx)
	if err != nil {
		return models.Descriptor{}, err
	}
	if !ok {
		return models.Descriptor{}, &RedirectError{To: LoginPath, Err: apperr.ErrUnauthorized}
	}
	return sess.User, nil
}

// MyEvents lists the events the logged-in user registered for.
func (c *Client) MyEvents(ctx context.Context) ([]models.Event, error) {
	u, err := c.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	var events []models.Event
	err = c.do(ctx, http.MethodGet, "/user/events/"+url.PathEscape(u.ID), nil, &events)
	return events, err
}

func (c *Client) RegisterForEvent(ctx context.Context, eventID string) (models.Registration, error) {
	u, err := c.currentUser(ctx)
	if err != nil {
		return models.Registration{}, err
	}
	var reg models.Registration
	err = c.do(ctx, http.MethodPost, "/registration", map[string]string{"eventId": eventID, "userId": u.ID}, &reg)
	return reg, err
}

func (c *Client) CancelRegistration(ctx context.Context, registrationID string) error {
	return c.do(ctx, http.MethodDelete, "/registration/"+url.PathEscape(registrationID), nil, nil)
}

// registration finds the caller's registration among the event's registrations.
func (c *Client) registration(ctx context.Context, eventID string) (*models.Registration, error) {
	u, err := c.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	e, err := c.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	_, reg := models.StateFor(e.Registrations, u.ID)
	return reg, nil
}

func (c *Client) IsRegistered(ctx context.Context, eventID string) (bool, error) {
	reg, err := c.registration(ctx, eventID)
	return reg != nil, err
}

// CancelForEvent cancels the caller's registration for an event, looked up by registration id.
func (c *Client) CancelForEvent(ctx context.Context, eventID string) error {
	reg, err := c.registration(ctx, eventID)
	if err != nil {
		return err
	}
	if reg == nil {
		return fmt.Errorf("no registration for event %s: %w", eventID, apperr.ErrNotFound)
	}
	return c.CancelRegistration(ctx, reg.ID)
}
