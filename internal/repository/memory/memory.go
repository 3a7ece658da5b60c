// Package memory is an in-process implementation of the repository interfaces backed by maps.
// It follows the Postgres schema's rules: unique emails, one registration per (user, event),
// and registrations removed along with their event.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/baharkarakas/event-hub/internal/apperr"
	"github.com/baharkarakas/event-hub/internal/models"
	repo "github.com/baharkarakas/event-hub/internal/repository"
)

type Store struct {
	mu     sync.RWMutex
	users  map[string]models.User
	events map[string]models.Event
	regs   map[string]models.Registration
	audit  []models.AuditLog
	now    func() time.Time
}

func New() *Store {
	return &Store{
		users:  map[string]models.User{},
		events: map[string]models.Event{},
		regs:   map[string]models.Registration{},
		now:    time.Now,
	}
}

func (s *Store) Users() repo.Users                 { return usersRepo{s} }
func (s *Store) Events() repo.Events               { return eventsRepo{s} }
func (s *Store) Registrations() repo.Registrations { return registrationsRepo{s} }
func (s *Store) AuditLogs() repo.AuditLogs         { return auditRepo{s} }

// Audit returns a copy of the recorded audit entries.
func (s *Store) Audit() []models.AuditLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.AuditLog(nil), s.audit...)
}

func notFound(what, id string) error { return fmt.Errorf("%s %s: %w", what, id, apperr.ErrNotFound) }

type usersRepo struct{ s *Store }

func (r usersRepo) Create(_ context.Context, u models.User) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return models.User{}, fmt.Errorf("create user: %w", apperr.ErrConflict)
		}
	}
	now := r.s.now()
	u.ID = uuid.NewString()
	u.Role = models.ParseRole(string(u.Role))
	u.CreatedAt, u.UpdatedAt = now, now
	r.s.users[u.ID] = u
	return u, nil
}

func (r usersRepo) GetByID(_ context.Context, id string) (models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return models.User{}, notFound("user", id)
	}
	return u, nil
}

func (r usersRepo) GetByEmail(_ context.Context, email string) (models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return models.User{}, notFound("user", email)
}

func (r usersRepo) Exists(_ context.Context, id string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.users[id]
	return ok, nil
}

type eventsRepo struct{ s *Store }

// withOrganizer mirrors the join the SQL repository does. Caller holds the lock.
func (r eventsRepo) withOrganizer(e models.Event) models.Event {
	if u, ok := r.s.users[e.OrganizerID]; ok {
		e.Organizer = &models.UserRef{ID: u.ID, Username: u.Username, Email: u.Email}
	}
	e.Registrations = nil
	return e
}

func (r eventsRepo) Create(_ context.Context, e models.Event) (models.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[e.OrganizerID]; !ok {
		return models.Event{}, notFound("organizer", e.OrganizerID)
	}
	now := r.s.now()
	e.ID = uuid.NewString()
	e.CreatedAt, e.UpdatedAt = now, now
	r.s.events[e.ID] = e
	return r.withOrganizer(e), nil
}

func (r eventsRepo) GetByID(_ context.Context, id string) (models.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.events[id]
	if !ok {
		return models.Event{}, notFound("event", id)
	}
	return r.withOrganizer(e), nil
}

func (r eventsRepo) filter(keep func(models.Event) bool) []models.Event {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.Event{}
	for _, e := range r.s.events {
		if keep(e) {
			out = append(out, r.withOrganizer(e))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.Before(out[j].Date.Time)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (r eventsRepo) List(_ context.Context) ([]models.Event, error) {
	return r.filter(func(models.Event) bool { return true }), nil
}

func (r eventsRepo) ListOnDate(_ context.Context, d models.Date) ([]models.Event, error) {
	return r.filter(func(e models.Event) bool { return e.Date.Equal(d.Time) }), nil
}

func (r eventsRepo) ListForUser(_ context.Context, userID string) ([]models.Event, error) {
	r.s.mu.RLock()
	ids := map[string]bool{}
	for _, reg := range r.s.regs {
		if reg.UserID == userID {
			ids[reg.EventID] = true
		}
	}
	r.s.mu.RUnlock()
	return r.filter(func(e models.Event) bool { return ids[e.ID] }), nil
}

func (r eventsRepo) Update(_ context.Context, e models.Event) (models.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.events[e.ID]
	if !ok {
		return models.Event{}, notFound("event", e.ID)
	}
	e.OrganizerID = cur.OrganizerID
	e.CreatedAt = cur.CreatedAt
	e.UpdatedAt = r.s.now()
	r.s.events[e.ID] = e
	return r.withOrganizer(e), nil
}

func (r eventsRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.events[id]; !ok {
		return notFound("event", id)
	}
	delete(r.s.events, id)
	for rid, reg := range r.s.regs {
		if reg.EventID == id {
			delete(r.s.regs, rid)
		}
	}
	return nil
}

type registrationsRepo struct{ s *Store }

func (r registrationsRepo) Create(_ context.Context, userID, eventID string) (models.Registration, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, reg := range r.s.regs {
		if reg.UserID == userID && reg.EventID == eventID {
			return models.Registration{}, fmt.Errorf("create registration: %w", apperr.ErrAlreadyRegistered)
		}
	}
	if _, ok := r.s.events[eventID]; !ok {
		return models.Registration{}, notFound("event", eventID)
	}
	if _, ok := r.s.users[userID]; !ok {
		return models.Registration{}, notFound("user", userID)
	}
	reg := models.Registration{ID: uuid.NewString(), UserID: userID, EventID: eventID, CreatedAt: r.s.now()}
	r.s.regs[reg.ID] = reg
	return reg, nil
}

func (r registrationsRepo) GetByID(_ context.Context, id string) (models.Registration, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	reg, ok := r.s.regs[id]
	if !ok {
		return models.Registration{}, notFound("registration", id)
	}
	return reg, nil
}

func (r registrationsRepo) Find(_ context.Context, userID, eventID string) (models.Registration, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, reg := range r.s.regs {
		if reg.UserID == userID && reg.EventID == eventID {
			return reg, nil
		}
	}
	return models.Registration{}, notFound("registration", userID+"/"+eventID)
}

func (r registrationsRepo) ListByEvent(_ context.Context, eventID string) ([]models.Registration, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.Registration{}
	for _, reg := range r.s.regs {
		if reg.EventID == eventID {
			out = append(out, reg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r registrationsRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.regs[id]; !ok {
		return notFound("registration", id)
	}
	delete(r.s.regs, id)
	return nil
}

type auditRepo struct{ s *Store }

func (r auditRepo) Create(_ context.Context, l models.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	l.CreatedAt = r.s.now()
	r.s.audit = append(r.s.audit, l)
	return nil
}
