package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/baharkarakas/event-hub/internal/apperr"
	"github.com/baharkarakas/event-hub/internal/metrics"
	"github.com/baharkarakas/event-hub/internal/models"
	repo "github.com/baharkarakas/event-hub/internal/repository"
	"github.com/baharkarakas/event-hub/internal/validate"
)

const MaxImageSize = 5 << 20

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

type EventService struct {
	events repo.Events
	regs   repo.Registrations
	users  repo.Users
	images ImageStore
	audit  auditor
}

func NewEventService(events repo.Events, regs repo.Registrations, users repo.Users, audit repo.AuditLogs, images ImageStore) *EventService {
	return &EventService{events: events, regs: regs, users: users, images: images, audit: auditor{audit}}
}

func (s *EventService) Create(ctx context.Context, in models.EventInput, actor models.Actor) (models.Event, error) {
	if !actor.Role.Can(models.CapCreateEvent) {
		return models.Event{}, apperr.ErrForbidden
	}
	var e models.Event
	in.Apply(&e)
	if err := e.Validate(); err != nil {
		return models.Event{}, apperr.Validation(err)
	}

	ok, err := s.users.Exists(ctx, actor.UserID)
	if err != nil {
		return models.Event{}, err
	}
	if !ok {
		return models.Event{}, fmt.Errorf("organizer %s: %w", actor.UserID, apperr.ErrNotFound)
	}
	e.OrganizerID = actor.UserID

	created, err := s.events.Create(ctx, e)
	if err != nil {
		return models.Event{}, err
	}
	metrics.EventsTotal.WithLabelValues("create").Inc()
	s.audit.record(ctx, "event", created.ID, actor, "create", map[string]any{"title": created.Title})
	return created, nil
}

// Get returns the event with its organizer and registrations.
func (s *EventService) Get(ctx context.Context, id string) (models.Event, error) {
	e, err := s.events.GetByID(ctx, id)
	if err != nil {
		return models.Event{}, err
	}
	regs, err := s.regs.ListByEvent(ctx, id)
	if err != nil {
		return models.Event{}, err
	}
	e.Registrations = regs
	return e, nil
}

func (s *EventService) List(ctx context.Context, f models.EventFilter) ([]models.Event, error) {
	if f.Type != "" && !f.Type.Valid() {
		return nil, apperr.Validation(validate.Errs{{Field: "type", Msg: "unknown event type"}})
	}
	all, err := s.events.List(ctx)
	if err != nil {
		return nil, err
	}
	return f.Apply(all), nil
}

// manageable loads the event and checks the actor is its organizer or an admin.
func (s *EventService) manageable(ctx context.Context, id string, actor models.Actor) (models.Event, error) {
	e, err := s.events.GetByID(ctx, id)
	if err != nil {
		return models.Event{}, err
	}
	if !actor.Owns(e.OrganizerID, models.CapManageAnyEvent) {
		return models.Event{}, apperr.ErrForbidden
	}
	return e, nil
}

func (s *EventService) Update(ctx context.Context, id string, in models.EventInput, actor models.Actor) (models.Event, error) {
	e, err := s.manageable(ctx, id, actor)
	if err != nil {
		return models.Event{}, err
	}
	in.Apply(&e)
	if err := e.Validate(); err != nil {
		return models.Event{}, apperr.Validation(err)
	}
	updated, err := s.events.Update(ctx, e)
	if err != nil {
		return models.Event{}, err
	}
	metrics.EventsTotal.WithLabelValues("update").Inc()
	s.audit.record(ctx, "event", id, actor, "update", nil)
	return updated, nil
}

func (s *EventService) Delete(ctx context.Context, id string, actor models.Actor) error {
	e, err := s.manageable(ctx, id, actor)
	if err != nil {
		return err
	}
	if err := s.events.Delete(ctx, id); err != nil {
		return err
	}
	s.dropImage(ctx, e.ImageURL)
	metrics.EventsTotal.WithLabelValues("delete").Inc()
	s.audit.record(ctx, "event", id, actor, "delete", nil)
	return nil
}

type Image struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// SetImage uploads the image under events/<id>/ and points the event at it.
func (s *EventService) SetImage(ctx context.Context, id string, img Image, actor models.Actor) (models.Event, error) {
	if s.images == nil {
		return models.Event{}, fmt.Errorf("image storage not configured")
	}
	e, err := s.manageable(ctx, id, actor)
	if err != nil {
		return models.Event{}, err
	}

	ext := strings.ToLower(path.Ext(img.Filename))
	var errs validate.Errs
	if !imageExts[ext] {
		errs = append(errs, validate.ErrField{Field: "image", Msg: "unsupported file type"})
	}
	if img.Size <= 0 || img.Size > MaxImageSize {
		errs = append(errs, validate.ErrField{Field: "image", Msg: "must be at most 5MB"})
	}
	if len(errs) > 0 {
		return models.Event{}, apperr.Validation(errs)
	}

	key := fmt.Sprintf("events/%s/%s%s", id, uuid.NewString(), ext)
	url, err := s.images.Put(ctx, key, img.ContentType, img.Body, img.Size)
	if err != nil {
		return models.Event{}, fmt.Errorf("store image: %w", err)
	}
	previous := e.ImageURL
	e.ImageURL = &url
	updated, err := s.events.Update(ctx, e)
	if err != nil {
		s.dropImage(ctx, &url)
		return models.Event{}, err
	}
	s.dropImage(ctx, previous)
	metrics.EventsTotal.WithLabelValues("image").Inc()
	s.audit.record(ctx, "event", id, actor, "image", map[string]any{"key": key})
	return updated, nil
}

// dropImage removes a stored image; a failure only leaves an orphaned object behind.
func (s *EventService) dropImage(ctx context.Context, url *string) {
	if s.images == nil || url == nil || *url == "" {
		return
	}
	if err := s.images.Remove(ctx, *url); err != nil {
		slog.WarnContext(ctx, "remove image", "url", *url, "err", err)
	}
}
