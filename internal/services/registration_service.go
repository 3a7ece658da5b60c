package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/baharkarakas/event-hub/internal/apperr"
	"github.com/baharkarakas/event-hub/internal/metrics"
	"github.com/baharkarakas/event-hub/internal/models"
	repo "github.com/baharkarakas/event-hub/internal/repository"
	"github.com/baharkarakas/event-hub/internal/validate"
	"github.com/baharkarakas/event-hub/internal/worker"
)

const notifyTimeout = 30 * time.Second

type RegistrationService struct {
	regs   repo.Registrations
	events repo.Events
	users  repo.Users
	audit  auditor
	notify Notifier
	wp     *worker.Pool
}

// NewRegistrationService wires the ledger; notifier and pool may be nil, in which case no mail is sent.
func NewRegistrationService(regs repo.Registrations, events repo.Events, users repo.Users, audit repo.AuditLogs, n Notifier, wp *worker.Pool) *RegistrationService {
	return &RegistrationService{regs: regs, events: events, users: users, audit: auditor{audit}, notify: n, wp: wp}
}

func (s *RegistrationService) Register(ctx context.Context, eventID, userID string, actor models.Actor) (models.Registration, error) {
	eventID, userID = strings.TrimSpace(eventID), strings.TrimSpace(userID)
	if userID == "" {
		userID = actor.UserID
	}
	if err := validate.Collect(validate.Required("eventId", eventID)); err != nil {
		return models.Registration{}, apperr.Validation(err)
	}
	if !actor.Owns(userID, models.CapManageAnyRegistration) {
		return models.Registration{}, apperr.ErrForbidden
	}

	e, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return models.Registration{}, err
	}
	ok, err := s.users.Exists(ctx, userID)
	if err != nil {
		return models.Registration{}, err
	}
	if !ok {
		return models.Registration{}, fmt.Errorf("user %s: %w", userID, apperr.ErrNotFound)
	}
	_, err = s.regs.Find(ctx, userID, eventID)
	switch {
	case err == nil:
		return models.Registration{}, apperr.ErrAlreadyRegistered
	case !errors.Is(err, apperr.ErrNotFound):
		return models.Registration{}, err
	}

	reg, err := s.regs.Create(ctx, userID, eventID)
	if err != nil {
		return models.Registration{}, err
	}
	metrics.RegistrationsTotal.WithLabelValues("register").Inc()
	s.audit.record(ctx, "registration", reg.ID, actor, "register", map[string]any{"eventId": eventID, "userId": userID})
	s.confirm(userID, e)
	return reg, nil
}

// confirm queues the confirmation mail; delivery failures never fail the registration.
func (s *RegistrationService) confirm(userID string, e models.Event) {
	if s.notify == nil || s.wp == nil {
		return
	}
	s.wp.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		u, err := s.users.GetByID(ctx, userID)
		if err != nil {
			slog.Warn("confirmation: load user", "user_id", userID, "err", err)
			return
		}
		if err := s.notify.RegistrationConfirmed(ctx, u, e); err != nil {
			slog.Warn("confirmation mail failed", "user_id", userID, "event_id", e.ID, "err", err)
		}
	})
}

func (s *RegistrationService) Cancel(ctx context.Context, registrationID string, actor models.Actor) error {
	reg, err := s.regs.GetByID(ctx, registrationID)
	if err != nil {
		return err
	}
	if !actor.Owns(reg.UserID, models.CapManageAnyRegistration) {
		return apperr.ErrForbidden
	}
	if err := s.regs.Delete(ctx, reg.ID); err != nil {
		return err
	}
	metrics.RegistrationsTotal.WithLabelValues("cancel").Inc()
	s.audit.record(ctx, "registration", reg.ID, actor, "cancel", map[string]any{"eventId": reg.EventID})
	return nil
}

// ListForUser returns the events a user is registered for.
func (s *RegistrationService) ListForUser(ctx context.Context, userID string, actor models.Actor) ([]models.Event, error) {
	if !actor.Owns(userID, models.CapViewAnyUser) {
		return nil, apperr.ErrForbidden
	}
	return s.events.ListForUser(ctx, userID)
}

func (s *RegistrationService) IsRegistered(ctx context.Context, eventID, userID string) (bool, error) {
	regs, err := s.regs.ListByEvent(ctx, eventID)
	if err != nil {
		return false, err
	}
	st, _ := models.StateFor(regs, userID)
	return st == models.Registered, nil
}

// SendReminders mails every registrant of events happening on day. It returns how many mails went out.
func (s *RegistrationService) SendReminders(ctx context.Context, day models.Date) (int, error) {
	if s.notify == nil {
		return 0, nil
	}
	events, err := s.events.ListOnDate(ctx, day)
	if err != nil {
		return 0, fmt.Errorf("reminders: %w", err)
	}
	sent := 0
	for _, e := range events {
		regs, err := s.regs.ListByEvent(ctx, e.ID)
		if err != nil {
			return sent, fmt.Errorf("reminders for %s: %w", e.ID, err)
		}
		for _, r := range regs {
			u, err := s.users.GetByID(ctx, r.UserID)
			if err != nil {
				slog.WarnContext(ctx, "reminder: load user", "user_id", r.UserID, "err", err)
				continue
			}
			if err := s.notify.EventReminder(ctx, u, e); err != nil {
				slog.WarnContext(ctx, "reminder mail failed", "user_id", u.ID, "event_id", e.ID, "err", err)
				continue
			}
			sent++
		}
	}
	return sent, nil
}
