package repository

import (
	"context"

	"github.com/baharkarakas/event-hub/internal/models"
)

// Lookups return apperr.ErrNotFound when no row matches.

type Users interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	Exists(ctx context.Context, id string) (bool, error)
}

type Events interface {
	Create(ctx context.Context, e models.Event) (models.Event, error)
	GetByID(ctx context.Context, id string) (models.Event, error)
	List(ctx context.Context) ([]models.Event, error)
	ListOnDate(ctx context.Context, d models.Date) ([]models.Event, error)
	ListForUser(ctx context.Context, userID string) ([]models.Event, error)
	Update(ctx context.Context, e models.Event) (models.Event, error)
	Delete(ctx context.Context, id string) error
}

type Registrations interface {
	// Create returns apperr.ErrAlreadyRegistered on a duplicate (user, event) pair.
	Create(ctx context.Context, userID, eventID string) (models.Registration, error)
	GetByID(ctx context.Context, id string) (models.Registration, error)
	Find(ctx context.Context, userID, eventID string) (models.Registration, error)
	ListByEvent(ctx context.Context, eventID string) ([]models.Registration, error)
	Delete(ctx context.Context, id string) error
}

type AuditLogs interface {
	Create(ctx context.Context, l models.AuditLog) error
}
