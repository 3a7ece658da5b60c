package services

import (
	"context"
	"io"
	"log/slog"

	"github.com/baharkarakas/event-hub/internal/models"
	repo "github.com/baharkarakas/event-hub/internal/repository"
)

// Notifier delivers registration mail. Implementations may be slow; callers run them on the worker pool.
type Notifier interface {
	RegistrationConfirmed(ctx context.Context, u models.User, e models.Event) error
	EventReminder(ctx context.Context, u models.User, e models.Event) error
}

// ImageStore persists event images and returns their public URL.
// Remove takes a URL previously returned by Put; unknown URLs are ignored.
type ImageStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	Remove(ctx context.Context, url string) error
}

// auditor writes best-effort audit entries; failures are logged and swallowed.
type auditor struct{ log repo.AuditLogs }

func (a auditor) record(ctx context.Context, entity, id string, actor models.Actor, action string, details map[string]any) {
	if a.log == nil {
		return
	}
	if err := a.log.Create(ctx, models.NewAuditLog(entity, id, actor.UserID, action, details)); err != nil {
		slog.WarnContext(ctx, "audit log failed", "entity", entity, "id", id, "action", action, "err", err)
	}
}
