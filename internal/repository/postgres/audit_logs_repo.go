package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/baharkarakas/event-hub/internal/db"
	"github.com/baharkarakas/event-hub/internal/models"
	"github.com/baharkarakas/event-hub/internal/repository"
)

type auditLogsRepo struct{ q db.Querier }

func NewAuditLogs(q db.Querier) repository.AuditLogs { return &auditLogsRepo{q: q} }

func (r *auditLogsRepo) Create(ctx context.Context, l models.AuditLog) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	_, err := r.q.Exec(ctx,
		`INSERT INTO audit_logs(id, entity_type, entity_id, actor_id, action, details) VALUES($1,$2,$3,$4,$5,$6)`,
		l.ID, l.EntityType, l.EntityID, l.ActorID, l.Action, l.Details,
	)
	return wrap("create audit log", err, nil)
}
