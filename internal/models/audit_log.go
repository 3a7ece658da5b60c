package models

import "time"

type AuditLog struct {
	ID         string         `json:"id"`
	EntityType string         `json:"entityType"` // event|registration|user
	EntityID   *string        `json:"entityId"`
	ActorID    *string        `json:"actorId"`
	Action     string         `json:"action"`
	Details    map[string]any `json:"details"`
	CreatedAt  time.Time      `json:"createdAt"`
}

func NewAuditLog(entity, id, actor, action string, details map[string]any) AuditLog {
	l := AuditLog{EntityType: entity, Action: action, Details: details}
	if id != "" {
		l.EntityID = &id
	}
	if actor != "" {
		l.ActorID = &actor
	}
	if l.Details == nil {
		l.Details = map[string]any{}
	}
	return l
}
