package postgres

import (
	"github.com/baharkarakas/event-hub/internal/db"
	repo "github.com/baharkarakas/event-hub/internal/repository"
)

type Repositories struct {
	Users         repo.Users
	Events        repo.Events
	Registrations repo.Registrations
	AuditLogs     repo.AuditLogs
}

func NewRepositories(q db.Querier) Repositories {
	return Repositories{
		Users:         &usersRepo{q},
		Events:        &eventsRepo{q},
		Registrations: &registrationsRepo{q},
		AuditLogs:     &auditLogsRepo{q},
	}
}
