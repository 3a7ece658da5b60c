package models

import "time"

type Registration struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	EventID   string    `json:"eventId"`
	CreatedAt time.Time `json:"createdAt"`
}

type RegistrationState string

const (
	NotRegistered RegistrationState = "not-registered"
	Registered    RegistrationState = "registered"
)

// StateFor derives the per-user state from an event's registrations.
func StateFor(regs []Registration, userID string) (RegistrationState, *Registration) {
	for i := range regs {
		if regs[i].UserID == userID {
			return Registered, &regs[i]
		}
	}
	return NotRegistered, nil
}
