package models

import "strings"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleStandard Role = "standard"
)

// ParseRole normalizes a stored or transmitted role. Anything unknown is standard.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(RoleAdmin):
		return RoleAdmin
	default:
		return RoleStandard
	}
}

func (r Role) String() string { return string(r) }

type Capability int

const (
	CapCreateEvent Capability = iota
	CapManageAnyEvent
	CapManageAnyRegistration
	CapViewAnyUser
)

var capabilities = map[Role]map[Capability]bool{
	RoleAdmin: {
		CapCreateEvent:           true,
		CapManageAnyEvent:        true,
		CapManageAnyRegistration: true,
		CapViewAnyUser:           true,
	},
	RoleStandard: {},
}

func (r Role) Can(c Capability) bool { return capabilities[r][c] }

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID string
	Role   Role
}

// Owns reports whether the actor is the given user or holds the override capability.
func (a Actor) Owns(userID string, override Capability) bool {
	return a.UserID == userID || a.Role.Can(override)
}
