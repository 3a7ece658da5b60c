package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/baharkarakas/event-hub/internal/validate"
)

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	MinPasswordLen = 6
	MaxPasswordLen = 72 // bcrypt input limit, in bytes
)

const MinUsernameLen = 3

func (u *User) Validate() error {
	if u.Role == "" {
		u.Role = RoleStandard
	}
	return validate.Collect(
		validate.MinLen("username", strings.TrimSpace(u.Username), MinUsernameLen),
		validate.Check("email", emailRe.MatchString(u.Email), "invalid email"),
	)
}

// Descriptor is the user view handed to clients at login.
type Descriptor struct {
	ID       string `json:"userId"`
	Username string `json:"name"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

func (u User) Descriptor() Descriptor {
	return Descriptor{ID: u.ID, Username: u.Username, Email: u.Email, Role: ParseRole(string(u.Role))}
}

// UserRef is the embedded organizer shape on events.
type UserRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}
