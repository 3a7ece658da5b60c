package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/baharkarakas/event-hub/internal/apperr"
	"github.com/baharkarakas/event-hub/internal/auth"
	"github.com/baharkarakas/event-hub/internal/metrics"
	"github.com/baharkarakas/event-hub/internal/models"
	repo "github.com/baharkarakas/event-hub/internal/repository"
	"github.com/baharkarakas/event-hub/internal/validate"
)

type AuthService struct {
	users  repo.Users
	tm     *auth.TokenManager
	rev    auth.Revoker
	admins map[string]bool
}

func NewAuthService(users repo.Users, tm *auth.TokenManager, rev auth.Revoker, adminEmails []string) *AuthService {
	admins := make(map[string]bool, len(adminEmails))
	for _, e := range adminEmails {
		admins[strings.ToLower(strings.TrimSpace(e))] = true
	}
	return &AuthService{users: users, tm: tm, rev: rev, admins: admins}
}

type LoginResult struct {
	Token     string            `json:"token"`
	User      models.Descriptor `json:"user"`
	ExpiresAt time.Time         `json:"expiresAt"`
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (models.User, error) {
	u := models.User{
		Username: strings.TrimSpace(username),
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Role:     models.RoleStandard,
	}
	if s.admins[u.Email] {
		u.Role = models.RoleAdmin
	}

	var errs validate.Errs
	if err := u.Validate(); err != nil {
		errors.As(err, &errs)
	}
	for _, f := range []*validate.ErrField{
		validate.MinLen("password", password, models.MinPasswordLen),
		validate.Check("password", len(password) <= models.MaxPasswordLen, "too long"),
	} {
		if f != nil {
			errs = append(errs, *f)
		}
	}
	if len(errs) > 0 {
		return models.User{}, apperr.Validation(errs)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = hash
	return s.users.Create(ctx, u)
}

// Login issues a token only when both the email and the password match.
func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return LoginResult{}, apperr.ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	if err := auth.VerifyPassword(password, u.PasswordHash); err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return LoginResult{}, apperr.ErrInvalidCredentials
	}

	token, exp, err := s.tm.Generate(u.ID, u.Role)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return LoginResult{Token: token, User: u.Descriptor(), ExpiresAt: exp}, nil
}

// Authenticate validates a bearer token and checks it was not logged out.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.tm.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrUnauthorized, err)
	}
	if s.rev != nil && claims.ID != "" {
		revoked, err := s.rev.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("revocation check: %w", err)
		}
		if revoked {
			return nil, fmt.Errorf("%w: token revoked", apperr.ErrUnauthorized)
		}
	}
	return claims, nil
}

// Logout denylists the token for whatever lifetime it has left.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if s.rev == nil || claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	return s.rev.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
}

func (s *AuthService) Me(ctx context.Context, userID string) (models.User, error) {
	return s.users.GetByID(ctx, userID)
}
