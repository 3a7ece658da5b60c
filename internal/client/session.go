// Package client is the consumer side of the API: a persisted session, a route guard
// over it, and an HTTP client that attaches the session token to every call.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/baharkarakas/event-hub/internal/models"
)

// Session is what a successful login leaves behind.
type Session struct {
	Token string
	User  models.Descriptor
}

// SessionStore persists the session under two named keys, one for the token and one for the user.
type SessionStore interface {
	Load(ctx context.Context) (Session, bool, error)
	Save(ctx context.Context, s Session) error
	Clear(ctx context.Context) error
}

type Keys struct {
	Token string
	User  string
}

var DefaultKeys = Keys{Token: "token", User: "user"}

// kv is the raw two-key storage both stores share.
type kv interface {
	get(ctx context.Context, key string) (string, bool, error)
	set(ctx context.Context, key, value string) error
	del(ctx context.Context, keys ...string) error
}

func load(ctx context.Context, s kv, k Keys) (Session, bool, error) {
	tok, ok, err := s.get(ctx, k.Token)
	if err != nil || !ok || tok == "" {
		return Session{}, false, err
	}
	raw, ok, err := s.get(ctx, k.User)
	if err != nil || !ok {
		return Session{}, false, err
	}
	var u models.Descriptor
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return Session{}, false, fmt.Errorf("decode stored user: %w", err)
	}
	u.Role = models.ParseRole(string(u.Role))
	return Session{Token: tok, User: u}, true, nil
}

func save(ctx context.Context, s kv, k Keys, sess Session) error {
	b, err := json.Marshal(sess.User)
	if err != nil {
		return err
	}
	if err := s.set(ctx, k.Token, sess.Token); err != nil {
		return err
	}
	return s.set(ctx, k.User, string(b))
}

type MemoryStore struct {
	mu   sync.Mutex
	keys Keys
	m    map[string]string
}

func NewMemoryStore(k Keys) *MemoryStore {
	return &MemoryStore{keys: k, m: map[string]string{}}
}

func (s *MemoryStore) Load(ctx context.Context) (Session, bool, error) { return load(ctx, s, s.keys) }
func (s *MemoryStore) Save(ctx context.Context, sess Session) error    { return save(ctx, s, s.keys, sess) }
func (s *MemoryStore) Clear(ctx context.Context) error                 { return s.del(ctx, s.keys.Token, s.keys.User) }

func (s *MemoryStore) get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *MemoryStore) set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

func (s *MemoryStore) del(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.m, k)
	}
	return nil
}
