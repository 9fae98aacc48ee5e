package fleet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// sessionKey is the fixed StateStore key the session user is persisted under.
const sessionKey = "user"

// ErrLoginSuperseded is returned when a logout lands while the login request
// is still in flight. The session stays cleared; the late login response is
// not allowed to resurrect it.
var ErrLoginSuperseded = errors.New("login superseded by logout")

// Session is the process-wide auth singleton: read by everything that gates
// on role, written only by login and logout, persisted across runs.
type Session struct {
	store StateStore
	log   Logger

	mu   sync.Mutex
	user *User
	gen  uint64 // bumped on logout; in-flight logins check it before applying
}

// NewSession creates a session backed by the given durable store.
func NewSession(store StateStore, log Logger) *Session {
	if log == nil {
		log = NewNopLogger()
	}
	return &Session{store: store, log: log}
}

// Init seeds the session from the persisted user, if any. Called once at
// startup. A corrupt persisted value is discarded, not fatal.
func (s *Session) Init() error {
	raw, ok, err := s.store.GetValue(sessionKey)
	if err != nil {
		return fmt.Errorf("reading persisted session: %w", err)
	}
	if !ok {
		return nil
	}
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		s.log.Warn("discarding corrupt persisted session", "error", err)
		_ = s.store.DeleteValue(sessionKey)
		return nil
	}
	s.mu.Lock()
	s.user = &u
	s.mu.Unlock()
	return nil
}

// Current returns a copy of the authenticated user, or nil.
func (s *Session) Current() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsAuthenticated reports whether a user is logged in.
func (s *Session) IsAuthenticated() bool {
	return s.Current() != nil
}

// Login authenticates against the API and, on success, installs and persists
// the returned user. If Logout ran while the request was in flight, the
// response is discarded and ErrLoginSuperseded is returned.
func (s *Session) Login(ctx context.Context, api API, email, password string) (User, error) {
	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()

	u, err := api.Login(ctx, email, password)
	if err != nil {
		return User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		s.log.Warn("dropping login response, session was cleared mid-flight", "email", email)
		return User{}, ErrLoginSuperseded
	}
	s.user = &u

	raw, err := json.Marshal(u)
	if err != nil {
		return User{}, fmt.Errorf("encoding session: %w", err)
	}
	if err := s.store.SetValue(sessionKey, string(raw)); err != nil {
		return User{}, fmt.Errorf("persisting session: %w", err)
	}
	s.log.Info("logged in", "user", u.ID, "role", u.Role)
	return u, nil
}

// Logout clears the session, in memory and on disk. Any login still in
// flight becomes a no-op.
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.user = nil
	if err := s.store.DeleteValue(sessionKey); err != nil {
		return fmt.Errorf("clearing persisted session: %w", err)
	}
	s.log.Info("logged out")
	return nil
}
