// Package session holds the client-side authentication state: the bearer
// token, the logged-in pilot, and the capability set gating admin actions.
package session

import (
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// PilotSummary is the logged-in pilot as delivered by the auth endpoints.
type PilotSummary struct {
	ID          int64    `json:"id"`
	Callsign    string   `json:"callsign"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	Email       string   `json:"email"`
	Rank        string   `json:"rank"`
	Hub         string   `json:"hub"`
	Airline     string   `json:"airline"`
	Hours       float64  `json:"hours"`
	Permissions []string `json:"permissions"`
}

// DisplayName returns the pilot's name with callsign when available.
func (p PilotSummary) DisplayName() string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if p.Callsign == "" {
		return name
	}
	if name == "" {
		return p.Callsign
	}
	return name + " (" + p.Callsign + ")"
}

// Store coordinates concurrent access to the session. A session begins on
// successful login/register and ends on logout, account deletion, or the
// first 401 from the API, whichever comes first.
type Store struct {
	mu     sync.RWMutex
	token  string
	pilot  PilotSummary
	caps   map[string]struct{}
	active bool
	hooks  []func()
}

// New returns an empty, unauthenticated store.
func New() *Store {
	return &Store{}
}

// OnInvalidate registers a hook fired exactly once per session when the
// session is invalidated. Hooks run outside the store lock.
func (s *Store) OnInvalidate(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, fn)
}

// Begin installs a new session, replacing any previous one.
func (s *Store) Begin(token string, pilot PilotSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.pilot = pilot
	s.caps = make(map[string]struct{}, len(pilot.Permissions))
	for _, name := range pilot.Permissions {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		s.caps[name] = struct{}{}
	}
	s.active = true
}

// Invalidate ends the session. Calling it on an inactive store is a no-op,
// so a burst of concurrent 401 responses invalidates exactly once.
func (s *Store) Invalidate() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.token = ""
	s.pilot = PilotSummary{}
	s.caps = nil
	s.active = false
	hooks := s.hooks
	s.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

// Token returns the bearer token, or empty when unauthenticated.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a session is active.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Pilot returns a copy of the current pilot summary.
func (s *Store) Pilot() PilotSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pilot
}

// Has reports whether the session carries the named capability. The
// capability set is an immutable snapshot taken at login.
func (s *Store) Has(capability string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.active {
		return false
	}
	_, ok := s.caps[capability]
	return ok
}

// ExpiresAt returns the token's expiry claim, or the zero time when the
// token is absent, opaque, or carries no expiry.
func (s *Store) ExpiresAt() time.Time {
	return TokenExpiry(s.Token())
}

// TokenExpiry extracts the exp claim from a JWT without verifying the
// signature. Verification is the server's job; the client only uses the
// claim to log out proactively instead of waiting for a 401.
func TokenExpiry(token string) time.Time {
	if strings.TrimSpace(token) == "" {
		return time.Time{}
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
