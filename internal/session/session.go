// Package session holds server-side sessions addressed by an opaque
// token, each owning its shopping cart. Sessions start anonymous,
// may be bound to an authenticated identity, and are destroyed as a
// unit: no cart survives its session.
package session

import (
	"sync"
	"time"

	"github.com/reliwe/storefront/internal/cart"
	"github.com/reliwe/storefront/internal/models"
)

// Identity is the user binding captured at login. Role is a snapshot:
// a later demotion or promotion takes effect on next login only.
type Identity struct {
	UserID int64
	Email  string
	Role   models.Role
}

// Session binds an opaque client token to an optional identity and a
// cart for the duration of one visit.
type Session struct {
	Token     string
	CreatedAt time.Time

	mu       sync.Mutex
	identity Identity
	bound    bool
	lastSeen time.Time
	cart     *cart.Cart
}

// Bind attaches an authenticated identity, snapshotting the role.
func (s *Session) Bind(user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = Identity{UserID: user.ID, Email: user.Email, Role: user.Role}
	s.bound = true
}

// Identity returns the bound identity, if any.
func (s *Session) Identity() (Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity, s.bound
}

// Authenticated reports whether an identity is bound.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bound
}

// IsAdmin reports whether the role snapshot is admin.
func (s *Session) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bound && s.identity.Role == models.RoleAdmin
}

// Cart returns the session's cart.
func (s *Session) Cart() *cart.Cart {
	return s.cart
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

func (s *Session) expired(now time.Time, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen) > ttl
}
