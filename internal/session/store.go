package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/reliwe/storefront/internal/cart"
	"github.com/reliwe/storefront/internal/logging"
)

// Store keeps all live sessions keyed by token. Unrelated sessions
// share no lock beyond the map guard; per-session state is serialized
// by the session's own mutex.
type Store struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore builds a session store with the given idle TTL.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Store{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Create mints a fresh anonymous session with an empty cart.
func (st *Store) Create() *Session {
	now := st.now()
	s := &Session{
		Token:     uuid.NewString(),
		CreatedAt: now,
		lastSeen:  now,
		cart:      cart.New(),
	}
	st.mu.Lock()
	st.sessions[s.Token] = s
	st.mu.Unlock()
	return s
}

// Get returns the live session for a token, touching its idle timer.
// Expired sessions are dropped on access.
func (st *Store) Get(token string) (*Session, bool) {
	st.mu.RLock()
	s, ok := st.sessions[token]
	st.mu.RUnlock()
	if !ok {
		return nil, false
	}

	now := st.now()
	if s.expired(now, st.ttl) {
		st.Destroy(token)
		return nil, false
	}
	s.touch(now)
	return s, true
}

// Destroy removes a session and its cart together.
func (st *Store) Destroy(token string) {
	st.mu.Lock()
	delete(st.sessions, token)
	st.mu.Unlock()
}

// PurgeExpired drops every session idle past the TTL and returns how
// many were removed.
func (st *Store) PurgeExpired() int {
	now := st.now()

	st.mu.Lock()
	defer st.mu.Unlock()
	purged := 0
	for token, s := range st.sessions {
		if s.expired(now, st.ttl) {
			delete(st.sessions, token)
			purged++
		}
	}
	return purged
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// RunJanitor purges expired sessions on an interval until the context
// is canceled.
func (st *Store) RunJanitor(ctx context.Context, interval time.Duration, logger logging.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := st.PurgeExpired(); n > 0 {
				logger.Info(ctx, "purged expired sessions", "count", n)
			}
		}
	}
}
