// Package memory provides an in-memory implementation of the storage
// interfaces, used by tests and local development.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/reliwe/storefront/internal/models"
	"github.com/reliwe/storefront/internal/storage"
)

var (
	_ storage.UserStore     = (*Store)(nil)
	_ storage.ProfileStore  = (*Store)(nil)
	_ storage.ActivityStore = (*Store)(nil)
	_ storage.ProductStore  = (*Store)(nil)
)

// Store keeps everything in maps behind one mutex.
type Store struct {
	mu       sync.Mutex
	nextID   int64
	users    map[int64]models.User
	byEmail  map[string]int64
	profiles map[int64]models.Profile
	activity []models.ActivityEntry
	products map[int64]models.Product
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		nextID:   1,
		users:    make(map[int64]models.User),
		byEmail:  make(map[string]int64),
		profiles: make(map[int64]models.Profile),
		products: make(map[int64]models.Product),
	}
}

// SeedProduct inserts or replaces a catalog product.
func (s *Store) SeedProduct(p models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

func (s *Store) CreateUser(_ context.Context, user models.User, profile models.Profile) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.byEmail[user.Email]; dup {
		return models.User{}, storage.ErrAlreadyExists
	}
	user.ID = s.nextID
	s.nextID++
	user.CreatedAt = time.Now()
	s.users[user.ID] = user
	s.byEmail[user.Email] = user.ID
	profile.UserID = user.ID
	s.profiles[user.ID] = profile
	return user, nil
}

func (s *Store) FindByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byEmail[email]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return s.users[id], nil
}

func (s *Store) FindByID(_ context.Context, id int64) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return u, nil
}

func (s *Store) EmailExists(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.byEmail[email]
	return ok, nil
}

func (s *Store) UpdateLastLogin(_ context.Context, id int64, at time.Time) error {
	return s.mutateUser(id, func(u *models.User) { u.LastLoginAt = &at })
}

func (s *Store) UpdateStatus(_ context.Context, id int64, status models.Status) error {
	return s.mutateUser(id, func(u *models.User) { u.Status = status })
}

func (s *Store) UpdateRole(_ context.Context, id int64, role models.Role) error {
	return s.mutateUser(id, func(u *models.User) { u.Role = role })
}

func (s *Store) mutateUser(id int64, fn func(*models.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	fn(&u)
	s.users[id] = u
	return nil
}

func (s *Store) ListUsers(_ context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CountActiveByRole(_ context.Context) (map[models.Role]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[models.Role]int)
	for _, u := range s.users {
		if u.Status == models.StatusActive {
			counts[u.Role]++
		}
	}
	return counts, nil
}

func (s *Store) GetProfile(_ context.Context, userID int64) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return models.Profile{}, storage.ErrNotFound
	}
	return p, nil
}

func (s *Store) UpsertProfile(_ context.Context, p models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.UserID] = p
	return nil
}

func (s *Store) Append(_ context.Context, e models.ActivityEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = int64(len(s.activity) + 1)
	e.CreatedAt = time.Now()
	s.activity = append(s.activity, e)
	return nil
}

func (s *Store) CountFailedLoginsByEmail(_ context.Context, email string, since time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.activity {
		if e.ActionType == models.ActionFailedLogin && e.SubjectEmail == email && e.CreatedAt.After(since) {
			n++
		}
	}
	return n, nil
}

func (s *Store) CountFailedLoginsByIP(_ context.Context, ip string, since time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.activity {
		if e.ActionType == models.ActionFailedLogin && e.IPAddress == ip && e.CreatedAt.After(since) {
			n++
		}
	}
	return n, nil
}

func (s *Store) ListRecent(_ context.Context, limit int) ([]models.ActivityEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ActivityEntry, 0, limit)
	for i := len(s.activity) - 1; i >= 0 && len(out) < limit; i-- {
		e := s.activity[i]
		if e.UserID != nil {
			if u, ok := s.users[*e.UserID]; ok {
				e.UserEmail = u.Email
			}
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *Store) FindActiveByIDs(_ context.Context, ids []int64) (map[int64]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	found := make(map[int64]models.Product)
	for _, id := range ids {
		if p, ok := s.products[id]; ok && p.Status == models.ProductActive {
			found[id] = p
		}
	}
	return found, nil
}

func (s *Store) ListActive(_ context.Context) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Product
	for _, p := range s.products {
		if p.Status == models.ProductActive {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
