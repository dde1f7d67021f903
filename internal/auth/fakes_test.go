package auth

import (
	"context"
	"sync"
	"time"

	"github.com/reliwe/storefront/internal/logging"
	"github.com/reliwe/storefront/internal/models"
	"github.com/reliwe/storefront/internal/storage"
)

// fakeActivityStore keeps audit entries in memory and answers the
// rate limiter's window counts from them.
type fakeActivityStore struct {
	mu        sync.Mutex
	entries   []models.ActivityEntry
	appendErr error
	countErr  error
	now       func() time.Time
}

func newFakeActivity() *fakeActivityStore {
	return &fakeActivityStore{now: time.Now}
}

func (f *fakeActivityStore) Append(_ context.Context, e models.ActivityEntry) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	e.CreatedAt = f.now()
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeActivityStore) CountFailedLoginsByEmail(_ context.Context, email string, since time.Time) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.entries {
		if e.ActionType == models.ActionFailedLogin && e.SubjectEmail == email && e.CreatedAt.After(since) {
			n++
		}
	}
	return n, nil
}

func (f *fakeActivityStore) CountFailedLoginsByIP(_ context.Context, ip string, since time.Time) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.entries {
		if e.ActionType == models.ActionFailedLogin && e.IPAddress == ip && e.CreatedAt.After(since) {
			n++
		}
	}
	return n, nil
}

func (f *fakeActivityStore) ListRecent(_ context.Context, limit int) ([]models.ActivityEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.ActivityEntry, len(f.entries))
	copy(out, f.entries)
	return out, nil
}

func (f *fakeActivityStore) byAction(action models.ActionType) []models.ActivityEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ActivityEntry
	for _, e := range f.entries {
		if e.ActionType == action {
			out = append(out, e)
		}
	}
	return out
}

// fakeUserStore is an in-memory storage.UserStore with injectable
// failures.
type fakeUserStore struct {
	mu         sync.Mutex
	nextID     int64
	byEmail    map[string]models.User
	profiles   map[int64]models.Profile
	createErr  error
	findErr    error
	existsErr  error
	profileErr error
}

func newFakeUsers() *fakeUserStore {
	return &fakeUserStore{
		nextID:   1,
		byEmail:  make(map[string]models.User),
		profiles: make(map[int64]models.Profile),
	}
}

func (f *fakeUserStore) CreateUser(_ context.Context, user models.User, profile models.Profile) (models.User, error) {
	if f.createErr != nil {
		return models.User{}, f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, dup := f.byEmail[user.Email]; dup {
		return models.User{}, storage.ErrAlreadyExists
	}
	// Both rows or neither, like the real transaction.
	if f.profileErr != nil {
		return models.User{}, f.profileErr
	}
	user.ID = f.nextID
	f.nextID++
	user.CreatedAt = time.Now()
	f.byEmail[user.Email] = user
	profile.UserID = user.ID
	f.profiles[user.ID] = profile
	return user, nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	if f.findErr != nil {
		return models.User{}, f.findErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byEmail[email]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) FindByID(_ context.Context, id int64) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

func (f *fakeUserStore) EmailExists(_ context.Context, email string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.byEmail[email]
	return ok, nil
}

func (f *fakeUserStore) UpdateLastLogin(_ context.Context, id int64, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for email, u := range f.byEmail {
		if u.ID == id {
			u.LastLoginAt = &at
			f.byEmail[email] = u
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeUserStore) UpdateStatus(_ context.Context, id int64, status models.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for email, u := range f.byEmail {
		if u.ID == id {
			u.Status = status
			f.byEmail[email] = u
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeUserStore) UpdateRole(_ context.Context, id int64, role models.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for email, u := range f.byEmail {
		if u.ID == id {
			u.Role = role
			f.byEmail[email] = u
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeUserStore) ListUsers(_ context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for _, u := range f.byEmail {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserStore) CountActiveByRole(_ context.Context) (map[models.Role]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[models.Role]int)
	for _, u := range f.byEmail {
		if u.Status == models.StatusActive {
			counts[u.Role]++
		}
	}
	return counts, nil
}

type nopLogger struct{}

func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger          { return n }
