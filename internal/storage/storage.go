package storage

import (
	"context"
	"errors"
	"time"

	"github.com/reliwe/storefront/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserStore captures account persistence operations.
type UserStore interface {
	// CreateUser inserts the user and its profile in one transaction.
	// A duplicate email yields ErrAlreadyExists whether it is caught by
	// the pre-check or by the unique constraint.
	CreateUser(ctx context.Context, user models.User, profile models.Profile) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id int64) (models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	UpdateStatus(ctx context.Context, id int64, status models.Status) error
	UpdateRole(ctx context.Context, id int64, role models.Role) error
	ListUsers(ctx context.Context) ([]models.User, error)
	CountActiveByRole(ctx context.Context) (map[models.Role]int, error)
}

// ProfileStore persists the 1:1 user profile.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID int64) (models.Profile, error)
	// UpsertProfile creates the row on first edit.
	UpsertProfile(ctx context.Context, profile models.Profile) error
}

// ActivityStore is the append-only audit sink. The rate limiter reads
// failed-login counts back out of it, so Append must be durable before
// the next CountFailedLogins over the same window.
type ActivityStore interface {
	Append(ctx context.Context, entry models.ActivityEntry) error
	CountFailedLoginsByEmail(ctx context.Context, email string, since time.Time) (int, error)
	CountFailedLoginsByIP(ctx context.Context, ip string, since time.Time) (int, error)
	ListRecent(ctx context.Context, limit int) ([]models.ActivityEntry, error)
}

// ProductStore is the read-only catalog dependency.
type ProductStore interface {
	// FindActiveByIDs returns only products that exist and are active;
	// missing or inactive ids are simply absent from the result.
	FindActiveByIDs(ctx context.Context, ids []int64) (map[int64]models.Product, error)
	ListActive(ctx context.Context) ([]models.Product, error)
}
