package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/reliwe/storefront/internal/models"
	"github.com/reliwe/storefront/internal/storage"
)

const userColumns = `id, email, password_hash, role, status, created_at, last_login_at`

// CreateUser inserts the user row and its profile row inside one
// transaction. The unique constraint on email is the authoritative
// duplicate guard; its violation maps to storage.ErrAlreadyExists.
func (s *Store) CreateUser(ctx context.Context, user models.User, profile models.Profile) (models.User, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, role, status)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		user.Email, user.PasswordHash, user.Role, user.Status)

	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO user_profiles (user_id, first_name, last_name, phone, address, city, zip_code, country)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		created.ID, profile.FirstName, profile.LastName, profile.Phone,
		profile.Address, profile.City, profile.ZipCode, profile.Country)
	if err != nil {
		return models.User{}, fmt.Errorf("insert profile: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return models.User{}, fmt.Errorf("commit: %w", err)
	}
	return created, nil
}

// FindByEmail fetches a user by exact email match.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// FindByID fetches a user by id.
func (s *Store) FindByID(ctx context.Context, id int64) (models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// EmailExists is the fast-path duplicate hint used before registration.
func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

// UpdateLastLogin stamps a successful login.
func (s *Store) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := s.pool.Exec(ctx, `UPDATE users SET last_login_at = $2 WHERE id = $1`, id, at)
	return err
}

// UpdateStatus changes an account's lifecycle state.
func (s *Store) UpdateStatus(ctx context.Context, id int64, status models.Status) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// UpdateRole changes an account's permission tier.
func (s *Store) UpdateRole(ctx context.Context, id int64, role models.Role) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET role = $2 WHERE id = $1`, id, role)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListUsers returns all accounts, newest first.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CountActiveByRole returns the number of active accounts per role.
func (s *Store) CountActiveByRole(ctx context.Context) (map[models.Role]int, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT role, COUNT(*) FROM users WHERE status = 'active' GROUP BY role`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.Role]int)
	for rows.Next() {
		var role models.Role
		var n int
		if err := rows.Scan(&role, &n); err != nil {
			return nil, err
		}
		counts[role] = n
	}
	return counts, rows.Err()
}

// GetProfile fetches the profile for a user.
func (s *Store) GetProfile(ctx context.Context, userID int64) (models.Profile, error) {
	var p models.Profile
	err := s.pool.QueryRow(ctx, `
		SELECT user_id, first_name, last_name, phone, address, city, zip_code, country
		FROM user_profiles WHERE user_id = $1`, userID).
		Scan(&p.UserID, &p.FirstName, &p.LastName, &p.Phone, &p.Address, &p.City, &p.ZipCode, &p.Country)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Profile{}, storage.ErrNotFound
		}
		return models.Profile{}, err
	}
	return p, nil
}

// UpsertProfile writes the profile, creating the row on first edit.
func (s *Store) UpsertProfile(ctx context.Context, p models.Profile) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO user_profiles (user_id, first_name, last_name, phone, address, city, zip_code, country)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name  = EXCLUDED.last_name,
			phone      = EXCLUDED.phone,
			address    = EXCLUDED.address,
			city       = EXCLUDED.city,
			zip_code   = EXCLUDED.zip_code,
			country    = EXCLUDED.country`,
		p.UserID, p.FirstName, p.LastName, p.Phone, p.Address, p.City, p.ZipCode, p.Country)
	return err
}

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.Status, &u.CreatedAt, &u.LastLoginAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	return u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
