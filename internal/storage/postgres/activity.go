package postgres

import (
	"context"
	"time"

	"github.com/reliwe/storefront/internal/models"
)

// Append inserts one audit row. The insert is synchronous so that the
// rate limiter's next count over the same window sees it.
func (s *Store) Append(ctx context.Context, e models.ActivityEntry) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO activity_log (user_id, action_type, description, subject_email, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		e.UserID, e.ActionType, e.Description, e.SubjectEmail, e.IPAddress, e.UserAgent)
	return err
}

// CountFailedLoginsByEmail counts failed_login rows for the exact
// email since the given time.
func (s *Store) CountFailedLoginsByEmail(ctx context.Context, email string, since time.Time) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM activity_log
		WHERE action_type = $1 AND subject_email = $2 AND created_at > $3`,
		models.ActionFailedLogin, email, since).Scan(&n)
	return n, err
}

// CountFailedLoginsByIP counts failed_login rows for the exact IP
// since the given time.
func (s *Store) CountFailedLoginsByIP(ctx context.Context, ip string, since time.Time) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM activity_log
		WHERE action_type = $1 AND ip_address = $2 AND created_at > $3`,
		models.ActionFailedLogin, ip, since).Scan(&n)
	return n, err
}

// ListRecent returns the newest audit entries with the acting user's
// email joined in, for the admin activity view.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]models.ActivityEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT a.id, a.user_id, a.action_type, a.description, a.subject_email,
		       a.ip_address, a.user_agent, a.created_at, COALESCE(u.email, '')
		FROM activity_log a
		LEFT JOIN users u ON a.user_id = u.id
		ORDER BY a.created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.ActivityEntry
	for rows.Next() {
		var e models.ActivityEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.ActionType, &e.Description, &e.SubjectEmail,
			&e.IPAddress, &e.UserAgent, &e.CreatedAt, &e.UserEmail); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
