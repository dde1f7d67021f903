package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/reliwe/storefront/internal/models"
	"github.com/reliwe/storefront/internal/storage"
)

const (
	// failedLoginWindow is the trailing interval failed attempts are
	// counted over.
	failedLoginWindow = time.Hour
	maxEmailAttempts  = 5
	maxIPAttempts     = 10
)

// RateLimiter derives lockout state from the activity log rather than
// a separate counter: it counts failed_login entries by exact email
// and exact IP over the trailing window, fresh on every call.
type RateLimiter struct {
	activity storage.ActivityStore
	now      func() time.Time
}

// NewRateLimiter builds a limiter reading from the given audit sink.
func NewRateLimiter(activity storage.ActivityStore) *RateLimiter {
	return &RateLimiter{activity: activity, now: time.Now}
}

// Allow reports whether a login attempt for this email/IP pair may
// proceed. A storage error denies the attempt (fail closed).
func (rl *RateLimiter) Allow(ctx context.Context, email, ip string) (bool, error) {
	since := rl.now().Add(-failedLoginWindow)

	byEmail, err := rl.activity.CountFailedLoginsByEmail(ctx, email, since)
	if err != nil {
		return false, fmt.Errorf("count failed logins by email: %w", err)
	}
	byIP, err := rl.activity.CountFailedLoginsByIP(ctx, ip, since)
	if err != nil {
		return false, fmt.Errorf("count failed logins by ip: %w", err)
	}

	return byEmail < maxEmailAttempts && byIP < maxIPAttempts, nil
}

// RecordFailure appends a failed_login entry. Callers must invoke it
// on every failed verification so the next Allow sees it.
func (rl *RateLimiter) RecordFailure(ctx context.Context, email, ip, userAgent string) error {
	return rl.activity.Append(ctx, models.ActivityEntry{
		ActionType:   models.ActionFailedLogin,
		Description:  "failed login attempt",
		SubjectEmail: email,
		IPAddress:    ip,
		UserAgent:    userAgent,
	})
}
