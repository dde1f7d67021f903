package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reliwe/storefront/internal/models"
)

func TestRateLimiterAllowsFreshPair(t *testing.T) {
	rl := NewRateLimiter(newFakeActivity())

	allowed, err := rl.Allow(context.Background(), "a@example.com", "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimiterBlocksAfterEmailThreshold(t *testing.T) {
	activity := newFakeActivity()
	rl := NewRateLimiter(activity)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		require.NoError(t, rl.RecordFailure(ctx, "a@example.com", "10.0.0.1", "ua"))
	}
	allowed, err := rl.Allow(ctx, "a@example.com", "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed, "4 failures stay under the threshold")

	require.NoError(t, rl.RecordFailure(ctx, "a@example.com", "10.0.0.1", "ua"))
	allowed, err = rl.Allow(ctx, "a@example.com", "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed, "5th failure locks the email out")

	// A different email from a different IP is unaffected.
	allowed, err = rl.Allow(ctx, "b@example.com", "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimiterBlocksAfterIPThreshold(t *testing.T) {
	activity := newFakeActivity()
	rl := NewRateLimiter(activity)
	ctx := context.Background()

	// 10 failures from one IP across distinct emails.
	emails := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	for _, e := range emails {
		require.NoError(t, rl.RecordFailure(ctx, e+"@example.com", "10.0.0.9", "ua"))
	}

	allowed, err := rl.Allow(ctx, "fresh@example.com", "10.0.0.9")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestRateLimiterWindowExpires(t *testing.T) {
	activity := newFakeActivity()
	old := time.Now().Add(-2 * time.Hour)
	activity.now = func() time.Time { return old }

	rl := NewRateLimiter(activity)
	ctx := context.Background()
	for i := 0; i < 6; i++ {
		require.NoError(t, rl.RecordFailure(ctx, "a@example.com", "10.0.0.1", "ua"))
	}

	// All failures sit outside the trailing hour.
	allowed, err := rl.Allow(ctx, "a@example.com", "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimiterFailsClosed(t *testing.T) {
	activity := newFakeActivity()
	activity.countErr = errors.New("db down")
	rl := NewRateLimiter(activity)

	allowed, err := rl.Allow(context.Background(), "a@example.com", "10.0.0.1")
	require.Error(t, err)
	assert.False(t, allowed)
}

func TestRecordFailureWritesStructuredEntry(t *testing.T) {
	activity := newFakeActivity()
	rl := NewRateLimiter(activity)

	require.NoError(t, rl.RecordFailure(context.Background(), "a@example.com", "10.0.0.1", "test-agent"))

	entries := activity.byAction(models.ActionFailedLogin)
	require.Len(t, entries, 1)
	assert.Equal(t, "a@example.com", entries[0].SubjectEmail)
	assert.Equal(t, "10.0.0.1", entries[0].IPAddress)
	assert.Equal(t, "test-agent", entries[0].UserAgent)
	assert.Nil(t, entries[0].UserID)
}
