package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/reliwe/storefront/internal/models"
	"github.com/reliwe/storefront/internal/models/dto"
	"github.com/reliwe/storefront/internal/storage"
)

func newTestService(users *fakeUserStore, activity *fakeActivityStore) *Service {
	return NewService(users, activity, NewRateLimiter(activity), nopLogger{}, 5*time.Second, bcrypt.MinCost)
}

func validRegistration() dto.RegisterRequest {
	return dto.RegisterRequest{
		Email:           "alice@example.com",
		Password:        "Tr0ub4dor!",
		ConfirmPassword: "Tr0ub4dor!",
		FirstName:       "Alice",
		LastName:        "Larsen",
		Country:         "Denmark",
	}
}

func TestRegisterSuccess(t *testing.T) {
	users := newFakeUsers()
	activity := newFakeActivity()
	svc := newTestService(users, activity)

	created, err := svc.Register(context.Background(), validRegistration(), "10.0.0.1", "ua")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", created.Email)
	assert.Equal(t, models.RoleUser, created.Role)
	assert.Equal(t, models.StatusActive, created.Status)
	assert.NotEqual(t, "Tr0ub4dor!", created.PasswordHash)

	profile, ok := users.profiles[created.ID]
	require.True(t, ok, "profile row created with the user")
	assert.Equal(t, "Alice", profile.FirstName)

	require.Len(t, activity.byAction(models.ActionRegister), 1)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := newFakeUsers()
	svc := newTestService(users, newFakeActivity())
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegistration(), "10.0.0.1", "ua")
	require.NoError(t, err)

	_, err = svc.Register(ctx, validRegistration(), "10.0.0.1", "ua")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRegisterDuplicateLostRace(t *testing.T) {
	// The pre-check passes but the insert hits the unique constraint.
	users := newFakeUsers()
	users.createErr = storage.ErrAlreadyExists
	svc := newTestService(users, newFakeActivity())

	_, err := svc.Register(context.Background(), validRegistration(), "10.0.0.1", "ua")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(newFakeUsers(), newFakeActivity())
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*dto.RegisterRequest)
	}{
		{"missing email", func(r *dto.RegisterRequest) { r.Email = "" }},
		{"missing name", func(r *dto.RegisterRequest) { r.FirstName = "" }},
		{"bad email format", func(r *dto.RegisterRequest) { r.Email = "not-an-email" }},
		{"password mismatch", func(r *dto.RegisterRequest) { r.ConfirmPassword = "Different1!" }},
		{"weak password", func(r *dto.RegisterRequest) { r.Password = "password123"; r.ConfirmPassword = "password123" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRegistration()
			tt.mutate(&req)
			_, err := svc.Register(ctx, req, "10.0.0.1", "ua")
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestRegisterRollsBackOnProfileFailure(t *testing.T) {
	users := newFakeUsers()
	users.profileErr = errors.New("profile insert failed")
	svc := newTestService(users, newFakeActivity())

	_, err := svc.Register(context.Background(), validRegistration(), "10.0.0.1", "ua")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicateEmail)

	// Neither row persisted.
	assert.Empty(t, users.byEmail)
	assert.Empty(t, users.profiles)
}

func registerUser(t *testing.T, svc *Service) models.User {
	t.Helper()
	created, err := svc.Register(context.Background(), validRegistration(), "10.0.0.1", "ua")
	require.NoError(t, err)
	return created
}

func TestLoginSuccess(t *testing.T) {
	users := newFakeUsers()
	activity := newFakeActivity()
	svc := newTestService(users, activity)
	registerUser(t, svc)

	user, err := svc.Login(context.Background(), "alice@example.com", "Tr0ub4dor!", "10.0.0.1", "ua")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	require.NotNil(t, user.LastLoginAt)

	require.Len(t, activity.byAction(models.ActionLogin), 1)
	assert.Empty(t, activity.byAction(models.ActionFailedLogin))
}

func TestLoginUnknownEmailAndWrongPasswordLookAlike(t *testing.T) {
	users := newFakeUsers()
	activity := newFakeActivity()
	svc := newTestService(users, activity)
	registerUser(t, svc)
	ctx := context.Background()

	_, errUnknown := svc.Login(ctx, "nobody@example.com", "Tr0ub4dor!", "10.0.0.1", "ua")
	_, errWrong := svc.Login(ctx, "alice@example.com", "WrongPass1!", "10.0.0.1", "ua")

	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrong, ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrong.Error())

	// Both kinds of failure are recorded for the limiter.
	assert.Len(t, activity.byAction(models.ActionFailedLogin), 2)
}

func TestLoginMalformedEmailSkipsStorage(t *testing.T) {
	users := newFakeUsers()
	users.findErr = errors.New("storage must not be reached")
	svc := newTestService(users, newFakeActivity())

	_, err := svc.Login(context.Background(), "not-an-email", "Tr0ub4dor!", "10.0.0.1", "ua")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLoginSuspendedIsDistinct(t *testing.T) {
	users := newFakeUsers()
	activity := newFakeActivity()
	svc := newTestService(users, activity)
	created := registerUser(t, svc)
	require.NoError(t, users.UpdateStatus(context.Background(), created.ID, models.StatusSuspended))

	_, err := svc.Login(context.Background(), "alice@example.com", "Tr0ub4dor!", "10.0.0.1", "ua")
	assert.ErrorIs(t, err, ErrSuspended)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)

	// A suspended hit is not a failed verification.
	assert.Empty(t, activity.byAction(models.ActionFailedLogin))
}

func TestLoginLockedOutEvenWithCorrectPassword(t *testing.T) {
	users := newFakeUsers()
	activity := newFakeActivity()
	svc := newTestService(users, activity)
	registerUser(t, svc)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.Login(ctx, "alice@example.com", "WrongPass1!", "10.0.0.1", "ua")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}

	_, err := svc.Login(ctx, "alice@example.com", "Tr0ub4dor!", "10.0.0.1", "ua")
	assert.ErrorIs(t, err, ErrLockedOut)

	// Lockout itself records nothing new.
	assert.Len(t, activity.byAction(models.ActionFailedLogin), 5)
}

func TestLoginFailsClosedOnLimiterError(t *testing.T) {
	users := newFakeUsers()
	activity := newFakeActivity()
	svc := newTestService(users, activity)
	registerUser(t, svc)

	activity.countErr = errors.New("db down")
	_, err := svc.Login(context.Background(), "alice@example.com", "Tr0ub4dor!", "10.0.0.1", "ua")
	assert.ErrorIs(t, err, ErrLockedOut)
}
