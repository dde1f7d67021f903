// Package auth implements credential verification, password policy,
// and activity-log-derived brute-force rate limiting.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/reliwe/storefront/internal/logging"
	"github.com/reliwe/storefront/internal/models"
	"github.com/reliwe/storefront/internal/models/dto"
	"github.com/reliwe/storefront/internal/storage"
)

// Service orchestrates registration and login. Every operation is
// bounded by a request-level timeout and fails closed when storage is
// unavailable.
type Service struct {
	users      storage.UserStore
	activity   storage.ActivityStore
	limiter    *RateLimiter
	logger     logging.Logger
	timeout    time.Duration
	bcryptCost int
}

// NewService wires the auth service.
func NewService(users storage.UserStore, activity storage.ActivityStore, limiter *RateLimiter, logger logging.Logger, timeout time.Duration, bcryptCost int) *Service {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		users:      users,
		activity:   activity,
		limiter:    limiter,
		logger:     logger,
		timeout:    timeout,
		bcryptCost: bcryptCost,
	}
}

// Register validates the request, then inserts the user and profile in
// one transaction. The storage-level unique constraint is the
// authoritative duplicate guard; the EmailExists pre-check is only a
// fast-path hint.
func (s *Service) Register(ctx context.Context, req dto.RegisterRequest, ip, userAgent string) (models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	email := strings.TrimSpace(req.Email)
	if err := validateRegistration(email, req); err != nil {
		return models.User{}, err
	}

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return models.User{}, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return models.User{}, ErrDuplicateEmail
	}

	hash, err := HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
		Status:       models.StatusActive,
	}
	profile := models.Profile{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Phone:     strings.TrimSpace(req.Phone),
		Address:   strings.TrimSpace(req.Address),
		City:      strings.TrimSpace(req.City),
		ZipCode:   strings.TrimSpace(req.ZipCode),
		Country:   strings.TrimSpace(req.Country),
	}

	created, err := s.users.CreateUser(ctx, user, profile)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}

	s.record(ctx, &created.ID, models.ActionRegister, "new account registered", email, ip, userAgent)
	s.logger.Info(ctx, "user registered", "user_id", created.ID)
	return created, nil
}

// Login verifies credentials under rate limiting. The returned user is
// what the caller binds into the session.
func (s *Service) Login(ctx context.Context, email, password, ip, userAgent string) (models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return models.User{}, fmt.Errorf("%w: email and password are required", ErrValidation)
	}
	// Malformed addresses are rejected without contacting storage.
	if !ValidEmail(email) {
		return models.User{}, fmt.Errorf("%w: invalid email address", ErrValidation)
	}

	allowed, err := s.limiter.Allow(ctx, email, ip)
	if err != nil {
		s.logger.Error(ctx, "rate limit check failed", "error", err)
		return models.User{}, ErrLockedOut
	}
	if !allowed {
		return models.User{}, ErrLockedOut
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.fail(ctx, email, ip, userAgent)
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, fmt.Errorf("fetch user: %w", err)
	}

	if user.Status != models.StatusActive {
		return models.User{}, ErrSuspended
	}

	if !CheckPassword(user.PasswordHash, password) {
		s.fail(ctx, email, ip, userAgent)
		return models.User{}, ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Error(ctx, "update last login failed", "user_id", user.ID, "error", err)
	}
	user.LastLoginAt = &now

	s.record(ctx, &user.ID, models.ActionLogin, "user logged in successfully", email, ip, userAgent)
	return user, nil
}

// RecordLogout writes the logout audit entry.
func (s *Service) RecordLogout(ctx context.Context, userID int64, email, ip, userAgent string) {
	s.record(ctx, &userID, models.ActionLogout, "user logged out", email, ip, userAgent)
}

func (s *Service) fail(ctx context.Context, email, ip, userAgent string) {
	if err := s.limiter.RecordFailure(ctx, email, ip, userAgent); err != nil {
		s.logger.Error(ctx, "record failed login", "error", err)
	}
}

func (s *Service) record(ctx context.Context, userID *int64, action models.ActionType, desc, email, ip, userAgent string) {
	err := s.activity.Append(ctx, models.ActivityEntry{
		UserID:       userID,
		ActionType:   action,
		Description:  desc,
		SubjectEmail: email,
		IPAddress:    ip,
		UserAgent:    userAgent,
	})
	if err != nil {
		s.logger.Error(ctx, "append activity", "action", string(action), "error", err)
	}
}

func validateRegistration(email string, req dto.RegisterRequest) error {
	switch {
	case email == "" || req.Password == "" || req.ConfirmPassword == "":
		return fmt.Errorf("%w: email and password are required", ErrValidation)
	case strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "":
		return fmt.Errorf("%w: first name and last name are required", ErrValidation)
	case !ValidEmail(email):
		return fmt.Errorf("%w: invalid email address", ErrValidation)
	case req.Password != req.ConfirmPassword:
		return fmt.Errorf("%w: passwords do not match", ErrValidation)
	case !IsStrongPassword(req.Password):
		return fmt.Errorf("%w: password must be 8-128 characters with uppercase, lowercase, number and special character", ErrValidation)
	}
	return nil
}
