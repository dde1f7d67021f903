package auth

import "errors"

var (
	// ErrValidation wraps user-correctable input problems; the message
	// is safe to echo back verbatim.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateEmail means the address is already registered.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidCredentials covers both unknown email and wrong
	// password, deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrSuspended means the account exists but is not active.
	ErrSuspended = errors.New("account suspended")

	// ErrLockedOut means the rate limiter denied the attempt.
	ErrLockedOut = errors.New("too many failed attempts")
)
