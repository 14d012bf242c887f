package core

import "errors"

// Sentinel errors for expected failure modes. Handlers classify these at the
// transport boundary; anything else renders as a generic 500.
var (
	// ErrMissingFields is returned when a request body lacks username or password.
	ErrMissingFields = errors.New("missing credentials")
	// ErrPasswordPolicy is returned when a candidate password fails the policy.
	ErrPasswordPolicy = errors.New("password does not meet requirements")
	// ErrUsernameTaken is returned when sign-up hits the uniqueness constraint.
	ErrUsernameTaken = errors.New("user already exists")
	// ErrInvalidCredentials covers both unknown user and wrong password.
	// The two cases must stay externally indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrMissingToken is returned when a required token cookie is absent.
	ErrMissingToken = errors.New("missing token")
	// ErrInvalidToken covers malformed, tampered, expired and revoked tokens.
	// The cases must stay externally indistinguishable.
	ErrInvalidToken = errors.New("token is invalid or expired")
)
