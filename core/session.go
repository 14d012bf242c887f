package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
)

// SessionService orchestrates the credential and token lifecycle. It holds no
// per-request state: everything a session is lives in the client-held signed
// tokens, so concurrent requests need no coordination.
type SessionService struct {
	users      UserRepository
	tokens     *TokenIssuer
	revocation RevocationStore // nil disables the sign-out watermark
}

// NewSessionService wires the handler dependencies. revocation may be nil.
func NewSessionService(users UserRepository, tokens *TokenIssuer, revocation RevocationStore) *SessionService {
	return &SessionService{users: users, tokens: tokens, revocation: revocation}
}

// SignUp creates a user with a hashed password. The store's uniqueness
// constraint is the arbiter for concurrent sign-ups with the same name.
func (s *SessionService) SignUp(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return ErrMissingFields
	}

	_, err := s.users.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return ErrUsernameTaken
	case !errors.Is(err, ErrUserNotFound):
		return fmt.Errorf("sign-up lookup: %w", err)
	}

	if !ValidatePassword(password, username) {
		return ErrPasswordPolicy
	}

	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("sign-up hash: %w", err)
	}

	if _, err := s.users.Create(ctx, username, hash); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return ErrUsernameTaken
		}
		return fmt.Errorf("sign-up create: %w", err)
	}
	return nil
}

// SignIn authenticates the credentials and issues a fresh token pair.
// Unknown user and wrong password both yield ErrInvalidCredentials.
func (s *SessionService) SignIn(ctx context.Context, username, password string) (TokenPair, error) {
	if username == "" || password == "" {
		return TokenPair{}, ErrMissingFields
	}

	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return TokenPair{}, ErrInvalidCredentials
		}
		return TokenPair{}, fmt.Errorf("sign-in lookup: %w", err)
	}

	if !VerifyPassword(password, u.PasswordHash) {
		return TokenPair{}, ErrInvalidCredentials
	}

	return s.issuePair(u.ID, u.Username)
}

// Refresh rotates the session: the presented refresh token is verified (and
// checked against the revocation watermark when enabled), then a brand-new
// pair is minted from the decoded identity. The old refresh token is not
// tracked afterwards; validity remains a pure function of signature+expiry.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	if refreshToken == "" {
		return TokenPair{}, ErrMissingToken
	}

	claims, err := s.tokens.Refresh.Verify(refreshToken)
	if err != nil {
		return TokenPair{}, ErrInvalidToken
	}

	if s.revocation != nil && claims.IssuedAt != nil {
		revoked, err := s.revocation.IsRevoked(ctx, claims.UserID, claims.IssuedAt.Time)
		if err != nil {
			return TokenPair{}, fmt.Errorf("refresh revocation check: %w", err)
		}
		if revoked {
			return TokenPair{}, ErrInvalidToken
		}
	}

	pair, err := s.tokens.IssuePair(claims.UserID, claims.Username)
	if err != nil {
		return TokenPair{}, fmt.Errorf("refresh issue: %w", err)
	}
	return pair, nil
}

// SignOut is idempotent: it always succeeds, whether or not a refresh token
// was presented. When the revocation store is enabled and the token still
// verifies, the user's watermark is advanced so outstanding refresh tokens
// stop rotating. Watermark failures are logged, not surfaced; clearing the
// client cookie is the contract.
func (s *SessionService) SignOut(ctx context.Context, refreshToken string) {
	if s.revocation == nil || refreshToken == "" {
		return
	}
	claims, err := s.tokens.Refresh.Verify(refreshToken)
	if err != nil {
		return
	}
	ttl := s.tokens.Refresh.ttl
	if err := s.revocation.Revoke(ctx, claims.UserID, ttl); err != nil {
		log.Printf("sign-out: failed to record revocation for user %s: %v", claims.UserID, err)
	}
}

// TokenValidity is the per-class result of a Verify call. Only the classes
// actually presented are populated.
type TokenValidity map[string]bool

// Verify checks each presented token against its own secret and expiry.
// Revocation is deliberately not consulted here; it gates rotation only.
func (s *SessionService) Verify(accessToken, refreshToken string) (TokenValidity, error) {
	if accessToken == "" && refreshToken == "" {
		return nil, ErrMissingToken
	}
	result := TokenValidity{}
	if accessToken != "" {
		_, err := s.tokens.Access.Verify(accessToken)
		result["at"] = err == nil
	}
	if refreshToken != "" {
		_, err := s.tokens.Refresh.Verify(refreshToken)
		result["rt"] = err == nil
	}
	return result, nil
}

func (s *SessionService) issuePair(id int64, username string) (TokenPair, error) {
	pair, err := s.tokens.IssuePair(strconv.FormatInt(id, 10), username)
	if err != nil {
		return TokenPair{}, fmt.Errorf("token issue: %w", err)
	}
	return pair, nil
}
