package core

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the identity payload carried by both token classes. The jti is a
// fresh uuid per issued token, so rotation always produces a distinct string
// even within the same second.
type Claims struct {
	UserID   string `json:"uid"`
	Username string `json:"uname"`
	jwt.RegisteredClaims
}

// TokenPair is an access/refresh pair sharing one identity payload, minted
// atomically at sign-in and at every refresh.
type TokenPair struct {
	Access  string
	Refresh string
}

// TokenCodec signs and verifies one class of token under one secret and TTL.
// A codec never accepts tokens signed by the other class's secret; access and
// refresh codecs are constructed with independent secrets.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	return &TokenCodec{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the given identity with iat=now and exp=now+ttl.
func (c *TokenCodec) Issue(userID, username string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify parses and validates a token of this codec's class. Every failure —
// malformed, wrong signature, wrong algorithm, expired — collapses into
// ErrInvalidToken so clients cannot tell the cases apart.
func (c *TokenCodec) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// TokenIssuer mints matched access/refresh pairs from two codecs.
type TokenIssuer struct {
	Access  *TokenCodec
	Refresh *TokenCodec
}

// NewTokenIssuer builds the two codecs from the immutable configuration.
func NewTokenIssuer(cfg Config) *TokenIssuer {
	return &TokenIssuer{
		Access:  NewTokenCodec(cfg.AccessSecret, cfg.AccessTTL),
		Refresh: NewTokenCodec(cfg.RefreshSecret, cfg.RefreshTTL),
	}
}

// IssuePair signs a fresh access and refresh token for the same identity.
func (i *TokenIssuer) IssuePair(userID, username string) (TokenPair, error) {
	at, err := i.Access.Issue(userID, username)
	if err != nil {
		return TokenPair{}, err
	}
	rt, err := i.Refresh.Issue(userID, username)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: at, Refresh: rt}, nil
}
