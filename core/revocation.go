package core

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore bounds the lifetime of leaked refresh tokens. Sign-out
// records a per-user watermark; Refresh rejects refresh tokens issued at or
// before it. The fast path (no sign-out since issuance) stays stateless.
//
// This is an optional hardening layer: when no store is configured the
// service falls back to pure signature+expiry validity.
type RevocationStore interface {
	// Revoke marks all tokens of the user issued up to now as invalid.
	// The mark only needs to outlive the longest refresh TTL.
	Revoke(ctx context.Context, userID string, ttl time.Duration) error
	// IsRevoked reports whether a token issued at issuedAt falls under the
	// user's watermark.
	IsRevoked(ctx context.Context, userID string, issuedAt time.Time) (bool, error)
}

const revokedKeyPrefix = "revoked:"

// RedisRevocationStore implements RevocationStore on go-redis. The watermark
// is the revocation instant in unix seconds (token iat precision), expiring
// after the refresh TTL since no older token can still verify by then.
// Tokens issued in the same second as the revocation are NOT considered
// revoked, so a sign-out immediately followed by a sign-in never locks the
// fresh session out.
type RedisRevocationStore struct {
	client *redis.Client
}

func NewRedisRevocationStore(client *redis.Client) *RedisRevocationStore {
	return &RedisRevocationStore{client: client}
}

func (s *RedisRevocationStore) Revoke(ctx context.Context, userID string, ttl time.Duration) error {
	key := revokedKeyPrefix + userID
	return s.client.Set(ctx, key, time.Now().Unix(), ttl).Err()
}

func (s *RedisRevocationStore) IsRevoked(ctx context.Context, userID string, issuedAt time.Time) (bool, error) {
	key := revokedKeyPrefix + userID
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	watermark, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return false, err
	}
	return issuedAt.Unix() < watermark, nil
}

// NewRedisClient returns a configured go-redis client from URL (e.g., redis://localhost:6379/0).
func NewRedisClient(redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		return nil, errors.New("empty redis url")
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return client, nil
}
