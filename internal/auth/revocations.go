package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/go-redis/redis/v8"
)

const revokedKeyPrefix = "pacelink-revoked||"

// Revocations remembers signed-out access tokens until they would expire anyway.
type Revocations struct {
	redisClient *redis.Client
	now         func() time.Time
}

func NewRevocations(redisClient *redis.Client) *Revocations {
	return &Revocations{
		redisClient: redisClient,
		now:         time.Now,
	}
}

func revokedKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return revokedKeyPrefix + hex.EncodeToString(sum[:])
}

func (r *Revocations) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		// already expired, nothing to remember
		return nil
	}
	return r.redisClient.Set(ctx, revokedKey(token), 1, ttl).Err()
}

func (r *Revocations) IsRevoked(ctx context.Context, token string) (bool, error) {
	cmd := r.redisClient.Exists(ctx, revokedKey(token))
	if err := cmd.Err(); err != nil {
		return false, err
	}
	return cmd.Val() > 0, nil
}
