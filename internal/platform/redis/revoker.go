package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/phrazzld/attendance-api/internal/service/auth"
)

// TokenRevoker keeps revoked token IDs as keys that expire with the token.
type TokenRevoker struct {
	rdb *goredis.Client
	now func() time.Time
}

var _ auth.TokenRevoker = (*TokenRevoker)(nil)

// NewTokenRevoker returns a revoker on rdb.
func NewTokenRevoker(rdb *goredis.Client) *TokenRevoker {
	return &TokenRevoker{rdb: rdb, now: time.Now}
}

func revokedKey(tokenID string) string { return fmt.Sprintf("bl:at:%s", tokenID) }

// Revoke implements auth.TokenRevoker.
func (r *TokenRevoker) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return nil
	}
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	return r.rdb.Set(ctx, revokedKey(tokenID), "1", ttl).Err()
}

// IsRevoked implements auth.TokenRevoker.
func (r *TokenRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	err := r.rdb.Get(ctx, revokedKey(tokenID)).Err()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get revocation: %w", err)
	}
	return true, nil
}

// Claim implements auth.TokenRevoker with SETNX, so exactly one caller
// wins for a given token ID.
func (r *TokenRevoker) Claim(ctx context.Context, tokenID string, expiresAt time.Time) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		return false, nil
	}
	won, err := r.rdb.SetNX(ctx, revokedKey(tokenID), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx revocation: %w", err)
	}
	return won, nil
}
