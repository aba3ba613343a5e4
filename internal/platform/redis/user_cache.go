package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/phrazzld/attendance-api/internal/cache"
	"github.com/phrazzld/attendance-api/internal/domain"
)

const (
	userListKey    = "users:all"
	userListGenKey = "users:all:gen"
)

// UserCache stores users as JSON strings with a TTL. Each user and the
// list have a generation counter that InvalidateUser increments; fills
// are written under WATCH on that counter and dropped when it moved.
type UserCache struct {
	rdb *goredis.Client
	ttl time.Duration
}

var _ cache.UserCache = (*UserCache)(nil)

// NewUserCache returns a cache on rdb. A non-positive ttl stores keys
// without expiry.
func NewUserCache(rdb *goredis.Client, ttl time.Duration) *UserCache {
	if ttl < 0 {
		ttl = 0
	}
	return &UserCache{rdb: rdb, ttl: ttl}
}

func userKey(id uuid.UUID) string    { return fmt.Sprintf("user:%s", id) }
func userGenKey(id uuid.UUID) string { return fmt.Sprintf("user:%s:gen", id) }

// GetUser implements cache.UserCache.
func (c *UserCache) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, bool, error) {
	var u domain.User
	ok, err := c.get(ctx, userKey(id), &u)
	if !ok {
		return nil, false, err
	}
	return &u, true, nil
}

// UserGeneration implements cache.UserCache.
func (c *UserCache) UserGeneration(ctx context.Context, id uuid.UUID) (cache.Generation, error) {
	return readGeneration(ctx, c.rdb, userGenKey(id))
}

// SetUser implements cache.UserCache.
func (c *UserCache) SetUser(ctx context.Context, user *domain.User, gen cache.Generation) error {
	return c.setIfCurrent(ctx, userKey(user.ID), userGenKey(user.ID), gen, user)
}

// GetUserList implements cache.UserCache.
func (c *UserCache) GetUserList(ctx context.Context) ([]*domain.User, bool, error) {
	var users []*domain.User
	ok, err := c.get(ctx, userListKey, &users)
	if !ok {
		return nil, false, err
	}
	return users, true, nil
}

// ListGeneration implements cache.UserCache.
func (c *UserCache) ListGeneration(ctx context.Context) (cache.Generation, error) {
	return readGeneration(ctx, c.rdb, userListGenKey)
}

// SetUserList implements cache.UserCache.
func (c *UserCache) SetUserList(ctx context.Context, users []*domain.User, gen cache.Generation) error {
	return c.setIfCurrent(ctx, userListKey, userListGenKey, gen, users)
}

// InvalidateUser implements cache.UserCache.
func (c *UserCache) InvalidateUser(ctx context.Context, id uuid.UUID) error {
	_, err := c.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.Incr(ctx, userGenKey(id))
		p.Incr(ctx, userListGenKey)
		p.Del(ctx, userKey(id), userListKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis invalidate user %s: %w", id, err)
	}
	return nil
}

// getter is the part of *goredis.Client and *goredis.Tx that
// readGeneration needs.
type getter interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
}

func readGeneration(ctx context.Context, rdb getter, key string) (cache.Generation, error) {
	n, err := rdb.Get(ctx, key).Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get %s: %w", key, err)
	}
	return cache.Generation(n), nil
}

func (c *UserCache) get(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

// setIfCurrent writes v to key only while genKey still holds gen.
func (c *UserCache) setIfCurrent(ctx context.Context, key, genKey string, gen cache.Generation, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	err = c.rdb.Watch(ctx, func(tx *goredis.Tx) error {
		cur, err := readGeneration(ctx, tx, genKey)
		if err != nil {
			return err
		}
		if cur != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(p goredis.Pipeliner) error {
			p.Set(ctx, key, raw, c.ttl)
			return nil
		})
		return err
	}, genKey)
	if errors.Is(err, goredis.TxFailedErr) {
		// Invalidated while writing.
		return nil
	}
	if err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
