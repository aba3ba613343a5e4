package redis

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/phrazzld/attendance-api/internal/cache"
	"github.com/phrazzld/attendance-api/internal/config"
	"github.com/phrazzld/attendance-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)

	addr := mr.Addr()

	rdb, err := Connect(context.Background(), config.CacheConfig{RedisAddr: addr})
	require.NoError(t, err)
	_ = rdb.Close()

	mr.Close()
	_, err = Connect(context.Background(), config.CacheConfig{RedisAddr: addr})
	assert.Error(t, err)
}

func TestUserCache(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	c := NewUserCache(rdb, time.Minute)

	u, err := domain.NewUser("ann@example.com", "Ann")
	require.NoError(t, err)

	_, ok, err := c.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.SetUser(ctx, u, 0))
	require.NoError(t, c.SetUserList(ctx, []*domain.User{u}, 0))

	got, ok, err := c.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, domain.RemoteWorkNone, got.RemoteWorkEligibility)

	list, ok, err := c.GetUserList(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, list, 1)

	mr.FastForward(2 * time.Minute)
	_, ok, _ = c.GetUser(ctx, u.ID)
	assert.False(t, ok)

	require.NoError(t, c.SetUser(ctx, u, 0))
	require.NoError(t, c.SetUserList(ctx, []*domain.User{u}, 0))
	require.NoError(t, c.InvalidateUser(ctx, u.ID))
	assert.False(t, mr.Exists(userKey(u.ID)))
	assert.False(t, mr.Exists(userListKey))
}

func TestUserCache_StaleFillIsDropped(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	c := NewUserCache(rdb, time.Minute)

	u, err := domain.NewUser("ann@example.com", "Ann")
	require.NoError(t, err)

	userGen, err := c.UserGeneration(ctx, u.ID)
	require.NoError(t, err)
	listGen, err := c.ListGeneration(ctx)
	require.NoError(t, err)

	require.NoError(t, c.InvalidateUser(ctx, u.ID))

	require.NoError(t, c.SetUser(ctx, u, userGen))
	require.NoError(t, c.SetUserList(ctx, []*domain.User{u}, listGen))
	assert.False(t, mr.Exists(userKey(u.ID)), "stale user must not be cached")
	assert.False(t, mr.Exists(userListKey), "stale list must not be cached")

	userGen, err = c.UserGeneration(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, cache.Generation(1), userGen)
	require.NoError(t, c.SetUser(ctx, u, userGen))
	_, ok, err := c.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUserCache_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	c := NewUserCache(rdb, time.Minute)

	id := uuid.New()
	require.NoError(t, mr.Set(userKey(id), "not json"))

	_, ok, err := c.GetUser(ctx, id)
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestTokenRevoker(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	r := NewTokenRevoker(rdb)
	r.now = func() time.Time { return now }

	require.NoError(t, r.Revoke(ctx, "jti-1", now.Add(time.Hour)))
	revoked, err := r.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Equal(t, time.Hour, mr.TTL(revokedKey("jti-1")))

	revoked, err = r.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, r.Revoke(ctx, "jti-old", now.Add(-time.Minute)))
	assert.False(t, mr.Exists(revokedKey("jti-old")))

	mr.FastForward(2 * time.Hour)
	revoked, _ = r.IsRevoked(ctx, "jti-1")
	assert.False(t, revoked)
}

func TestTokenRevoker_ClaimOnce(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	r := NewTokenRevoker(rdb)
	exp := time.Now().Add(time.Hour)

	const callers = 8
	var (
		wg   sync.WaitGroup
		wins atomic.Int32
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			won, err := r.Claim(ctx, "jti-refresh", exp)
			if err == nil && won {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	assert.True(t, mr.Exists(revokedKey("jti-refresh")))

	revoked, err := r.IsRevoked(ctx, "jti-refresh")
	require.NoError(t, err)
	assert.True(t, revoked)

	won, err := r.Claim(ctx, "jti-expired", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.False(t, won)
}
