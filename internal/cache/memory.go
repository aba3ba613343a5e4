package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/attendance-api/internal/domain"
)

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// MemoryUserCache is a process-local UserCache with a fixed TTL.
type MemoryUserCache struct {
	mu    sync.RWMutex
	ttl   time.Duration
	now   func() time.Time
	users map[uuid.UUID]entry[domain.User]
	list  *entry[[]domain.User]

	userGens map[uuid.UUID]Generation
	listGen  Generation
}

var _ UserCache = (*MemoryUserCache)(nil)

// NewMemoryUserCache creates a cache whose entries live for ttl. A
// non-positive ttl keeps entries until invalidated.
func NewMemoryUserCache(ttl time.Duration) *MemoryUserCache {
	return &MemoryUserCache{
		ttl:      ttl,
		now:      time.Now,
		users:    make(map[uuid.UUID]entry[domain.User]),
		userGens: make(map[uuid.UUID]Generation),
	}
}

func (c *MemoryUserCache) expiry() time.Time {
	if c.ttl <= 0 {
		return time.Time{}
	}
	return c.now().Add(c.ttl)
}

func (c *MemoryUserCache) live(expiresAt time.Time) bool {
	return expiresAt.IsZero() || c.now().Before(expiresAt)
}

// cloneUser copies u including its slices, so callers and the cache never
// share backing arrays.
func cloneUser(u domain.User) domain.User {
	if u.LeaveTransactionHistory != nil {
		history := make([]domain.LeaveTransaction, len(u.LeaveTransactionHistory))
		copy(history, u.LeaveTransactionHistory)
		u.LeaveTransactionHistory = history
	}
	if u.RemoteWorkRecommender != nil {
		recommenders := make([]string, len(u.RemoteWorkRecommender))
		copy(recommenders, u.RemoteWorkRecommender)
		u.RemoteWorkRecommender = recommenders
	}
	if u.Birthday != nil {
		b := *u.Birthday
		u.Birthday = &b
	}
	if u.StartDate != nil {
		s := *u.StartDate
		u.StartDate = &s
	}
	return u
}

// GetUser implements UserCache. The returned user is a copy.
func (c *MemoryUserCache) GetUser(_ context.Context, id uuid.UUID) (*domain.User, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.users[id]
	if !ok || !c.live(e.expiresAt) {
		return nil, false, nil
	}
	u := cloneUser(e.value)
	return &u, true, nil
}

// UserGeneration implements UserCache.
func (c *MemoryUserCache) UserGeneration(_ context.Context, id uuid.UUID) (Generation, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userGens[id], nil
}

// SetUser implements UserCache.
func (c *MemoryUserCache) SetUser(_ context.Context, user *domain.User, gen Generation) error {
	value := cloneUser(*user)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.userGens[user.ID] != gen {
		return nil
	}
	c.users[user.ID] = entry[domain.User]{value: value, expiresAt: c.expiry()}
	return nil
}

// GetUserList implements UserCache.
func (c *MemoryUserCache) GetUserList(_ context.Context) ([]*domain.User, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.list == nil || !c.live(c.list.expiresAt) {
		return nil, false, nil
	}
	out := make([]*domain.User, len(c.list.value))
	for i := range c.list.value {
		u := cloneUser(c.list.value[i])
		out[i] = &u
	}
	return out, true, nil
}

// ListGeneration implements UserCache.
func (c *MemoryUserCache) ListGeneration(_ context.Context) (Generation, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.listGen, nil
}

// SetUserList implements UserCache.
func (c *MemoryUserCache) SetUserList(_ context.Context, users []*domain.User, gen Generation) error {
	values := make([]domain.User, len(users))
	for i, u := range users {
		values[i] = cloneUser(*u)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.listGen != gen {
		return nil
	}
	c.list = &entry[[]domain.User]{value: values, expiresAt: c.expiry()}
	return nil
}

// InvalidateUser implements UserCache.
func (c *MemoryUserCache) InvalidateUser(_ context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.users, id)
	c.list = nil
	c.userGens[id]++
	c.listGen++
	return nil
}
