package cache

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/attendance-api/internal/domain"
)

// Generation is a snapshot of an invalidation counter. Every
// InvalidateUser call advances the counter of that user and of the list.
type Generation int64

// UserCache holds single users and the full user list.
//
// Get methods report a miss with ok == false and a nil error. Errors are
// reserved for backend failures; callers treat them as misses.
//
// To fill the cache after a miss, take the generation before reading the
// store and pass it to the matching Set. The Set is dropped when an
// invalidation happened in between, so a stale read never overwrites a
// newer write.
type UserCache interface {
	GetUser(ctx context.Context, id uuid.UUID) (user *domain.User, ok bool, err error)
	UserGeneration(ctx context.Context, id uuid.UUID) (Generation, error)
	SetUser(ctx context.Context, user *domain.User, gen Generation) error

	GetUserList(ctx context.Context) (users []*domain.User, ok bool, err error)
	ListGeneration(ctx context.Context) (Generation, error)
	SetUserList(ctx context.Context, users []*domain.User, gen Generation) error

	// InvalidateUser drops the user entry and the list.
	InvalidateUser(ctx context.Context, id uuid.UUID) error
}
