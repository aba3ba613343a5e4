package cache

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/attendance-api/internal/events"
)

// InvalidationHandler drops cached users when user events arrive.
type InvalidationHandler struct {
	cache  UserCache
	logger *slog.Logger
}

var _ events.EventHandler = (*InvalidationHandler)(nil)

// NewInvalidationHandler returns a handler bound to cache.
func NewInvalidationHandler(cache UserCache, logger *slog.Logger) *InvalidationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &InvalidationHandler{
		cache:  cache,
		logger: logger.With(slog.String("component", "cache_invalidation")),
	}
}

// HandleEvent implements events.EventHandler. Unrelated events are ignored.
func (h *InvalidationHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	if event.Type != events.TypeUserCreated && event.Type != events.TypeUserUpdated {
		return nil
	}

	var payload events.UserChanged
	if err := event.UnmarshalPayload(&payload); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", event.Type, err)
	}

	if err := h.cache.InvalidateUser(ctx, payload.UserID); err != nil {
		return fmt.Errorf("failed to invalidate user %s: %w", payload.UserID, err)
	}

	h.logger.Debug("user cache invalidated",
		slog.String("event_type", event.Type),
		slog.String("user_id", payload.UserID.String()))
	return nil
}
