package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// InMemoryEventEmitter dispatches events synchronously to the handlers
// subscribed to their type. Handlers registered without types receive
// every event.
type InMemoryEventEmitter struct {
	mu       sync.RWMutex
	byType   map[string][]EventHandler
	catchAll []EventHandler
	logger   *slog.Logger
}

var _ EventEmitter = (*InMemoryEventEmitter)(nil)

// NewInMemoryEventEmitter creates an emitter with no subscribers.
func NewInMemoryEventEmitter(logger *slog.Logger) *InMemoryEventEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryEventEmitter{
		byType: make(map[string][]EventHandler),
		logger: logger.With("component", "event_emitter"),
	}
}

// RegisterHandler subscribes handler to the given event types, or to all
// events when none are given.
func (e *InMemoryEventEmitter) RegisterHandler(handler EventHandler, types ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(types) == 0 {
		e.catchAll = append(e.catchAll, handler)
	}
	for _, t := range types {
		e.byType[t] = append(e.byType[t], handler)
	}
	e.logger.Debug("registered event handler", "event_types", types)
}

func (e *InMemoryEventEmitter) handlersFor(eventType string) []EventHandler {
	e.mu.RLock()
	defer e.mu.RUnlock()

	handlers := make([]EventHandler, 0, len(e.catchAll)+len(e.byType[eventType]))
	handlers = append(handlers, e.catchAll...)
	return append(handlers, e.byType[eventType]...)
}

// EmitEvent delivers event to every subscriber. A failing handler does not
// stop delivery; all handler errors are joined into the result.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *Event) error {
	if event == nil {
		return errors.New("event cannot be nil")
	}

	handlers := e.handlersFor(event.Type)
	log := e.logger.With("event_id", event.ID, "event_type", event.Type)
	log.Debug("emitting event", "handler_count", len(handlers))

	var errs []error
	for _, handler := range handlers {
		if err := handler.HandleEvent(ctx, event); err != nil {
			log.Error("event handler failed", "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
