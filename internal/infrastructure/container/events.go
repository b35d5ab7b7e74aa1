package container

import (
	"context"
	"errors"
	"sync"

	"github.com/alchemorsel/mealplanner/internal/domain/mealplan"
	"github.com/alchemorsel/mealplanner/internal/domain/shared"
	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
	"go.uber.org/zap"
)

// EventDispatcher delivers domain events to handlers registered by name
type EventDispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]shared.EventHandler
	log      *zap.Logger
}

var _ outbound.EventPublisher = (*EventDispatcher)(nil)

// NewEventDispatcher creates a new event dispatcher
func NewEventDispatcher(log *zap.Logger) *EventDispatcher {
	return &EventDispatcher{
		handlers: make(map[string][]shared.EventHandler),
		log:      log.Named("events"),
	}
}

// Register registers an event handler
func (d *EventDispatcher) Register(event string, handler shared.EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[event] = append(d.handlers[event], handler)
	d.log.Debug("Registered event handler", zap.String("event", event))
}

// Publish runs every handler of every event. A failing handler does not stop
// the others; all failures are returned together.
func (d *EventDispatcher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	var errs []error
	for _, event := range events {
		d.mu.RLock()
		handlers := d.handlers[event.EventName()]
		d.mu.RUnlock()

		if len(handlers) == 0 {
			d.log.Debug("No handlers registered for event", zap.String("event", event.EventName()))
			continue
		}
		for _, handler := range handlers {
			if err := handler(ctx, event); err != nil {
				d.log.Error("Failed to handle event",
					zap.String("event", event.EventName()),
					zap.Error(err),
				)
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// EventCounter is the metric sink of the default handlers
type EventCounter interface {
	EventDispatched(name string)
}

// PlanGeneratedHandler logs generated plans and counts them
func PlanGeneratedHandler(counter EventCounter, log *zap.Logger) shared.EventHandler {
	return func(ctx context.Context, event shared.DomainEvent) error {
		e, ok := event.(mealplan.PlanGeneratedEvent)
		if !ok {
			return nil
		}
		log.Info("Plan generated event received",
			zap.String("plan_id", e.PlanID.String()),
			zap.String("user_id", e.UserID.String()),
			zap.Int("days", e.Days),
			zap.Int("reused_days", e.ReusedDays),
		)
		if counter != nil {
			counter.EventDispatched(e.EventName())
		}
		return nil
	}
}
