package container

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alchemorsel/mealplanner/internal/domain/mealplan"
	"github.com/alchemorsel/mealplanner/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type countingSink struct{ names []string }

func (c *countingSink) EventDispatched(name string) { c.names = append(c.names, name) }

func TestEventDispatcher(t *testing.T) {
	ctx := context.Background()
	event := mealplan.PlanGeneratedEvent{PlanID: uuid.New(), UserID: uuid.New(), Days: 14, ReusedDays: 3, Timestamp: time.Now()}

	t.Run("DeliversToEveryHandler", func(t *testing.T) {
		d := NewEventDispatcher(zap.NewNop())
		var calls []string
		d.Register("plan.generated", func(ctx context.Context, e shared.DomainEvent) error {
			calls = append(calls, "first")
			return nil
		})
		d.Register("plan.generated", func(ctx context.Context, e shared.DomainEvent) error {
			calls = append(calls, "second")
			return nil
		})

		require.NoError(t, d.Publish(ctx, event))
		assert.Equal(t, []string{"first", "second"}, calls)
	})

	t.Run("FailingHandlerDoesNotStopOthers", func(t *testing.T) {
		d := NewEventDispatcher(zap.NewNop())
		boom := errors.New("boom")
		ran := false
		d.Register("plan.generated", func(context.Context, shared.DomainEvent) error { return boom })
		d.Register("plan.generated", func(context.Context, shared.DomainEvent) error {
			ran = true
			return nil
		})

		err := d.Publish(ctx, event)

		assert.ErrorIs(t, err, boom)
		assert.True(t, ran)
	})

	t.Run("UnhandledEventIsIgnored", func(t *testing.T) {
		d := NewEventDispatcher(zap.NewNop())
		assert.NoError(t, d.Publish(ctx, event))
	})
}

func TestPlanGeneratedHandler(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sink := &countingSink{}
	handler := PlanGeneratedHandler(sink, zap.New(core))
	event := mealplan.PlanGeneratedEvent{PlanID: uuid.New(), UserID: uuid.New(), Days: 7, ReusedDays: 2}

	require.NoError(t, handler(context.Background(), event))

	assert.Equal(t, []string{"plan.generated"}, sink.names)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, int64(2), logs.All()[0].ContextMap()["reused_days"])
}
