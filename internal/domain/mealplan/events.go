package mealplan

import (
	"time"

	"github.com/google/uuid"
)

// PlanGeneratedEvent is raised when a plan has been assembled
type PlanGeneratedEvent struct {
	PlanID     uuid.UUID
	UserID     uuid.UUID
	Days       int
	ReusedDays int
	Timestamp  time.Time
}

// EventName returns the event name
func (e PlanGeneratedEvent) EventName() string {
	return "plan.generated"
}

// OccurredAt returns when the event occurred
func (e PlanGeneratedEvent) OccurredAt() time.Time {
	return e.Timestamp
}
