package mealplan

import (
	"errors"
	"fmt"

	"github.com/alchemorsel/mealplanner/internal/domain/recipe"
)

var (
	ErrNoRecipesForSlot     = errors.New("no eligible recipes for meal slot")
	ErrPlanGenerationFailed = errors.New("plan generation failed")
	ErrInvalidWeeks         = errors.New("weeks must be at least 1")
	ErrInvalidRepeatDays    = errors.New("allow repeat days must be between 0 and 7")
)

// SlotError names the meal slot an error relates to
type SlotError struct {
	Slot recipe.MealType
	Err  error
}

func (e *SlotError) Error() string {
	return fmt.Sprintf("%s: %v", e.Slot, e.Err)
}

func (e *SlotError) Unwrap() error {
	return e.Err
}

// FailedSlot returns the slot named by a SlotError in err's chain
func FailedSlot(err error) (recipe.MealType, bool) {
	var slotErr *SlotError
	if errors.As(err, &slotErr) {
		return slotErr.Slot, true
	}
	return "", false
}
