package mealplan

import (
	"fmt"

	"github.com/alchemorsel/mealplanner/internal/domain/recipe"
)

// SlotShares is the fraction of daily calories assigned to each meal slot
var SlotShares = map[recipe.MealType]float64{
	recipe.MealTypeBreakfast: 0.25,
	recipe.MealTypeLunch:     0.35,
	recipe.MealTypeDinner:    0.30,
	recipe.MealTypeSnack:     0.10,
}

// PlacedMeal is a recipe served at a portion multiplier in one slot
type PlacedMeal struct {
	Slot    recipe.MealType
	Recipe  *recipe.Recipe
	Portion float64
}

// Macros returns the meal's unrounded macros
func (m PlacedMeal) Macros() recipe.Macros {
	return m.Recipe.Macros().Scale(m.Portion)
}

// DayPlan is one fully assembled day. It is never mutated after assembly and
// may be shared by several day positions.
type DayPlan struct {
	Meals  []PlacedMeal
	Totals recipe.Macros
}

// Meal returns the meal served in a slot
func (d *DayPlan) Meal(slot recipe.MealType) (PlacedMeal, bool) {
	for _, m := range d.Meals {
		if m.Slot == slot {
			return m, true
		}
	}
	return PlacedMeal{}, false
}

// DayAssembler builds fresh days from a catalog
type DayAssembler struct {
	selector *Selector
}

// NewDayAssembler creates a day assembler
func NewDayAssembler(selector *Selector) *DayAssembler {
	return &DayAssembler{selector: selector}
}

// Assemble fills every slot and records the chosen recipes in used, which may be nil
func (a *DayAssembler) Assemble(catalog *Catalog, dailyCalories int, preferSimple bool, used *UsageLog) (*DayPlan, error) {
	day := &DayPlan{Meals: make([]PlacedMeal, 0, len(recipe.MealTypes))}

	var totals recipe.Macros
	for _, slot := range recipe.MealTypes {
		candidates, err := catalog.Candidates(slot)
		if err != nil {
			return nil, err
		}

		budget := float64(dailyCalories) * SlotShares[slot]
		chosen := a.selector.Select(candidates, budget, preferSimple, used)
		if chosen == nil {
			return nil, &SlotError{Slot: slot, Err: fmt.Errorf("%w: selector returned nothing", ErrNoRecipesForSlot)}
		}

		meal := PlacedMeal{Slot: slot, Recipe: chosen, Portion: ScalePortion(chosen, budget)}
		totals = totals.Add(meal.Macros())
		day.Meals = append(day.Meals, meal)
	}
	day.Totals = totals.Rounded()

	if used != nil {
		for _, m := range day.Meals {
			used.Add(m.Recipe.ID())
		}
	}

	return day, nil
}
