package mealplan

import "github.com/alchemorsel/mealplanner/internal/domain/recipe"

// ScalePortion returns the multiplier bringing a recipe closest to the
// calorie budget without leaving its serving range
func ScalePortion(r *recipe.Recipe, budget float64) float64 {
	calories := r.Macros().Calories
	if calories == 0 {
		calories = 1
	}

	multiplier := min(max(budget/calories, r.MinPortion()), r.MaxPortion())
	rounded := recipe.RoundTo(multiplier, 1)

	// Rounding to one decimal must not step outside the range either.
	return min(max(rounded, r.MinPortion()), r.MaxPortion())
}
