package mealplan

import (
	"github.com/alchemorsel/mealplanner/internal/domain/recipe"
	"github.com/alchemorsel/mealplanner/test/testutils"
)

// scriptedRand replays fixed draws; when exhausted IntN returns 0 and Float64 0.99
type scriptedRand struct {
	ints   []int
	floats []float64
}

func (s *scriptedRand) IntN(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

func (s *scriptedRand) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.99
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func withCalories(slot recipe.MealType, calories float64) *recipe.Recipe {
	return testutils.NewRecipeBuilder(nil).
		WithMealType(slot).
		WithComplexity(recipe.ComplexitySimple).
		WithCalories(calories).
		MustBuild()
}

// fullCatalog has one recipe per slot
func fullCatalog() []*recipe.Recipe {
	return []*recipe.Recipe{
		withCalories(recipe.MealTypeBreakfast, 500),
		withCalories(recipe.MealTypeLunch, 700),
		withCalories(recipe.MealTypeDinner, 600),
		withCalories(recipe.MealTypeSnack, 200),
	}
}
