package mealplan

import (
	"testing"

	"github.com/alchemorsel/mealplanner/internal/domain/recipe"
	"github.com/alchemorsel/mealplanner/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type SelectorTestSuite struct {
	suite.Suite
	r400, r480, r510, r700, r900 *recipe.Recipe
	candidates                   []*recipe.Recipe
}

func TestSelectorTestSuite(t *testing.T) {
	suite.Run(t, new(SelectorTestSuite))
}

func (s *SelectorTestSuite) SetupTest() {
	s.r400 = withCalories(recipe.MealTypeLunch, 400)
	s.r480 = withCalories(recipe.MealTypeLunch, 480)
	s.r510 = withCalories(recipe.MealTypeLunch, 510)
	s.r700 = withCalories(recipe.MealTypeLunch, 700)
	s.r900 = withCalories(recipe.MealTypeLunch, 900)
	s.candidates = []*recipe.Recipe{s.r900, s.r400, s.r700, s.r510, s.r480}
}

func (s *SelectorTestSuite) TestRanking() {
	s.Run("EachTopIndex_ShouldMapToRankedCandidate", func() {
		// budget 500: 510 (10), 480 (20), 400 (100), 700 (200), 900 (400)
		want := []*recipe.Recipe{s.r510, s.r480, s.r400}
		for i, expected := range want {
			sel := NewSelector(&scriptedRand{ints: []int{i}})

			got := sel.Select(s.candidates, 500, false, nil)

			assert.Same(s.T(), expected, got)
		}
	})

	s.Run("FewerThanThree_ShouldDrawFromAll", func() {
		var bounds []int
		rnd := &boundRecorder{}
		sel := NewSelector(rnd)

		sel.Select([]*recipe.Recipe{s.r400, s.r900}, 500, false, nil)
		bounds = rnd.bounds

		assert.Equal(s.T(), []int{2}, bounds)
	})

	s.Run("Empty_ShouldReturnNil", func() {
		assert.Nil(s.T(), NewSelector(&scriptedRand{}).Select(nil, 500, false, nil))
	})
}

func (s *SelectorTestSuite) TestPreferSimple() {
	complexNear := testutils.NewRecipeBuilder(nil).
		WithMealType(recipe.MealTypeLunch).
		WithComplexity(recipe.ComplexityComplex).
		WithCalories(505).
		MustBuild()
	simpleFar := withCalories(recipe.MealTypeLunch, 560)

	s.Run("Penalty_ShouldDemoteNonSimpleRecipes", func() {
		sel := NewSelector(&scriptedRand{ints: []int{0}})

		got := sel.Select([]*recipe.Recipe{complexNear, simpleFar}, 500, true, nil)

		// 5+100 for the complex one against 60 for the simple one
		assert.Same(s.T(), simpleFar, got)
	})

	s.Run("NoPreference_ShouldKeepClosest", func() {
		sel := NewSelector(&scriptedRand{ints: []int{0}})

		got := sel.Select([]*recipe.Recipe{complexNear, simpleFar}, 500, false, nil)

		assert.Same(s.T(), complexNear, got)
	})

	s.Run("Penalty_ShouldNotHideMatchBeyondHandicap", func() {
		simpleVeryFar := withCalories(recipe.MealTypeLunch, 700)
		sel := NewSelector(&scriptedRand{ints: []int{0}})

		got := sel.Select([]*recipe.Recipe{complexNear, simpleVeryFar}, 500, true, nil)

		assert.Same(s.T(), complexNear, got)
	})
}

func (s *SelectorTestSuite) TestUsedRecipes() {
	s.Run("UsedRecipes_ShouldBeSkipped", func() {
		used := NewUsageLog()
		used.Add(s.r510.ID())
		used.Add(s.r480.ID())
		sel := NewSelector(&scriptedRand{ints: []int{0}})

		got := sel.Select(s.candidates, 500, false, used)

		assert.Same(s.T(), s.r400, got)
	})

	s.Run("AllUsed_ShouldFallBackToFullList", func() {
		used := NewUsageLog()
		for _, r := range s.candidates {
			used.Add(r.ID())
		}
		sel := NewSelector(&scriptedRand{ints: []int{0}})

		got := sel.Select(s.candidates, 500, false, used)

		assert.Same(s.T(), s.r510, got)
	})
}

func TestUsageLog(t *testing.T) {
	log := NewUsageLog()
	r := withCalories(recipe.MealTypeSnack, 100)

	log.Add(r.ID())
	log.Add(r.ID())

	assert.Equal(t, 1, log.Len())
	assert.True(t, log.Contains(r.ID()))
}

type boundRecorder struct {
	bounds []int
}

func (b *boundRecorder) IntN(n int) int {
	b.bounds = append(b.bounds, n)
	return 0
}

func (b *boundRecorder) Float64() float64 { return 0 }
