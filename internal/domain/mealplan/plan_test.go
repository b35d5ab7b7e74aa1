package mealplan

import (
	"testing"

	"github.com/alchemorsel/mealplanner/internal/domain/nutrition"
	"github.com/alchemorsel/mealplanner/internal/domain/recipe"
	"github.com/alchemorsel/mealplanner/test/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type AssemblerTestSuite struct {
	suite.Suite
	factory *testutils.CatalogFactory
	catalog *Catalog
	target  nutrition.Target
	userID  uuid.UUID
}

func TestAssemblerTestSuite(t *testing.T) {
	suite.Run(t, new(AssemblerTestSuite))
}

func (s *AssemblerTestSuite) SetupTest() {
	s.factory = testutils.NewCatalogFactory(42)
	pool := s.factory.Products(25)
	s.catalog = NewCatalog(s.factory.Catalog(6, pool), Exclusions{})

	target, err := nutrition.CalculateTargets(80, nutrition.GoalWeightLoss)
	s.Require().NoError(err)
	s.target = target
	s.userID = uuid.New()
}

func (s *AssemblerTestSuite) assemble(seed uint64, opts Options) *Plan {
	plan, err := NewAssembler(NewSeededRand(seed)).Assemble(s.userID, s.target, s.catalog, opts)
	s.Require().NoError(err)
	return plan
}

func (s *AssemblerTestSuite) TestPlanShape() {
	s.Run("TwoWeeks_ShouldHaveFourteenIndexedDays", func() {
		plan := s.assemble(1, Options{Weeks: 2, AllowRepeatDays: 2})

		require.Len(s.T(), plan.Days, 14)
		assert.Equal(s.T(), 2, plan.Weeks())
		for i, d := range plan.Days {
			assert.Equal(s.T(), i, d.Index)
			assert.Equal(s.T(), i/7+1, d.Week)
			require.Len(s.T(), d.Plan.Meals, 4)
		}
		assert.Equal(s.T(), s.userID, plan.UserID)
		assert.Equal(s.T(), s.target, plan.Target)
	})

	s.Run("SameSeed_ShouldBeDeterministic", func() {
		a := s.assemble(99, Options{Weeks: 1, AllowRepeatDays: 3, PreferSimple: true})
		b := s.assemble(99, Options{Weeks: 1, AllowRepeatDays: 3, PreferSimple: true})

		for i := range a.Days {
			for j, meal := range a.Days[i].Plan.Meals {
				assert.Equal(s.T(), meal.Recipe.ID(), b.Days[i].Plan.Meals[j].Recipe.ID())
				assert.Equal(s.T(), meal.Portion, b.Days[i].Plan.Meals[j].Portion)
			}
		}
	})
}

func (s *AssemblerTestSuite) TestPortionsStayInRange() {
	for seed := uint64(1); seed <= 5; seed++ {
		plan := s.assemble(seed, Options{Weeks: 3, AllowRepeatDays: 4})
		for _, d := range plan.Days {
			for _, m := range d.Plan.Meals {
				assert.GreaterOrEqual(s.T(), m.Portion, m.Recipe.MinPortion())
				assert.LessOrEqual(s.T(), m.Portion, m.Recipe.MaxPortion())
			}
		}
	}
}

func (s *AssemblerTestSuite) TestAverageCountsEveryOccurrence() {
	plan := s.assemble(7, Options{Weeks: 4, AllowRepeatDays: 5})

	var sum recipe.Macros
	for _, d := range plan.Days {
		sum = sum.Add(d.Plan.Totals)
	}
	n := float64(len(plan.Days))

	assert.Greater(s.T(), plan.Stats.ReusedDays, 0)
	assert.InDelta(s.T(), sum.Calories/n, plan.Average.Calories, 0.05)
	assert.InDelta(s.T(), sum.Protein/n, plan.Average.Protein, 0.05)
	assert.InDelta(s.T(), sum.Fat/n, plan.Average.Fat, 0.05)
	assert.InDelta(s.T(), sum.Carbs/n, plan.Average.Carbs, 0.05)
}

func (s *AssemblerTestSuite) TestShoppingListMatchesDayRecords() {
	plan := s.assemble(11, Options{Weeks: 2, AllowRepeatDays: 4})

	expected := make(map[uuid.UUID]float64)
	weeks := make(map[uuid.UUID]map[int]bool)
	for _, d := range plan.Days {
		for _, m := range d.Plan.Meals {
			for _, item := range m.Recipe.Items() {
				expected[item.Product.ID] += item.AmountGrams * m.Portion
				if weeks[item.Product.ID] == nil {
					weeks[item.Product.ID] = make(map[int]bool)
				}
				weeks[item.Product.ID][d.Week] = true
			}
		}
	}

	require.Len(s.T(), plan.ShoppingList, len(expected))
	for _, item := range plan.ShoppingList {
		assert.InDelta(s.T(), expected[item.Product.ID], item.TotalGrams, 0.05)
		assert.Equal(s.T(), !item.Product.Perishable, item.Monthly)
		assert.Len(s.T(), item.Weeks, len(weeks[item.Product.ID]))
	}
}

func (s *AssemblerTestSuite) TestReuse() {
	s.Run("ZeroRepeatDays_ShouldNeverShareDayPlans", func() {
		plan := s.assemble(3, Options{Weeks: 4, AllowRepeatDays: 0})

		seen := make(map[*DayPlan]bool)
		for _, d := range plan.Days {
			assert.False(s.T(), seen[d.Plan])
			assert.False(s.T(), d.Reused())
			seen[d.Plan] = true
		}
		assert.Zero(s.T(), plan.Stats.ReusedDays)
	})

	s.Run("MaxRepeatDays_ShouldStillYieldSevenPositions", func() {
		// Float64 always 0 forces reuse after the first day
		rnd := &scriptedRand{floats: make([]float64, 7)}
		plan, err := NewAssembler(rnd).Assemble(s.userID, s.target, s.catalog, Options{Weeks: 1, AllowRepeatDays: 7})

		require.NoError(s.T(), err)
		require.Len(s.T(), plan.Days, 7)
		assert.False(s.T(), plan.Days[0].Reused())
		for _, d := range plan.Days[1:] {
			assert.True(s.T(), d.Reused())
			assert.Same(s.T(), plan.Days[0].Plan, d.Plan)
			assert.Equal(s.T(), 0, d.ReusedFrom)
		}
		assert.Equal(s.T(), 6, plan.Stats.ReusedDays)
		assert.Equal(s.T(), 4, plan.Stats.DistinctRecipes)
	})
}

func (s *AssemblerTestSuite) TestFailures() {
	s.Run("EmptySlot_ShouldFailBeforeBuildingAnything", func() {
		pool := s.factory.Products(5)
		noSnacks := make([]*recipe.Recipe, 0)
		for _, mt := range []recipe.MealType{recipe.MealTypeBreakfast, recipe.MealTypeLunch, recipe.MealTypeDinner} {
			noSnacks = append(noSnacks, s.factory.Recipe(mt, pool))
		}

		plan, err := NewAssembler(NewSeededRand(1)).
			Assemble(s.userID, s.target, NewCatalog(noSnacks, Exclusions{}), Options{Weeks: 1})

		assert.Nil(s.T(), plan)
		require.ErrorIs(s.T(), err, ErrPlanGenerationFailed)
		require.ErrorIs(s.T(), err, ErrNoRecipesForSlot)
		slot, ok := FailedSlot(err)
		assert.True(s.T(), ok)
		assert.Equal(s.T(), recipe.MealTypeSnack, slot)
	})

	s.Run("InvalidOptions_ShouldBeRejected", func() {
		a := NewAssembler(NewSeededRand(1))

		_, err := a.Assemble(s.userID, s.target, s.catalog, Options{Weeks: 0})
		assert.ErrorIs(s.T(), err, ErrInvalidWeeks)

		_, err = a.Assemble(s.userID, s.target, s.catalog, Options{Weeks: 1, AllowRepeatDays: 8})
		assert.ErrorIs(s.T(), err, ErrInvalidRepeatDays)
	})
}

func (s *AssemblerTestSuite) TestRaisesPlanGeneratedEvent() {
	plan := s.assemble(5, Options{Weeks: 1})

	events := plan.PullEvents()

	require.Len(s.T(), events, 1)
	evt, ok := events[0].(PlanGeneratedEvent)
	require.True(s.T(), ok)
	assert.Equal(s.T(), plan.ID, evt.PlanID)
	assert.Equal(s.T(), 7, evt.Days)
	assert.Equal(s.T(), "plan.generated", evt.EventName())
	assert.Empty(s.T(), plan.PullEvents())
}
