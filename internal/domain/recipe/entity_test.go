package recipe

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// RecipeTestSuite provides a test suite for Recipe entity
type RecipeTestSuite struct {
	suite.Suite
	oats   *Product
	milk   *Product
	dairy  uuid.UUID
	params Params
}

func TestRecipeTestSuite(t *testing.T) {
	suite.Run(t, new(RecipeTestSuite))
}

func (suite *RecipeTestSuite) SetupTest() {
	suite.dairy = uuid.New()
	suite.oats = &Product{
		ID:      uuid.New(),
		Name:    "Rolled oats",
		Per100g: Macros{Calories: 370, Protein: 13, Fat: 7, Carbs: 60},
	}
	suite.milk = &Product{
		ID:         uuid.New(),
		Name:       "Milk 2.5%",
		Per100g:    Macros{Calories: 52, Protein: 2.9, Fat: 2.5, Carbs: 4.7},
		Perishable: true,
		TagIDs:     []uuid.UUID{suite.dairy},
	}
	suite.params = Params{
		Name:        "Porridge",
		MealType:    MealTypeBreakfast,
		Complexity:  ComplexitySimple,
		CookingTime: 10 * time.Minute,
		MinPortion:  0.5,
		MaxPortion:  2,
		Active:      true,
		Items: []Item{
			{Product: suite.oats, AmountGrams: 80},
			{Product: suite.milk, AmountGrams: 200},
		},
	}
}

func (suite *RecipeTestSuite) TestRecipeCreation() {
	suite.Run("ValidParams_ShouldRecomputeMacros", func() {
		// Act
		r, err := NewRecipe(suite.params)

		// Assert
		require.NoError(suite.T(), err)
		assert.NotEqual(suite.T(), uuid.Nil, r.ID())
		assert.True(suite.T(), r.IsSimple())
		// 0.8*370 + 2*52 = 400 kcal
		assert.Equal(suite.T(), Macros{Calories: 400, Protein: 16.2, Fat: 10.6, Carbs: 57.4}, r.Macros())
	})

	suite.Run("StoredMacros_ShouldBeKept", func() {
		p := suite.params
		p.Macros = &Macros{Calories: 410, Protein: 16, Fat: 10, Carbs: 58}

		r, err := NewRecipe(p)

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), 410.0, r.Macros().Calories)
	})

	suite.Run("ItemsCopy_ShouldNotAliasInternalState", func() {
		r, err := NewRecipe(suite.params)
		require.NoError(suite.T(), err)

		items := r.Items()
		items[0].AmountGrams = 1

		assert.Equal(suite.T(), 80.0, r.Items()[0].AmountGrams)
	})
}

func (suite *RecipeTestSuite) TestRecipeValidation() {
	cases := []struct {
		name   string
		mutate func(p *Params)
		want   error
	}{
		{"EmptyName_ShouldFail", func(p *Params) { p.Name = "" }, ErrNameRequired},
		{"UnknownMealType_ShouldFail", func(p *Params) { p.MealType = "brunch" }, ErrInvalidMealType},
		{"UnknownComplexity_ShouldFail", func(p *Params) { p.Complexity = "hard" }, ErrInvalidComplexity},
		{"ZeroMinPortion_ShouldFail", func(p *Params) { p.MinPortion = 0 }, ErrInvalidPortion},
		{"InvertedPortionRange_ShouldFail", func(p *Params) { p.MaxPortion = 0.4 }, ErrInvalidPortionSpan},
		{"NoItems_ShouldFail", func(p *Params) { p.Items = nil }, ErrNoItems},
		{"ZeroAmount_ShouldFail", func(p *Params) { p.Items = []Item{{Product: suite.oats}} }, ErrInvalidAmount},
		{"NilProduct_ShouldFail", func(p *Params) { p.Items = []Item{{AmountGrams: 10}} }, ErrMissingProduct},
		{"NegativeStoredMacros_ShouldFail", func(p *Params) { p.Macros = &Macros{Calories: -1} }, ErrNegativeMacros},
	}

	for _, tc := range cases {
		suite.Run(tc.name, func() {
			p := suite.params
			tc.mutate(&p)

			r, err := NewRecipe(p)

			assert.Nil(suite.T(), r)
			assert.Equal(suite.T(), tc.want, err)
		})
	}
}

func (suite *RecipeTestSuite) TestExclusionHelpers() {
	r, err := NewRecipe(suite.params)
	require.NoError(suite.T(), err)

	assert.True(suite.T(), r.UsesProduct(map[uuid.UUID]struct{}{suite.oats.ID: {}}))
	assert.False(suite.T(), r.UsesProduct(map[uuid.UUID]struct{}{uuid.New(): {}}))
	assert.True(suite.T(), r.UsesTag(map[uuid.UUID]struct{}{suite.dairy: {}}))
	assert.False(suite.T(), r.UsesTag(map[uuid.UUID]struct{}{}))
}

func TestMacrosRounded(t *testing.T) {
	m := Macros{Calories: 612.5, Protein: 31.25, Fat: 12.04, Carbs: 80.05}.Rounded()

	assert.Equal(t, 613.0, m.Calories)
	assert.Equal(t, 31.3, m.Protein)
	assert.Equal(t, 12.0, m.Fat)
	assert.InDelta(t, 80.1, m.Carbs, 0.05)
}
