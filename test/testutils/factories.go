// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"fmt"
	"time"

	"github.com/alchemorsel/mealplanner/internal/domain/recipe"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
)

// CatalogFactory provides methods to create test products and recipes
type CatalogFactory struct {
	faker *gofakeit.Faker
}

// NewCatalogFactory creates a new catalog factory with seeded faker
func NewCatalogFactory(seed int64) *CatalogFactory {
	return &CatalogFactory{
		faker: gofakeit.New(seed),
	}
}

// Product creates a product with plausible per-100g macros
func (f *CatalogFactory) Product(tags ...uuid.UUID) *recipe.Product {
	protein := f.faker.Float64Range(0, 30)
	fat := f.faker.Float64Range(0, 25)
	carbs := f.faker.Float64Range(0, 70)

	return &recipe.Product{
		ID:       uuid.New(),
		Name:     f.faker.Fruit() + " " + f.faker.Noun(),
		Category: f.faker.RandomString([]string{"grains", "dairy", "meat", "vegetables", "fruit", "pantry"}),
		Per100g: recipe.Macros{
			Calories: recipe.RoundTo(protein*4+fat*9+carbs*4, 1),
			Protein:  recipe.RoundTo(protein, 1),
			Fat:      recipe.RoundTo(fat, 1),
			Carbs:    recipe.RoundTo(carbs, 1),
		},
		CookingRatio: recipe.RoundTo(f.faker.Float64Range(0.8, 2.5), 2),
		Perishable:   f.faker.Bool(),
		TagIDs:       tags,
	}
}

// Products creates n products
func (f *CatalogFactory) Products(n int) []*recipe.Product {
	products := make([]*recipe.Product, n)
	for i := range products {
		products[i] = f.Product()
	}
	return products
}

// Recipe creates a recipe for a meal type using 2-4 products from the pool
func (f *CatalogFactory) Recipe(mealType recipe.MealType, pool []*recipe.Product) *recipe.Recipe {
	return NewRecipeBuilder(f.faker).
		WithMealType(mealType).
		WithItems(f.items(pool)...).
		MustBuild()
}

// Catalog creates perSlot recipes for every meal type over a shared product pool
func (f *CatalogFactory) Catalog(perSlot int, pool []*recipe.Product) []*recipe.Recipe {
	recipes := make([]*recipe.Recipe, 0, perSlot*len(recipe.MealTypes))
	for _, mt := range recipe.MealTypes {
		for i := 0; i < perSlot; i++ {
			recipes = append(recipes, f.Recipe(mt, pool))
		}
	}
	return recipes
}

func (f *CatalogFactory) items(pool []*recipe.Product) []recipe.Item {
	n := f.faker.Number(2, 4)
	items := make([]recipe.Item, 0, n)
	seen := make(map[uuid.UUID]bool, n)
	for len(items) < n && len(seen) < len(pool) {
		p := pool[f.faker.Number(0, len(pool)-1)]
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		items = append(items, recipe.Item{
			Product:     p,
			AmountGrams: float64(f.faker.Number(20, 250)),
			Optional:    f.faker.Number(1, 10) == 1,
		})
	}
	return items
}

// RecipeBuilder provides a fluent interface for building test recipes
type RecipeBuilder struct {
	params recipe.Params
}

// NewRecipeBuilder creates a new recipe builder with default values
func NewRecipeBuilder(faker *gofakeit.Faker) *RecipeBuilder {
	if faker == nil {
		faker = gofakeit.New(time.Now().UnixNano())
	}

	return &RecipeBuilder{
		params: recipe.Params{
			ID:          uuid.New(),
			Name:        faker.Adjective() + " " + faker.Dessert(),
			MealType:    recipe.MealTypeLunch,
			Complexity:  recipe.Complexity(faker.RandomString([]string{"simple", "medium", "complex"})),
			CookingTime: time.Duration(faker.Number(5, 90)) * time.Minute,
			MinPortion:  0.5,
			MaxPortion:  2.0,
			Active:      true,
		},
	}
}

// WithName sets the recipe name
func (rb *RecipeBuilder) WithName(name string) *RecipeBuilder {
	rb.params.Name = name
	return rb
}

// WithMealType sets the meal type
func (rb *RecipeBuilder) WithMealType(mt recipe.MealType) *RecipeBuilder {
	rb.params.MealType = mt
	return rb
}

// WithComplexity sets the complexity
func (rb *RecipeBuilder) WithComplexity(c recipe.Complexity) *RecipeBuilder {
	rb.params.Complexity = c
	return rb
}

// WithPortionRange sets the serving range
func (rb *RecipeBuilder) WithPortionRange(minPortion, maxPortion float64) *RecipeBuilder {
	rb.params.MinPortion = minPortion
	rb.params.MaxPortion = maxPortion
	return rb
}

// WithItems sets the recipe items
func (rb *RecipeBuilder) WithItems(items ...recipe.Item) *RecipeBuilder {
	rb.params.Items = items
	return rb
}

// WithCalories gives the recipe a single 100 g item of a product with the given calories
func (rb *RecipeBuilder) WithCalories(calories float64) *RecipeBuilder {
	rb.params.Items = []recipe.Item{{
		Product: &recipe.Product{
			ID:         uuid.New(),
			Name:       fmt.Sprintf("ingredient-%.0f", calories),
			Per100g:    recipe.Macros{Calories: calories, Protein: calories / 20, Fat: calories / 40, Carbs: calories / 10},
			Perishable: true,
		},
		AmountGrams: 100,
	}}
	return rb
}

// Inactive marks the recipe as inactive
func (rb *RecipeBuilder) Inactive() *RecipeBuilder {
	rb.params.Active = false
	return rb
}

// Build builds the recipe
func (rb *RecipeBuilder) Build() (*recipe.Recipe, error) {
	return recipe.NewRecipe(rb.params)
}

// MustBuild builds the recipe and panics on validation errors
func (rb *RecipeBuilder) MustBuild() *recipe.Recipe {
	r, err := rb.Build()
	if err != nil {
		panic(fmt.Sprintf("testutils: invalid recipe: %v", err))
	}
	return r
}
