package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/alchemorsel/mealplanner/internal/domain/mealplan"
	"github.com/alchemorsel/mealplanner/internal/domain/nutrition"
	"github.com/alchemorsel/mealplanner/internal/domain/recipe"
	gormModels "github.com/alchemorsel/mealplanner/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Demo user ids
var (
	DemoWeightLossUserID  = uuid.MustParse("6f1c2a8e-3b57-4f0e-9a61-1d2f3c4b5a01")
	DemoMuscleGainUserID  = uuid.MustParse("6f1c2a8e-3b57-4f0e-9a61-1d2f3c4b5a02")
	DemoNoDairyFishUserID = uuid.MustParse("6f1c2a8e-3b57-4f0e-9a61-1d2f3c4b5a03")
)

var demoNamespace = uuid.MustParse("a3e5b2f0-7c1d-4e88-b9a4-5f6d7e8c9b10")

func demoID(kind, name string) uuid.UUID {
	return uuid.NewSHA1(demoNamespace, []byte(kind+":"+name))
}

type demoProduct struct {
	name       string
	category   string
	per100g    recipe.Macros
	ratio      float64
	perishable bool
	tags       []string
}

type demoItem struct {
	product  string
	grams    float64
	optional bool
}

type demoRecipe struct {
	name       string
	slot       recipe.MealType
	complexity recipe.Complexity
	minutes    int
	minPortion float64
	maxPortion float64
	items      []demoItem
}

var demoTags = []string{"dairy", "gluten", "meat", "vegan"}

var demoProducts = []demoProduct{
	{"Rolled oats", "cereals", recipe.Macros{Calories: 389, Protein: 16.9, Fat: 6.9, Carbs: 66.3}, 2.5, false, []string{"gluten", "vegan"}},
	{"Milk", "dairy", recipe.Macros{Calories: 61, Protein: 3.2, Fat: 3.3, Carbs: 4.8}, 1, true, []string{"dairy"}},
	{"Greek yogurt", "dairy", recipe.Macros{Calories: 97, Protein: 9, Fat: 5, Carbs: 3.9}, 1, true, []string{"dairy"}},
	{"Cottage cheese", "dairy", recipe.Macros{Calories: 98, Protein: 11.1, Fat: 4.3, Carbs: 3.4}, 1, true, []string{"dairy"}},
	{"Eggs", "eggs", recipe.Macros{Calories: 143, Protein: 12.6, Fat: 9.5, Carbs: 0.7}, 0.9, true, nil},
	{"Banana", "fruit", recipe.Macros{Calories: 89, Protein: 1.1, Fat: 0.3, Carbs: 22.8}, 1, true, []string{"vegan"}},
	{"Mixed berries", "fruit", recipe.Macros{Calories: 57, Protein: 0.7, Fat: 0.3, Carbs: 14.5}, 1, true, []string{"vegan"}},
	{"Apple", "fruit", recipe.Macros{Calories: 52, Protein: 0.3, Fat: 0.2, Carbs: 13.8}, 1, true, []string{"vegan"}},
	{"Wholegrain bread", "bakery", recipe.Macros{Calories: 247, Protein: 13, Fat: 3.4, Carbs: 41}, 1, true, []string{"gluten", "vegan"}},
	{"Chicken breast", "meat", recipe.Macros{Calories: 165, Protein: 31, Fat: 3.6, Carbs: 0}, 0.75, true, []string{"meat"}},
	{"Beef mince", "meat", recipe.Macros{Calories: 250, Protein: 26, Fat: 15, Carbs: 0}, 0.7, true, []string{"meat"}},
	{"Salmon fillet", "fish", recipe.Macros{Calories: 208, Protein: 20, Fat: 13, Carbs: 0}, 0.8, true, nil},
	{"Tofu", "vegetarian", recipe.Macros{Calories: 76, Protein: 8, Fat: 4.8, Carbs: 1.9}, 1, true, []string{"vegan"}},
	{"Basmati rice", "grains", recipe.Macros{Calories: 365, Protein: 7.1, Fat: 0.7, Carbs: 80}, 3, false, []string{"vegan"}},
	{"Pasta", "grains", recipe.Macros{Calories: 371, Protein: 13, Fat: 1.5, Carbs: 75}, 2.2, false, []string{"gluten", "vegan"}},
	{"Red lentils", "legumes", recipe.Macros{Calories: 353, Protein: 25, Fat: 1.1, Carbs: 60}, 2.5, false, []string{"vegan"}},
	{"Potatoes", "vegetables", recipe.Macros{Calories: 77, Protein: 2, Fat: 0.1, Carbs: 17}, 1, true, []string{"vegan"}},
	{"Broccoli", "vegetables", recipe.Macros{Calories: 34, Protein: 2.8, Fat: 0.4, Carbs: 7}, 0.9, true, []string{"vegan"}},
	{"Tomatoes", "vegetables", recipe.Macros{Calories: 18, Protein: 0.9, Fat: 0.2, Carbs: 3.9}, 0.9, true, []string{"vegan"}},
	{"Olive oil", "oils", recipe.Macros{Calories: 884, Protein: 0, Fat: 100, Carbs: 0}, 1, false, []string{"vegan"}},
	{"Almonds", "nuts", recipe.Macros{Calories: 579, Protein: 21, Fat: 50, Carbs: 22}, 1, false, []string{"vegan"}},
	{"Peanut butter", "nuts", recipe.Macros{Calories: 588, Protein: 25, Fat: 50, Carbs: 20}, 1, false, []string{"vegan"}},
}

var demoRecipes = []demoRecipe{
	{"Oatmeal with milk and banana", recipe.MealTypeBreakfast, recipe.ComplexitySimple, 10, 0.5, 2, []demoItem{
		{"Rolled oats", 80, false}, {"Milk", 250, false}, {"Banana", 100, false}, {"Mixed berries", 50, true},
	}},
	{"Scrambled eggs on toast", recipe.MealTypeBreakfast, recipe.ComplexitySimple, 10, 0.5, 2, []demoItem{
		{"Eggs", 150, false}, {"Wholegrain bread", 60, false}, {"Olive oil", 5, false},
	}},
	{"Greek yogurt bowl", recipe.MealTypeBreakfast, recipe.ComplexitySimple, 5, 0.5, 2, []demoItem{
		{"Greek yogurt", 200, false}, {"Mixed berries", 100, false}, {"Almonds", 20, false},
	}},
	{"Tofu scramble", recipe.MealTypeBreakfast, recipe.ComplexityMedium, 20, 0.5, 2, []demoItem{
		{"Tofu", 200, false}, {"Tomatoes", 100, false}, {"Wholegrain bread", 60, false}, {"Olive oil", 10, false},
	}},
	{"Chicken rice bowl", recipe.MealTypeLunch, recipe.ComplexityMedium, 30, 0.5, 2.5, []demoItem{
		{"Chicken breast", 150, false}, {"Basmati rice", 80, false}, {"Broccoli", 150, false}, {"Olive oil", 10, false},
	}},
	{"Lentil stew", recipe.MealTypeLunch, recipe.ComplexityMedium, 40, 0.5, 2.5, []demoItem{
		{"Red lentils", 90, false}, {"Tomatoes", 200, false}, {"Potatoes", 150, false}, {"Olive oil", 10, false},
	}},
	{"Pasta al pomodoro", recipe.MealTypeLunch, recipe.ComplexitySimple, 20, 0.5, 2.5, []demoItem{
		{"Pasta", 100, false}, {"Tomatoes", 200, false}, {"Olive oil", 10, false},
	}},
	{"Beef and potato skillet", recipe.MealTypeLunch, recipe.ComplexityComplex, 45, 0.5, 2.5, []demoItem{
		{"Beef mince", 150, false}, {"Potatoes", 250, false}, {"Broccoli", 100, false},
	}},
	{"Baked salmon with potatoes", recipe.MealTypeDinner, recipe.ComplexityMedium, 35, 0.5, 2.5, []demoItem{
		{"Salmon fillet", 150, false}, {"Potatoes", 200, false}, {"Broccoli", 100, false},
	}},
	{"Chicken stir fry", recipe.MealTypeDinner, recipe.ComplexityComplex, 40, 0.5, 2.5, []demoItem{
		{"Chicken breast", 150, false}, {"Basmati rice", 70, false}, {"Broccoli", 100, false}, {"Olive oil", 10, false}, {"Tomatoes", 50, true},
	}},
	{"Tofu and rice", recipe.MealTypeDinner, recipe.ComplexitySimple, 25, 0.5, 2.5, []demoItem{
		{"Tofu", 200, false}, {"Basmati rice", 70, false}, {"Broccoli", 150, false},
	}},
	{"Pasta bolognese", recipe.MealTypeDinner, recipe.ComplexityComplex, 60, 0.5, 2.5, []demoItem{
		{"Pasta", 90, false}, {"Beef mince", 120, false}, {"Tomatoes", 150, false},
	}},
	{"Apple with peanut butter", recipe.MealTypeSnack, recipe.ComplexitySimple, 2, 0.5, 2, []demoItem{
		{"Apple", 150, false}, {"Peanut butter", 20, false},
	}},
	{"Cottage cheese with berries", recipe.MealTypeSnack, recipe.ComplexitySimple, 2, 0.5, 2, []demoItem{
		{"Cottage cheese", 150, false}, {"Mixed berries", 80, false},
	}},
	{"Handful of almonds", recipe.MealTypeSnack, recipe.ComplexitySimple, 1, 0.5, 2, []demoItem{
		{"Almonds", 30, false},
	}},
	{"Banana", recipe.MealTypeSnack, recipe.ComplexitySimple, 1, 0.5, 2, []demoItem{
		{"Banana", 120, false},
	}},
}

// SeedDatabase writes the demo catalog and users unless users already exist.
// Recipe macros are derived from their items before they are stored.
func SeedDatabase(ctx context.Context, db *gorm.DB) error {
	var userCount int64
	if err := db.WithContext(ctx).Model(&gormModels.UserModel{}).Count(&userCount).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if userCount > 0 {
		return nil // Already seeded
	}

	catalog := gormModels.NewCatalogRepository(db)
	users := gormModels.NewUserRepository(db)

	for _, name := range demoTags {
		if err := catalog.SaveTag(ctx, demoID("tag", name), name); err != nil {
			return fmt.Errorf("failed to create demo tag %q: %w", name, err)
		}
	}

	products := make(map[string]*recipe.Product, len(demoProducts))
	for _, dp := range demoProducts {
		p := &recipe.Product{
			ID:           demoID("product", dp.name),
			Name:         dp.name,
			Category:     dp.category,
			Per100g:      dp.per100g,
			CookingRatio: dp.ratio,
			Perishable:   dp.perishable,
		}
		for _, tag := range dp.tags {
			p.TagIDs = append(p.TagIDs, demoID("tag", tag))
		}
		if err := catalog.SaveProduct(ctx, p); err != nil {
			return fmt.Errorf("failed to create demo product %q: %w", dp.name, err)
		}
		products[dp.name] = p
	}

	for _, dr := range demoRecipes {
		items := make([]recipe.Item, 0, len(dr.items))
		for _, it := range dr.items {
			p, ok := products[it.product]
			if !ok {
				return fmt.Errorf("demo recipe %q uses unknown product %q", dr.name, it.product)
			}
			items = append(items, recipe.Item{Product: p, AmountGrams: it.grams, Optional: it.optional})
		}
		rec, err := recipe.NewRecipe(recipe.Params{
			ID:          demoID("recipe", dr.name),
			Name:        dr.name,
			MealType:    dr.slot,
			Complexity:  dr.complexity,
			CookingTime: time.Duration(dr.minutes) * time.Minute,
			MinPortion:  dr.minPortion,
			MaxPortion:  dr.maxPortion,
			Items:       items,
			Active:      true,
		})
		if err != nil {
			return fmt.Errorf("invalid demo recipe %q: %w", dr.name, err)
		}
		if err := catalog.SaveRecipe(ctx, rec); err != nil {
			return fmt.Errorf("failed to create demo recipe %q: %w", dr.name, err)
		}
	}

	demoUsers := []struct {
		id      uuid.UUID
		email   string
		name    string
		profile outbound.UserProfile
		excl    mealplan.Exclusions
	}{
		{
			id: DemoWeightLossUserID, email: "lena@example.com", name: "Lena Demo",
			profile: outbound.UserProfile{WeightKg: 80, Goal: nutrition.GoalWeightLoss},
		},
		{
			id: DemoMuscleGainUserID, email: "marco@example.com", name: "Marco Demo",
			profile: outbound.UserProfile{WeightKg: 70, Goal: nutrition.GoalMuscleGain},
		},
		{
			id: DemoNoDairyFishUserID, email: "sam@example.com", name: "Sam Demo",
			profile: outbound.UserProfile{WeightKg: 65, Goal: nutrition.GoalWeightLoss},
			excl: mealplan.Exclusions{
				ProductIDs: []uuid.UUID{demoID("product", "Salmon fillet")},
				TagIDs:     []uuid.UUID{demoID("tag", "dairy")},
			},
		},
	}
	for _, u := range demoUsers {
		if err := users.SaveUser(ctx, u.id, u.email, u.name, u.profile, u.excl); err != nil {
			return fmt.Errorf("failed to create demo user %q: %w", u.email, err)
		}
	}

	return nil
}

// DemoProductID returns the id of a seeded product by name
func DemoProductID(name string) uuid.UUID {
	return demoID("product", name)
}

// DemoTagID returns the id of a seeded tag by name
func DemoTagID(name string) uuid.UUID {
	return demoID("tag", name)
}
