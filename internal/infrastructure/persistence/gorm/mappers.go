package gorm

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/alchemorsel/mealplanner/internal/domain/mealplan"
	"github.com/alchemorsel/mealplanner/internal/domain/nutrition"
	"github.com/alchemorsel/mealplanner/internal/domain/recipe"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ModelToProduct converts a product row to the domain value
func ModelToProduct(m *ProductModel) *recipe.Product {
	tagIDs := make([]uuid.UUID, 0, len(m.Tags))
	for _, t := range m.Tags {
		tagIDs = append(tagIDs, t.ID)
	}
	return &recipe.Product{
		ID:       m.ID,
		Name:     m.Name,
		Category: m.Category,
		Per100g: recipe.Macros{
			Calories: m.Calories,
			Protein:  m.Protein,
			Fat:      m.Fat,
			Carbs:    m.Carbs,
		},
		CookingRatio: m.CookingRatio,
		Perishable:   m.Perishable,
		TagIDs:       tagIDs,
	}
}

// ModelToRecipe converts a recipe row with preloaded items to the domain entity.
// Products are deduplicated through products so recipes sharing a product
// share one value.
func ModelToRecipe(m *RecipeModel, products map[uuid.UUID]*recipe.Product) (*recipe.Recipe, error) {
	items := make([]recipe.Item, 0, len(m.Items))
	for i := range m.Items {
		row := &m.Items[i]
		p, ok := products[row.ProductID]
		if !ok {
			p = ModelToProduct(&row.Product)
			products[row.ProductID] = p
		}
		items = append(items, recipe.Item{
			Product:     p,
			AmountGrams: row.AmountGrams,
			Optional:    row.Optional,
		})
	}

	r, err := recipe.NewRecipe(recipe.Params{
		ID:          m.ID,
		Name:        m.Name,
		MealType:    recipe.MealType(m.MealType),
		Complexity:  recipe.Complexity(m.Complexity),
		CookingTime: time.Duration(m.CookingTimeMinutes) * time.Minute,
		MinPortion:  m.MinPortion,
		MaxPortion:  m.MaxPortion,
		Items:       items,
		Active:      m.Active,
		Macros:      cachedMacros(m),
	})
	if err != nil {
		return nil, fmt.Errorf("recipe %s: %w", m.ID, err)
	}
	return r, nil
}

// cachedMacros returns nil unless every cached column is filled
func cachedMacros(m *RecipeModel) *recipe.Macros {
	if m.Calories == nil || m.Protein == nil || m.Fat == nil || m.Carbs == nil {
		return nil
	}
	return &recipe.Macros{
		Calories: *m.Calories,
		Protein:  *m.Protein,
		Fat:      *m.Fat,
		Carbs:    *m.Carbs,
	}
}

// RecipeToModel converts a domain recipe to a row with items. Cached macros
// are always written.
func RecipeToModel(r *recipe.Recipe) *RecipeModel {
	macros := r.Macros()
	model := &RecipeModel{
		ID:                 r.ID(),
		Name:               r.Name(),
		MealType:           string(r.MealType()),
		Complexity:         string(r.Complexity()),
		CookingTimeMinutes: int(r.CookingTime() / time.Minute),
		MinPortion:         r.MinPortion(),
		MaxPortion:         r.MaxPortion(),
		Calories:           &macros.Calories,
		Protein:            &macros.Protein,
		Fat:                &macros.Fat,
		Carbs:              &macros.Carbs,
		Active:             r.Active(),
	}
	for i, item := range r.Items() {
		model.Items = append(model.Items, RecipeItemModel{
			ID:          uuid.New(),
			RecipeID:    r.ID(),
			ProductID:   item.Product.ID,
			Position:    i,
			AmountGrams: item.AmountGrams,
			Optional:    item.Optional,
		})
	}
	return model
}

// ProductToModel converts a domain product to a row. Tags are attached
// separately.
func ProductToModel(p *recipe.Product) *ProductModel {
	return &ProductModel{
		ID:           p.ID,
		Name:         p.Name,
		Category:     p.Category,
		Calories:     p.Per100g.Calories,
		Protein:      p.Per100g.Protein,
		Fat:          p.Per100g.Fat,
		Carbs:        p.Per100g.Carbs,
		CookingRatio: p.CookingRatio,
		Perishable:   p.Perishable,
	}
}

// PlanToModels flattens a plan into its header, day, meal and shopping rows.
// Every day position gets its own rows, reused positions included.
func PlanToModels(p *mealplan.Plan) (*PlanModel, []PlanDayModel, []PlanMealModel, []ShoppingItemModel, error) {
	header := &PlanModel{
		ID:              p.ID,
		UserID:          p.UserID,
		Weeks:           p.Options.Weeks,
		AllowRepeatDays: p.Options.AllowRepeatDays,
		PreferSimple:    p.Options.PreferSimple,
		TargetCalories:  p.Target.Calories,
		TargetProteinG:  p.Target.ProteinG,
		TargetFatG:      p.Target.FatG,
		TargetCarbsG:    p.Target.CarbsG,
		AvgCalories:     p.Average.Calories,
		AvgProtein:      p.Average.Protein,
		AvgFat:          p.Average.Fat,
		AvgCarbs:        p.Average.Carbs,
		ReusedDays:      p.Stats.ReusedDays,
		DistinctRecipes: p.Stats.DistinctRecipes,
		CreatedAt:       p.CreatedAt,
	}

	days := make([]PlanDayModel, 0, len(p.Days))
	meals := make([]PlanMealModel, 0, len(p.Days)*len(recipe.MealTypes))
	for _, d := range p.Days {
		totals := d.Plan.Totals.Rounded()
		day := PlanDayModel{
			ID:       uuid.New(),
			PlanID:   p.ID,
			DayIndex: d.Index,
			Week:     d.Week,
			Calories: totals.Calories,
			Protein:  totals.Protein,
			Fat:      totals.Fat,
			Carbs:    totals.Carbs,
		}
		if d.Reused() {
			src := d.ReusedFrom
			day.ReusedFrom = &src
		}
		days = append(days, day)

		for pos, m := range d.Plan.Meals {
			macros := m.Macros().Rounded()
			meals = append(meals, PlanMealModel{
				ID:       uuid.New(),
				DayID:    day.ID,
				Position: pos,
				Slot:     string(m.Slot),
				RecipeID: m.Recipe.ID(),
				Portion:  m.Portion,
				Calories: macros.Calories,
				Protein:  macros.Protein,
				Fat:      macros.Fat,
				Carbs:    macros.Carbs,
			})
		}
	}

	shopping := make([]ShoppingItemModel, 0, len(p.ShoppingList))
	for pos, item := range p.ShoppingList {
		weeks, err := json.Marshal(item.Weeks)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		shopping = append(shopping, ShoppingItemModel{
			ID:         uuid.New(),
			PlanID:     p.ID,
			Position:   pos,
			ProductID:  item.Product.ID,
			TotalGrams: item.TotalGrams,
			Monthly:    item.Monthly,
			Weeks:      datatypes.JSON(weeks),
		})
	}

	return header, days, meals, shopping, nil
}

// ModelToPlan rebuilds a plan from preloaded rows. Reused positions share
// the day plan of their source position.
func ModelToPlan(m *PlanModel) (*mealplan.Plan, error) {
	products := make(map[uuid.UUID]*recipe.Product)
	recipes := make(map[uuid.UUID]*recipe.Recipe)

	recipeFor := func(row *RecipeModel) (*recipe.Recipe, error) {
		if r, ok := recipes[row.ID]; ok {
			return r, nil
		}
		r, err := ModelToRecipe(row, products)
		if err != nil {
			return nil, err
		}
		recipes[row.ID] = r
		return r, nil
	}

	days := make([]mealplan.Day, len(m.Days))
	for i := range m.Days {
		row := &m.Days[i]
		if row.DayIndex != i {
			return nil, fmt.Errorf("plan %s: day index %d stored at position %d", m.ID, row.DayIndex, i)
		}
		day := mealplan.Day{Index: row.DayIndex, Week: row.Week, ReusedFrom: -1}

		if row.ReusedFrom != nil {
			src := *row.ReusedFrom
			if src < 0 || src >= i {
				return nil, fmt.Errorf("plan %s: day %d reuses invalid position %d", m.ID, i, src)
			}
			day.ReusedFrom = src
			day.Plan = days[src].Plan
			days[i] = day
			continue
		}

		dp := &mealplan.DayPlan{
			Totals: recipe.Macros{
				Calories: row.Calories,
				Protein:  row.Protein,
				Fat:      row.Fat,
				Carbs:    row.Carbs,
			},
		}
		for j := range row.Meals {
			meal := &row.Meals[j]
			r, err := recipeFor(&meal.Recipe)
			if err != nil {
				return nil, err
			}
			dp.Meals = append(dp.Meals, mealplan.PlacedMeal{
				Slot:    recipe.MealType(meal.Slot),
				Recipe:  r,
				Portion: meal.Portion,
			})
		}
		day.Plan = dp
		days[i] = day
	}

	shopping := make([]mealplan.ShoppingItem, 0, len(m.ShoppingItems))
	for i := range m.ShoppingItems {
		row := &m.ShoppingItems[i]
		var weeks []int
		if err := json.Unmarshal(row.Weeks, &weeks); err != nil {
			return nil, fmt.Errorf("plan %s: shopping weeks: %w", m.ID, err)
		}
		p, ok := products[row.ProductID]
		if !ok {
			p = ModelToProduct(&row.Product)
			products[row.ProductID] = p
		}
		shopping = append(shopping, mealplan.ShoppingItem{
			Product:    p,
			TotalGrams: row.TotalGrams,
			Monthly:    row.Monthly,
			Weeks:      weeks,
		})
	}

	return &mealplan.Plan{
		ID:     m.ID,
		UserID: m.UserID,
		Options: mealplan.Options{
			Weeks:           m.Weeks,
			AllowRepeatDays: m.AllowRepeatDays,
			PreferSimple:    m.PreferSimple,
		},
		Target: nutrition.Target{
			Calories: m.TargetCalories,
			ProteinG: m.TargetProteinG,
			FatG:     m.TargetFatG,
			CarbsG:   m.TargetCarbsG,
		},
		Average: recipe.Macros{
			Calories: m.AvgCalories,
			Protein:  m.AvgProtein,
			Fat:      m.AvgFat,
			Carbs:    m.AvgCarbs,
		},
		Days:         days,
		ShoppingList: shopping,
		Stats: mealplan.Stats{
			ReusedDays:      m.ReusedDays,
			DistinctRecipes: m.DistinctRecipes,
		},
		CreatedAt: m.CreatedAt,
	}, nil
}
