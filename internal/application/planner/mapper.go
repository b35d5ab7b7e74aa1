package planner

import (
	"time"

	"github.com/alchemorsel/mealplanner/internal/domain/mealplan"
	"github.com/alchemorsel/mealplanner/internal/domain/nutrition"
	"github.com/alchemorsel/mealplanner/internal/domain/recipe"
	"github.com/alchemorsel/mealplanner/internal/ports/inbound"
)

func toMacrosDTO(m recipe.Macros) inbound.MacrosDTO {
	return inbound.MacrosDTO{
		Calories: m.Calories,
		Protein:  m.Protein,
		Fat:      m.Fat,
		Carbs:    m.Carbs,
	}
}

func toTargetsDTO(t nutrition.Target) inbound.TargetsDTO {
	return inbound.TargetsDTO{
		Calories: t.Calories,
		ProteinG: t.ProteinG,
		FatG:     t.FatG,
		CarbsG:   t.CarbsG,
	}
}

func toSummary(p *mealplan.Plan) inbound.PlanSummaryDTO {
	return inbound.PlanSummaryDTO{
		ID:              p.ID,
		UserID:          p.UserID,
		Weeks:           p.Weeks(),
		AllowRepeatDays: p.Options.AllowRepeatDays,
		PreferSimple:    p.Options.PreferSimple,
		Target:          toTargetsDTO(p.Target),
		Average:         toMacrosDTO(p.Average),
		Days:            len(p.Days),
		ReusedDays:      p.Stats.ReusedDays,
		DistinctRecipes: p.Stats.DistinctRecipes,
		CreatedAt:       p.CreatedAt.Format(time.RFC3339),
	}
}

func toDayDTO(d mealplan.Day) inbound.DayDTO {
	dto := inbound.DayDTO{
		Index:  d.Index,
		Week:   d.Week,
		Meals:  make([]inbound.MealDTO, 0, len(d.Plan.Meals)),
		Totals: toMacrosDTO(d.Plan.Totals),
	}
	if d.Reused() {
		from := d.ReusedFrom
		dto.ReusedFrom = &from
	}

	for _, m := range d.Plan.Meals {
		dto.Meals = append(dto.Meals, inbound.MealDTO{
			Slot:       string(m.Slot),
			RecipeID:   m.Recipe.ID(),
			RecipeName: m.Recipe.Name(),
			Complexity: string(m.Recipe.Complexity()),
			Portion:    m.Portion,
			Macros:     toMacrosDTO(m.Macros().Rounded()),
		})
	}
	return dto
}

func toShoppingDTO(item mealplan.ShoppingItem) inbound.ShoppingItemDTO {
	weeks := make([]int, len(item.Weeks))
	copy(weeks, item.Weeks)

	return inbound.ShoppingItemDTO{
		ProductID:   item.Product.ID,
		ProductName: item.Product.Name,
		Category:    item.Product.Category,
		TotalGrams:  item.TotalGrams,
		Monthly:     item.Monthly,
		Weeks:       weeks,
	}
}

func toPlanDTO(p *mealplan.Plan) *inbound.PlanDTO {
	dto := &inbound.PlanDTO{
		PlanSummaryDTO: toSummary(p),
		Schedule:       make([]inbound.DayDTO, 0, len(p.Days)),
		ShoppingList:   make([]inbound.ShoppingItemDTO, 0, len(p.ShoppingList)),
	}
	for _, d := range p.Days {
		dto.Schedule = append(dto.Schedule, toDayDTO(d))
	}
	for _, item := range p.ShoppingList {
		dto.ShoppingList = append(dto.ShoppingList, toShoppingDTO(item))
	}
	return dto
}
