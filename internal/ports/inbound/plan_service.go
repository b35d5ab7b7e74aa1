// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"

	"github.com/google/uuid"
)

// PlanService defines the meal plan use cases
// This is the primary port that HTTP handlers and the CLI use
type PlanService interface {
	// Commands
	GeneratePlan(ctx context.Context, cmd GeneratePlanCommand) (*PlanSummaryDTO, error)

	// Queries
	GetPlan(ctx context.Context, planID uuid.UUID) (*PlanDTO, error)
	GetDay(ctx context.Context, planID uuid.UUID, dayIndex int) (*DayDTO, error)
	GetShoppingList(ctx context.Context, planID uuid.UUID, cadence Cadence) ([]ShoppingItemDTO, error)
	GetTargets(ctx context.Context, userID uuid.UUID) (*TargetsDTO, error)
}

// GeneratePlanCommand contains the options for one plan generation.
// Nil options take the configured defaults.
type GeneratePlanCommand struct {
	UserID          uuid.UUID `json:"user_id" validate:"required"`
	Weeks           *int      `json:"weeks,omitempty" validate:"omitempty,min=1,max=52"`
	AllowRepeatDays *int      `json:"allow_repeat_days,omitempty" validate:"omitempty,min=0,max=7"`
	PreferSimple    *bool     `json:"prefer_simple,omitempty"`
}

// Cadence filters shopping rows by how often they are bought
type Cadence string

const (
	CadenceAll     Cadence = ""
	CadenceWeekly  Cadence = "weekly"
	CadenceMonthly Cadence = "monthly"
)

// IsValid reports whether the cadence is known
func (c Cadence) IsValid() bool {
	switch c {
	case CadenceAll, CadenceWeekly, CadenceMonthly:
		return true
	}
	return false
}

// Response DTOs

// MacrosDTO carries calories and grams of each macronutrient
type MacrosDTO struct {
	Calories float64 `json:"calories" yaml:"calories"`
	Protein  float64 `json:"protein" yaml:"protein"`
	Fat      float64 `json:"fat" yaml:"fat"`
	Carbs    float64 `json:"carbs" yaml:"carbs"`
}

// TargetsDTO is the daily nutrition target of a user
type TargetsDTO struct {
	UserID   uuid.UUID `json:"user_id,omitempty" yaml:"user_id,omitempty"`
	Goal     string    `json:"goal,omitempty" yaml:"goal,omitempty"`
	WeightKg float64   `json:"weight_kg,omitempty" yaml:"weight_kg,omitempty"`
	Calories int       `json:"calories" yaml:"calories"`
	ProteinG int       `json:"protein_g" yaml:"protein_g"`
	FatG     int       `json:"fat_g" yaml:"fat_g"`
	CarbsG   int       `json:"carbs_g" yaml:"carbs_g"`
}

// PlanSummaryDTO is returned after a plan has been generated
type PlanSummaryDTO struct {
	ID              uuid.UUID  `json:"id" yaml:"id"`
	UserID          uuid.UUID  `json:"user_id" yaml:"user_id"`
	Weeks           int        `json:"weeks" yaml:"weeks"`
	AllowRepeatDays int        `json:"allow_repeat_days" yaml:"allow_repeat_days"`
	PreferSimple    bool       `json:"prefer_simple" yaml:"prefer_simple"`
	Target          TargetsDTO `json:"target" yaml:"target"`
	Average         MacrosDTO  `json:"average" yaml:"average"`
	Days            int        `json:"days" yaml:"days"`
	ReusedDays      int        `json:"reused_days" yaml:"reused_days"`
	DistinctRecipes int        `json:"distinct_recipes" yaml:"distinct_recipes"`
	CreatedAt       string     `json:"created_at" yaml:"created_at"`
}

// MealDTO is one filled slot of a day
type MealDTO struct {
	Slot       string    `json:"slot" yaml:"slot"`
	RecipeID   uuid.UUID `json:"recipe_id" yaml:"recipe_id"`
	RecipeName string    `json:"recipe_name" yaml:"recipe_name"`
	Complexity string    `json:"complexity" yaml:"complexity"`
	Portion    float64   `json:"portion" yaml:"portion"`
	Macros     MacrosDTO `json:"macros" yaml:"macros"`
}

// DayDTO is one day position of a plan
type DayDTO struct {
	Index      int       `json:"index" yaml:"index"`
	Week       int       `json:"week" yaml:"week"`
	ReusedFrom *int      `json:"reused_from,omitempty" yaml:"reused_from,omitempty"`
	Meals      []MealDTO `json:"meals" yaml:"meals"`
	Totals     MacrosDTO `json:"totals" yaml:"totals"`
}

// ShoppingItemDTO is one product row of the shopping list
type ShoppingItemDTO struct {
	ProductID   uuid.UUID `json:"product_id" yaml:"product_id"`
	ProductName string    `json:"product_name" yaml:"product_name"`
	Category    string    `json:"category,omitempty" yaml:"category,omitempty"`
	TotalGrams  float64   `json:"total_grams" yaml:"total_grams"`
	Monthly     bool      `json:"monthly" yaml:"monthly"`
	Weeks       []int     `json:"weeks" yaml:"weeks"`
}

// PlanDTO is a full plan with its schedule and shopping list
type PlanDTO struct {
	PlanSummaryDTO `yaml:",inline"`
	Schedule       []DayDTO          `json:"schedule" yaml:"schedule"`
	ShoppingList   []ShoppingItemDTO `json:"shopping_list" yaml:"shopping_list"`
}
