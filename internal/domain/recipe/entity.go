// Package recipe holds the read-only recipe catalog model used for planning
package recipe

import (
	"time"

	"github.com/google/uuid"
)

// Recipe is a fixed composition of products with a sensible serving range.
// Cached macros describe one serving at portion multiplier 1.
type Recipe struct {
	id          uuid.UUID
	name        string
	mealType    MealType
	complexity  Complexity
	cookingTime time.Duration
	minPortion  float64
	maxPortion  float64
	macros      Macros
	items       []Item
	active      bool
}

// Params carries the fields needed to build a Recipe
type Params struct {
	ID          uuid.UUID
	Name        string
	MealType    MealType
	Complexity  Complexity
	CookingTime time.Duration
	MinPortion  float64
	MaxPortion  float64
	Items       []Item
	Active      bool

	// Macros holds stored cached values. When nil they are recomputed from Items.
	Macros *Macros
}

// NewRecipe validates params and builds a recipe
func NewRecipe(p Params) (*Recipe, error) {
	if p.Name == "" {
		return nil, ErrNameRequired
	}
	if !p.MealType.IsValid() {
		return nil, ErrInvalidMealType
	}
	if !p.Complexity.IsValid() {
		return nil, ErrInvalidComplexity
	}
	if p.MinPortion <= 0 {
		return nil, ErrInvalidPortion
	}
	if p.MaxPortion < p.MinPortion {
		return nil, ErrInvalidPortionSpan
	}
	if len(p.Items) == 0 {
		return nil, ErrNoItems
	}
	for _, item := range p.Items {
		if item.Product == nil {
			return nil, ErrMissingProduct
		}
		if item.AmountGrams <= 0 {
			return nil, ErrInvalidAmount
		}
	}

	id := p.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	macros := RecomputeMacros(p.Items)
	if p.Macros != nil {
		macros = *p.Macros
	}
	if macros.Calories < 0 || macros.Protein < 0 || macros.Fat < 0 || macros.Carbs < 0 {
		return nil, ErrNegativeMacros
	}

	return &Recipe{
		id:          id,
		name:        p.Name,
		mealType:    p.MealType,
		complexity:  p.Complexity,
		cookingTime: p.CookingTime,
		minPortion:  p.MinPortion,
		maxPortion:  p.MaxPortion,
		macros:      macros,
		items:       append([]Item(nil), p.Items...),
		active:      p.Active,
	}, nil
}

// RecomputeMacros derives per-serving macros from item amounts and per-100g values
func RecomputeMacros(items []Item) Macros {
	var total Macros
	for _, item := range items {
		total = total.Add(item.Macros())
	}
	return total.Rounded()
}

// Getters

func (r *Recipe) ID() uuid.UUID              { return r.id }
func (r *Recipe) Name() string               { return r.name }
func (r *Recipe) MealType() MealType         { return r.mealType }
func (r *Recipe) Complexity() Complexity     { return r.complexity }
func (r *Recipe) CookingTime() time.Duration { return r.cookingTime }
func (r *Recipe) MinPortion() float64        { return r.minPortion }
func (r *Recipe) MaxPortion() float64        { return r.maxPortion }
func (r *Recipe) Macros() Macros             { return r.macros }
func (r *Recipe) Active() bool               { return r.active }

// IsSimple reports whether the recipe has simple complexity
func (r *Recipe) IsSimple() bool {
	return r.complexity == ComplexitySimple
}

// Items returns a copy of the recipe's item list
func (r *Recipe) Items() []Item {
	return append([]Item(nil), r.items...)
}

// UsesProduct reports whether any item references one of the given products
func (r *Recipe) UsesProduct(ids map[uuid.UUID]struct{}) bool {
	for _, item := range r.items {
		if _, ok := ids[item.Product.ID]; ok {
			return true
		}
	}
	return false
}

// UsesTag reports whether any item's product carries one of the given tags
func (r *Recipe) UsesTag(tags map[uuid.UUID]struct{}) bool {
	for _, item := range r.items {
		if item.Product.HasAnyTag(tags) {
			return true
		}
	}
	return false
}
