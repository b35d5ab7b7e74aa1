package recipe

import (
	"math"
	"slices"

	"github.com/google/uuid"
)

// Value Objects - Immutable objects that describe aspects of the domain

// MealType is the meal occasion a recipe is cooked for
type MealType string

const (
	MealTypeBreakfast MealType = "breakfast"
	MealTypeLunch     MealType = "lunch"
	MealTypeDinner    MealType = "dinner"
	MealTypeSnack     MealType = "snack"
)

// MealTypes lists the meal types in serving order
var MealTypes = []MealType{MealTypeBreakfast, MealTypeLunch, MealTypeDinner, MealTypeSnack}

// IsValid reports whether the meal type is known
func (m MealType) IsValid() bool {
	return slices.Contains(MealTypes, m)
}

// Complexity describes how much effort a recipe takes
type Complexity string

const (
	ComplexitySimple  Complexity = "simple"
	ComplexityMedium  Complexity = "medium"
	ComplexityComplex Complexity = "complex"
)

// IsValid reports whether the complexity is known
func (c Complexity) IsValid() bool {
	switch c {
	case ComplexitySimple, ComplexityMedium, ComplexityComplex:
		return true
	}
	return false
}

// Macros holds energy and macro-nutrient amounts
type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
}

// Add returns the element-wise sum
func (m Macros) Add(o Macros) Macros {
	return Macros{
		Calories: m.Calories + o.Calories,
		Protein:  m.Protein + o.Protein,
		Fat:      m.Fat + o.Fat,
		Carbs:    m.Carbs + o.Carbs,
	}
}

// Scale multiplies every field by f
func (m Macros) Scale(f float64) Macros {
	return Macros{
		Calories: m.Calories * f,
		Protein:  m.Protein * f,
		Fat:      m.Fat * f,
		Carbs:    m.Carbs * f,
	}
}

// Rounded rounds calories to whole units and grams to one decimal
func (m Macros) Rounded() Macros {
	return Macros{
		Calories: math.Round(m.Calories),
		Protein:  RoundTo(m.Protein, 1),
		Fat:      RoundTo(m.Fat, 1),
		Carbs:    RoundTo(m.Carbs, 1),
	}
}

// RoundTo rounds v to the given number of decimal places
func RoundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// Product is a purchasable ingredient shared by many recipes
type Product struct {
	ID           uuid.UUID   `json:"id"`
	Name         string      `json:"name"`
	Category     string      `json:"category"`
	Per100g      Macros      `json:"per_100g"`
	CookingRatio float64     `json:"cooking_ratio"`
	Perishable   bool        `json:"perishable"`
	TagIDs       []uuid.UUID `json:"tag_ids,omitempty"`
}

// HasAnyTag reports whether the product carries one of the given tags
func (p *Product) HasAnyTag(tags map[uuid.UUID]struct{}) bool {
	for _, id := range p.TagIDs {
		if _, ok := tags[id]; ok {
			return true
		}
	}
	return false
}

// Item is one ingredient line of a recipe at portion multiplier 1
type Item struct {
	Product     *Product
	AmountGrams float64
	Optional    bool
}

// Macros returns the item's contribution at portion multiplier 1
func (i Item) Macros() Macros {
	return i.Product.Per100g.Scale(i.AmountGrams / 100)
}
