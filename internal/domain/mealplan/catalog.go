package mealplan

import (
	"github.com/alchemorsel/mealplanner/internal/domain/recipe"
	"github.com/google/uuid"
)

// Exclusions are a user's product and tag preferences
type Exclusions struct {
	ProductIDs []uuid.UUID
	TagIDs     []uuid.UUID
}

// Excludes reports whether the recipe touches an excluded product or tag
func (e Exclusions) Excludes(r *recipe.Recipe) bool {
	return r.UsesProduct(toSet(e.ProductIDs)) || r.UsesTag(toSet(e.TagIDs))
}

// Catalog is the eligible recipe snapshot for one user, split by meal slot
type Catalog struct {
	bySlot map[recipe.MealType][]*recipe.Recipe
}

// NewCatalog filters inactive and excluded recipes and partitions the rest
func NewCatalog(recipes []*recipe.Recipe, excl Exclusions) *Catalog {
	products := toSet(excl.ProductIDs)
	tags := toSet(excl.TagIDs)

	c := &Catalog{bySlot: make(map[recipe.MealType][]*recipe.Recipe, len(recipe.MealTypes))}
	for _, r := range recipes {
		if !r.Active() || r.UsesProduct(products) || r.UsesTag(tags) {
			continue
		}
		c.bySlot[r.MealType()] = append(c.bySlot[r.MealType()], r)
	}
	return c
}

// Candidates returns the eligible recipes for a slot
func (c *Catalog) Candidates(slot recipe.MealType) ([]*recipe.Recipe, error) {
	list := c.bySlot[slot]
	if len(list) == 0 {
		return nil, &SlotError{Slot: slot, Err: ErrNoRecipesForSlot}
	}
	return list, nil
}

// Size returns the number of eligible recipes for a slot
func (c *Catalog) Size(slot recipe.MealType) int {
	return len(c.bySlot[slot])
}

// FirstEmptySlot returns the first slot, in serving order, with no candidates
func (c *Catalog) FirstEmptySlot() (recipe.MealType, bool) {
	for _, slot := range recipe.MealTypes {
		if len(c.bySlot[slot]) == 0 {
			return slot, true
		}
	}
	return "", false
}

func toSet(ids []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
