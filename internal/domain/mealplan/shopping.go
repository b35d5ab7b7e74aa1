package mealplan

import (
	"sort"

	"github.com/alchemorsel/mealplanner/internal/domain/recipe"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShoppingItem is the total amount of one product needed over a plan
type ShoppingItem struct {
	Product    *recipe.Product
	TotalGrams float64
	Monthly    bool
	Weeks      []int
}

type shoppingAccumulator struct {
	product *recipe.Product
	grams   decimal.Decimal
	weeks   map[int]struct{}
}

// AggregateShoppingList sums item amounts times portion over every placed
// meal of every day position, repeats included. Rows keep the order in which
// products first appear.
func AggregateShoppingList(days []Day) []ShoppingItem {
	acc := make(map[uuid.UUID]*shoppingAccumulator)
	order := make([]uuid.UUID, 0)

	for _, day := range days {
		for _, meal := range day.Plan.Meals {
			portion := decimal.NewFromFloat(meal.Portion)
			for _, item := range meal.Recipe.Items() {
				a, ok := acc[item.Product.ID]
				if !ok {
					a = &shoppingAccumulator{product: item.Product, weeks: make(map[int]struct{})}
					acc[item.Product.ID] = a
					order = append(order, item.Product.ID)
				}
				a.grams = a.grams.Add(decimal.NewFromFloat(item.AmountGrams).Mul(portion))
				a.weeks[day.Week] = struct{}{}
			}
		}
	}

	items := make([]ShoppingItem, 0, len(order))
	for _, id := range order {
		a := acc[id]
		weeks := make([]int, 0, len(a.weeks))
		for w := range a.weeks {
			weeks = append(weeks, w)
		}
		sort.Ints(weeks)

		items = append(items, ShoppingItem{
			Product:    a.product,
			TotalGrams: a.grams.Round(1).InexactFloat64(),
			Monthly:    !a.product.Perishable,
			Weeks:      weeks,
		})
	}
	return items
}
