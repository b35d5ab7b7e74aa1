package mealplan

import (
	"fmt"
	"testing"

	"github.com/alchemorsel/mealplanner/internal/domain/nutrition"
	"github.com/alchemorsel/mealplanner/test/testutils"
	"github.com/google/uuid"
)

func BenchmarkAssemble(b *testing.B) {
	target, err := nutrition.CalculateTargets(80, nutrition.GoalWeightLoss)
	if err != nil {
		b.Fatal(err)
	}

	for _, size := range []struct{ perSlot, weeks int }{{5, 1}, {25, 4}, {100, 12}} {
		factory := testutils.NewCatalogFactory(int64(size.perSlot))
		catalog := NewCatalog(factory.Catalog(size.perSlot, factory.Products(40)), Exclusions{})
		opts := Options{Weeks: size.weeks, AllowRepeatDays: 2, PreferSimple: true}

		b.Run(fmt.Sprintf("recipes=%d/weeks=%d", size.perSlot*4, size.weeks), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := NewAssembler(NewRand(uint64(i+1))).Assemble(uuid.Nil, target, catalog, opts); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
