// Package mealplan assembles multi-week meal plans from a recipe catalog.
//
// Assembly is a greedy randomized heuristic: every slot takes one of the
// recipes closest to its calorie share, portions are scaled inside each
// recipe's serving range, and whole days may be repeated to trade variety
// for fewer distinct recipes.
package mealplan

import (
	"fmt"
	"time"

	"github.com/alchemorsel/mealplanner/internal/domain/nutrition"
	"github.com/alchemorsel/mealplanner/internal/domain/recipe"
	"github.com/alchemorsel/mealplanner/internal/domain/shared"
	"github.com/google/uuid"
)

// DaysPerWeek is the number of day positions in a plan week
const DaysPerWeek = 7

// Options control one plan generation
type Options struct {
	Weeks           int
	AllowRepeatDays int
	PreferSimple    bool
}

// Validate checks option ranges
func (o Options) Validate() error {
	if o.Weeks < 1 {
		return ErrInvalidWeeks
	}
	if o.AllowRepeatDays < 0 || o.AllowRepeatDays > MaxRepeatDays {
		return ErrInvalidRepeatDays
	}
	return nil
}

// Day is one day position of a plan
type Day struct {
	Index int
	Week  int
	Plan  *DayPlan
	// ReusedFrom is the index of the position first built with Plan, or -1
	ReusedFrom int
}

// Reused reports whether the position repeats an earlier day
func (d Day) Reused() bool {
	return d.ReusedFrom >= 0
}

// Stats summarizes variety within a plan
type Stats struct {
	ReusedDays      int `json:"reused_days"`
	DistinctRecipes int `json:"distinct_recipes"`
}

// Plan is a generated meal plan
type Plan struct {
	shared.AggregateRoot

	ID           uuid.UUID
	UserID       uuid.UUID
	Options      Options
	Target       nutrition.Target
	Average      recipe.Macros
	Days         []Day
	ShoppingList []ShoppingItem
	Stats        Stats
	CreatedAt    time.Time
}

// Weeks returns the number of plan weeks
func (p *Plan) Weeks() int {
	return len(p.Days) / DaysPerWeek
}

// Assembler runs the day loop of a plan generation
type Assembler struct {
	rand Rand
	now  func() time.Time
}

// NewAssembler creates an assembler drawing from rnd
func NewAssembler(rnd Rand) *Assembler {
	return &Assembler{rand: rnd, now: time.Now}
}

// Assemble builds weeks*7 days against the catalog. It fails before building
// anything when a slot has no eligible recipes.
func (a *Assembler) Assemble(userID uuid.UUID, target nutrition.Target, catalog *Catalog, opts Options) (*Plan, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if slot, empty := catalog.FirstEmptySlot(); empty {
		return nil, fmt.Errorf("%w: %w", ErrPlanGenerationFailed, &SlotError{Slot: slot, Err: ErrNoRecipesForSlot})
	}

	reuse, err := NewReuseController(a.rand, opts.AllowRepeatDays)
	if err != nil {
		return nil, err
	}
	days := NewDayAssembler(NewSelector(a.rand))
	used := NewUsageLog()

	total := opts.Weeks * DaysPerWeek
	arena := NewDayArena(total)
	for i := 0; i < total; i++ {
		if pos, ok := reuse.Pick(arena); ok {
			arena.AppendReuse(pos)
			continue
		}

		day, err := days.Assemble(catalog, target.Calories, opts.PreferSimple, used)
		if err != nil {
			return nil, fmt.Errorf("%w: day %d: %w", ErrPlanGenerationFailed, i, err)
		}
		arena.AppendBuilt(day)
	}

	plan := &Plan{
		ID:        uuid.New(),
		UserID:    userID,
		Options:   opts,
		Target:    target,
		Days:      make([]Day, total),
		CreatedAt: a.now().UTC(),
	}

	var sum recipe.Macros
	for i := 0; i < total; i++ {
		d := Day{Index: i, Week: i/DaysPerWeek + 1, Plan: arena.At(i), ReusedFrom: -1}
		if src := arena.SourceOf(i); src != i {
			d.ReusedFrom = src
			plan.Stats.ReusedDays++
		}
		plan.Days[i] = d
		sum = sum.Add(d.Plan.Totals)
	}

	plan.Average = averageOf(sum, total)
	plan.ShoppingList = AggregateShoppingList(plan.Days)
	plan.Stats.DistinctRecipes = used.Len()

	plan.AddEvent(PlanGeneratedEvent{
		PlanID:     plan.ID,
		UserID:     userID,
		Days:       total,
		ReusedDays: plan.Stats.ReusedDays,
		Timestamp:  plan.CreatedAt,
	})

	return plan, nil
}

func averageOf(sum recipe.Macros, n int) recipe.Macros {
	avg := sum.Scale(1 / float64(n))
	return recipe.Macros{
		Calories: recipe.RoundTo(avg.Calories, 1),
		Protein:  recipe.RoundTo(avg.Protein, 1),
		Fat:      recipe.RoundTo(avg.Fat, 1),
		Carbs:    recipe.RoundTo(avg.Carbs, 1),
	}
}
