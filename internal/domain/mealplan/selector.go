package mealplan

import (
	"math"
	"sort"

	"github.com/alchemorsel/mealplanner/internal/domain/recipe"
	"github.com/google/uuid"
)

const (
	// ComplexityPenalty is added to the score of non-simple recipes when simple ones are preferred
	ComplexityPenalty = 100.0
	// TopCandidates is how many of the best-ranked recipes a pick is drawn from
	TopCandidates = 3
)

// UsageLog is an append-only record of recipe ids used so far in a plan run
type UsageLog struct {
	ids   []uuid.UUID
	index map[uuid.UUID]int
}

// NewUsageLog creates an empty usage log
func NewUsageLog() *UsageLog {
	return &UsageLog{index: make(map[uuid.UUID]int)}
}

// Add records a recipe id; repeated ids are ignored
func (u *UsageLog) Add(id uuid.UUID) {
	if _, ok := u.index[id]; ok {
		return
	}
	u.index[id] = len(u.ids)
	u.ids = append(u.ids, id)
}

// Contains reports whether the id has been used
func (u *UsageLog) Contains(id uuid.UUID) bool {
	_, ok := u.index[id]
	return ok
}

// Len returns the number of distinct ids used
func (u *UsageLog) Len() int {
	return len(u.ids)
}

// Selector picks one recipe for a meal slot
type Selector struct {
	rand Rand
}

// NewSelector creates a selector drawing from rnd
func NewSelector(rnd Rand) *Selector {
	return &Selector{rand: rnd}
}

type scored struct {
	recipe *recipe.Recipe
	score  float64
}

// Select picks a recipe near the calorie budget. Recipes already in used are
// skipped unless that would leave nothing. The pick is uniform among the
// TopCandidates best scores.
func (s *Selector) Select(candidates []*recipe.Recipe, budget float64, preferSimple bool, used *UsageLog) *recipe.Recipe {
	if len(candidates) == 0 {
		return nil
	}

	pool := candidates
	if used != nil && used.Len() > 0 {
		fresh := make([]*recipe.Recipe, 0, len(candidates))
		for _, r := range candidates {
			if !used.Contains(r.ID()) {
				fresh = append(fresh, r)
			}
		}
		if len(fresh) > 0 {
			pool = fresh
		}
	}

	ranked := make([]scored, len(pool))
	for i, r := range pool {
		ranked[i] = scored{recipe: r, score: Score(r, budget, preferSimple)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score < ranked[j].score
	})

	top := min(TopCandidates, len(ranked))
	return ranked[s.rand.IntN(top)].recipe
}

// Score ranks a recipe against a budget; lower is better
func Score(r *recipe.Recipe, budget float64, preferSimple bool) float64 {
	score := math.Abs(r.Macros().Calories - budget)
	if preferSimple && !r.IsSimple() {
		score += ComplexityPenalty
	}
	return score
}
