// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the planner uses to reach storage and caches
package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/alchemorsel/mealplanner/internal/domain/mealplan"
	"github.com/alchemorsel/mealplanner/internal/domain/nutrition"
	"github.com/alchemorsel/mealplanner/internal/domain/recipe"
	"github.com/alchemorsel/mealplanner/internal/domain/shared"
	"github.com/google/uuid"
)

var (
	// ErrUserNotFound is returned by profile and exclusion lookups for unknown users
	ErrUserNotFound = errors.New("user not found")
	// ErrPlanNotFound is returned when no plan has the requested id
	ErrPlanNotFound = errors.New("plan not found")
	// ErrCacheMiss is returned by CacheRepository.Get for absent keys
	ErrCacheMiss = errors.New("cache miss")
)

// UserProfile is the body data needed to compute nutrition targets
type UserProfile struct {
	UserID   uuid.UUID
	WeightKg float64
	Goal     nutrition.Goal
}

// UserProfileRepository provides weight and goal per user
type UserProfileRepository interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*UserProfile, error)
}

// ExclusionRepository provides the products and tags a user refuses to eat
type ExclusionRepository interface {
	GetExclusions(ctx context.Context, userID uuid.UUID) (mealplan.Exclusions, error)
}

// CatalogRepository reads the recipe catalog
type CatalogRepository interface {
	// ActiveRecipes returns every active recipe with its items and products loaded
	ActiveRecipes(ctx context.Context) ([]*recipe.Recipe, error)
}

// PlanRepository persists generated plans
type PlanRepository interface {
	// Save stores the plan header, one row per day index and the shopping rows
	// atomically
	Save(ctx context.Context, plan *mealplan.Plan) error
	FindByID(ctx context.Context, id uuid.UUID) (*mealplan.Plan, error)
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// EventPublisher delivers domain events to in-process subscribers
type EventPublisher interface {
	Publish(ctx context.Context, events ...shared.DomainEvent) error
}

// PlanMetrics records plan generation outcomes
type PlanMetrics interface {
	PlanGenerated(weeks, reusedDays, distinctRecipes int, duration time.Duration)
	PlanFailed(reason string)
	CacheLookup(cache string, hit bool)
}
