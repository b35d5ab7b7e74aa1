package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alchemorsel/mealplanner/internal/domain/recipe"
	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogKey is the cache key of the active catalog snapshot
const CatalogKey = "catalog:active"

// CatalogCache decorates a CatalogRepository with a snapshot of the active
// recipes kept in a CacheRepository
type CatalogCache struct {
	next    outbound.CatalogRepository
	cache   outbound.CacheRepository
	metrics outbound.PlanMetrics
	ttl     atomic.Int64
	logger  *zap.Logger
}

var _ outbound.CatalogRepository = (*CatalogCache)(nil)

// NewCatalogCache wraps next. metrics may be nil.
func NewCatalogCache(next outbound.CatalogRepository, cache outbound.CacheRepository, ttl time.Duration, metrics outbound.PlanMetrics, logger *zap.Logger) *CatalogCache {
	c := &CatalogCache{
		next:    next,
		cache:   cache,
		metrics: metrics,
		logger:  logger.Named("catalog-cache"),
	}
	c.ttl.Store(int64(ttl))
	return c
}

// SetTTL changes the lifetime of snapshots written from now on
func (c *CatalogCache) SetTTL(ttl time.Duration) {
	c.ttl.Store(int64(ttl))
}

// ActiveRecipes serves the snapshot when present and refills it otherwise.
// Cache failures fall through to the underlying repository.
func (c *CatalogCache) ActiveRecipes(ctx context.Context) ([]*recipe.Recipe, error) {
	data, err := c.cache.Get(ctx, CatalogKey)
	switch {
	case err == nil:
		recipes, decodeErr := decodeCatalog(data)
		if decodeErr == nil {
			c.lookup(true)
			return recipes, nil
		}
		c.logger.Warn("Discarding unreadable catalog snapshot", zap.Error(decodeErr))
	case !errors.Is(err, outbound.ErrCacheMiss):
		c.logger.Warn("Catalog cache read failed", zap.Error(err))
	}
	c.lookup(false)

	recipes, err := c.next.ActiveRecipes(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := encodeCatalog(recipes); err != nil {
		c.logger.Warn("Failed to encode catalog snapshot", zap.Error(err))
	} else if err := c.cache.Set(ctx, CatalogKey, data, time.Duration(c.ttl.Load())); err != nil {
		c.logger.Warn("Failed to store catalog snapshot", zap.Error(err))
	}
	return recipes, nil
}

// Invalidate drops the snapshot so the next read reloads the catalog
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	return c.cache.Delete(ctx, CatalogKey)
}

func (c *CatalogCache) lookup(hit bool) {
	if c.metrics != nil {
		c.metrics.CacheLookup("catalog", hit)
	}
}

type catalogSnapshot struct {
	Products []recipe.Product `json:"products"`
	Recipes  []recipeSnapshot `json:"recipes"`
}

type recipeSnapshot struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	MealType    recipe.MealType   `json:"meal_type"`
	Complexity  recipe.Complexity `json:"complexity"`
	CookingTime time.Duration     `json:"cooking_time"`
	MinPortion  float64           `json:"min_portion"`
	MaxPortion  float64           `json:"max_portion"`
	Macros      recipe.Macros     `json:"macros"`
	Items       []itemSnapshot    `json:"items"`
}

type itemSnapshot struct {
	ProductID   uuid.UUID `json:"product_id"`
	AmountGrams float64   `json:"amount_grams"`
	Optional    bool      `json:"optional,omitempty"`
}

// encodeCatalog writes each product once so decoded recipes share them again
func encodeCatalog(recipes []*recipe.Recipe) ([]byte, error) {
	snap := catalogSnapshot{Recipes: make([]recipeSnapshot, 0, len(recipes))}
	seen := make(map[uuid.UUID]struct{})

	for _, r := range recipes {
		rs := recipeSnapshot{
			ID:          r.ID(),
			Name:        r.Name(),
			MealType:    r.MealType(),
			Complexity:  r.Complexity(),
			CookingTime: r.CookingTime(),
			MinPortion:  r.MinPortion(),
			MaxPortion:  r.MaxPortion(),
			Macros:      r.Macros(),
		}
		for _, item := range r.Items() {
			if _, ok := seen[item.Product.ID]; !ok {
				seen[item.Product.ID] = struct{}{}
				snap.Products = append(snap.Products, *item.Product)
			}
			rs.Items = append(rs.Items, itemSnapshot{
				ProductID:   item.Product.ID,
				AmountGrams: item.AmountGrams,
				Optional:    item.Optional,
			})
		}
		snap.Recipes = append(snap.Recipes, rs)
	}
	return json.Marshal(snap)
}

func decodeCatalog(data []byte) ([]*recipe.Recipe, error) {
	var snap catalogSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}

	products := make(map[uuid.UUID]*recipe.Product, len(snap.Products))
	for i := range snap.Products {
		products[snap.Products[i].ID] = &snap.Products[i]
	}

	recipes := make([]*recipe.Recipe, 0, len(snap.Recipes))
	for _, rs := range snap.Recipes {
		items := make([]recipe.Item, 0, len(rs.Items))
		for _, is := range rs.Items {
			p, ok := products[is.ProductID]
			if !ok {
				return nil, fmt.Errorf("recipe %s references unknown product %s", rs.ID, is.ProductID)
			}
			items = append(items, recipe.Item{Product: p, AmountGrams: is.AmountGrams, Optional: is.Optional})
		}

		macros := rs.Macros
		r, err := recipe.NewRecipe(recipe.Params{
			ID:          rs.ID,
			Name:        rs.Name,
			MealType:    rs.MealType,
			Complexity:  rs.Complexity,
			CookingTime: rs.CookingTime,
			MinPortion:  rs.MinPortion,
			MaxPortion:  rs.MaxPortion,
			Items:       items,
			Active:      true,
			Macros:      &macros,
		})
		if err != nil {
			return nil, fmt.Errorf("recipe %s: %w", rs.ID, err)
		}
		recipes = append(recipes, r)
	}
	return recipes, nil
}
