package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alchemorsel/mealplanner/internal/infrastructure/persistence/memory"
	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
	"github.com/alchemorsel/mealplanner/test/mocks"
	"github.com/alchemorsel/mealplanner/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCatalogCache_ActiveRecipes(t *testing.T) {
	ctx := context.Background()
	factory := testutils.NewCatalogFactory(7)
	recipes := factory.Catalog(3, factory.Products(10))

	t.Run("MissLoadsAndStoresSnapshot", func(t *testing.T) {
		store := memory.NewCacheRepository(time.Hour)
		defer store.Close()
		next := &mocks.MockCatalogRepository{}
		next.On("ActiveRecipes", mock.Anything).Return(recipes, nil).Once()
		metrics := &mocks.MockPlanMetrics{}
		metrics.On("CacheLookup", "catalog", false).Return().Once()
		metrics.On("CacheLookup", "catalog", true).Return().Once()

		c := NewCatalogCache(next, store, time.Hour, metrics, zap.NewNop())

		first, err := c.ActiveRecipes(ctx)
		require.NoError(t, err)
		assert.Equal(t, recipes, first)

		exists, err := store.Exists(ctx, CatalogKey)
		require.NoError(t, err)
		assert.True(t, exists)

		second, err := c.ActiveRecipes(ctx)
		require.NoError(t, err)
		require.Len(t, second, len(recipes))
		for i, r := range second {
			assert.Equal(t, recipes[i].ID(), r.ID())
			assert.Equal(t, recipes[i].MealType(), r.MealType())
			assert.Equal(t, recipes[i].Macros(), r.Macros())
			assert.Equal(t, recipes[i].MinPortion(), r.MinPortion())
			assert.Equal(t, recipes[i].MaxPortion(), r.MaxPortion())
			require.Len(t, r.Items(), len(recipes[i].Items()))
			for j, item := range r.Items() {
				assert.Equal(t, *recipes[i].Items()[j].Product, *item.Product)
				assert.Equal(t, recipes[i].Items()[j].AmountGrams, item.AmountGrams)
			}
		}

		next.AssertExpectations(t)
		metrics.AssertExpectations(t)
	})

	t.Run("DecodedRecipesShareProducts", func(t *testing.T) {
		data, err := encodeCatalog(recipes)
		require.NoError(t, err)

		decoded, err := decodeCatalog(data)
		require.NoError(t, err)

		byID := make(map[string]interface{})
		for _, r := range decoded {
			for _, item := range r.Items() {
				if prev, ok := byID[item.Product.ID.String()]; ok {
					assert.Same(t, prev, item.Product)
				}
				byID[item.Product.ID.String()] = item.Product
			}
		}
	})

	t.Run("UnreadableSnapshotFallsThrough", func(t *testing.T) {
		store := memory.NewCacheRepository(time.Hour)
		defer store.Close()
		require.NoError(t, store.Set(ctx, CatalogKey, []byte("{not json"), time.Hour))

		next := &mocks.MockCatalogRepository{}
		next.On("ActiveRecipes", mock.Anything).Return(recipes, nil).Once()

		c := NewCatalogCache(next, store, time.Hour, nil, zap.NewNop())
		got, err := c.ActiveRecipes(ctx)

		require.NoError(t, err)
		assert.Len(t, got, len(recipes))
		next.AssertExpectations(t)
	})

	t.Run("CacheFailureFallsThrough", func(t *testing.T) {
		store := &mocks.MockCacheRepository{}
		store.On("Get", mock.Anything, CatalogKey).Return(nil, errors.New("connection refused"))
		store.On("Set", mock.Anything, CatalogKey, mock.Anything, time.Minute).Return(errors.New("connection refused"))

		next := &mocks.MockCatalogRepository{}
		next.On("ActiveRecipes", mock.Anything).Return(recipes, nil)

		c := NewCatalogCache(next, store, time.Hour, nil, zap.NewNop())
		c.SetTTL(time.Minute)
		got, err := c.ActiveRecipes(ctx)

		require.NoError(t, err)
		assert.Len(t, got, len(recipes))
		store.AssertExpectations(t)
	})

	t.Run("RepositoryErrorIsReturned", func(t *testing.T) {
		store := memory.NewCacheRepository(time.Hour)
		defer store.Close()
		next := &mocks.MockCatalogRepository{}
		next.On("ActiveRecipes", mock.Anything).Return(nil, errors.New("db down"))

		c := NewCatalogCache(next, store, time.Hour, nil, zap.NewNop())
		_, err := c.ActiveRecipes(ctx)

		assert.EqualError(t, err, "db down")
		_, err = store.Get(ctx, CatalogKey)
		assert.ErrorIs(t, err, outbound.ErrCacheMiss)
	})

	t.Run("InvalidateDropsSnapshot", func(t *testing.T) {
		store := memory.NewCacheRepository(time.Hour)
		defer store.Close()
		next := &mocks.MockCatalogRepository{}
		next.On("ActiveRecipes", mock.Anything).Return(recipes, nil).Twice()

		c := NewCatalogCache(next, store, time.Hour, nil, zap.NewNop())
		_, err := c.ActiveRecipes(ctx)
		require.NoError(t, err)

		require.NoError(t, c.Invalidate(ctx))
		_, err = c.ActiveRecipes(ctx)
		require.NoError(t, err)

		next.AssertExpectations(t)
	})
}
