package gorm

import (
	"context"

	"github.com/alchemorsel/mealplanner/internal/domain/recipe"
	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogRepository reads the recipe catalog using GORM
type CatalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

var _ outbound.CatalogRepository = (*CatalogRepository)(nil)

// ActiveRecipes loads every active recipe with items, products and tags
func (r *CatalogRepository) ActiveRecipes(ctx context.Context) ([]*recipe.Recipe, error) {
	var models []RecipeModel

	result := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Items.Product.Tags").
		Where("active = ?", true).
		Order("meal_type ASC, name ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	products := make(map[uuid.UUID]*recipe.Product)
	recipes := make([]*recipe.Recipe, 0, len(models))
	for i := range models {
		rec, err := ModelToRecipe(&models[i], products)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, rec)
	}
	return recipes, nil
}

// SaveRecipe upserts a recipe and replaces its items. Products must exist.
func (r *CatalogRepository) SaveRecipe(ctx context.Context, rec *recipe.Recipe) error {
	model := RecipeToModel(rec)
	items := model.Items
	model.Items = nil

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(model).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", model.ID).Delete(&RecipeItemModel{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Omit("Product").Create(&items).Error
	})
}

// SaveProduct upserts a product together with its tag links
func (r *CatalogRepository) SaveProduct(ctx context.Context, p *recipe.Product) error {
	model := ProductToModel(p)
	tags := make([]TagModel, 0, len(p.TagIDs))
	for _, id := range p.TagIDs {
		tags = append(tags, TagModel{ID: id})
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags").Save(model).Error; err != nil {
			return err
		}
		return tx.Model(model).Association("Tags").Replace(tags)
	})
}

// SaveTag upserts a tag
func (r *CatalogRepository) SaveTag(ctx context.Context, id uuid.UUID, name string) error {
	return r.db.WithContext(ctx).Save(&TagModel{ID: id, Name: name}).Error
}
