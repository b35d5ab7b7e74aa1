package gorm

import (
	"context"
	"errors"

	"github.com/alchemorsel/mealplanner/internal/domain/mealplan"
	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const insertBatchSize = 100

// PlanRepository persists generated plans using GORM
type PlanRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates a new plan repository
func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

var _ outbound.PlanRepository = (*PlanRepository)(nil)

// Save writes the plan header, every day position, its meals and the
// shopping rows in one transaction
func (r *PlanRepository) Save(ctx context.Context, plan *mealplan.Plan) error {
	header, days, meals, shopping, err := PlanToModels(plan)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(header).Error; err != nil {
			return err
		}
		if len(days) > 0 {
			if err := tx.Omit(clause.Associations).CreateInBatches(&days, insertBatchSize).Error; err != nil {
				return err
			}
		}
		if len(meals) > 0 {
			if err := tx.Omit(clause.Associations).CreateInBatches(&meals, insertBatchSize).Error; err != nil {
				return err
			}
		}
		if len(shopping) > 0 {
			if err := tx.Omit(clause.Associations).CreateInBatches(&shopping, insertBatchSize).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByID loads a plan with its days, meals, recipes and shopping rows
func (r *PlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*mealplan.Plan, error) {
	var model PlanModel

	result := r.db.WithContext(ctx).
		Preload("Days", func(db *gorm.DB) *gorm.DB {
			return db.Order("day_index ASC")
		}).
		Preload("Days.Meals", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Days.Meals.Recipe.Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Days.Meals.Recipe.Items.Product.Tags").
		Preload("ShoppingItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("ShoppingItems.Product.Tags").
		First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, outbound.ErrPlanNotFound
		}
		return nil, result.Error
	}

	return ModelToPlan(&model)
}
