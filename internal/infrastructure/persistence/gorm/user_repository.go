package gorm

import (
	"context"
	"errors"

	"github.com/alchemorsel/mealplanner/internal/domain/mealplan"
	"github.com/alchemorsel/mealplanner/internal/domain/nutrition"
	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository serves user profiles and exclusions using GORM
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

var (
	_ outbound.UserProfileRepository = (*UserRepository)(nil)
	_ outbound.ExclusionRepository   = (*UserRepository)(nil)
)

// GetProfile returns the weight and goal of a user
func (r *UserRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*outbound.UserProfile, error) {
	var model UserModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, outbound.ErrUserNotFound
		}
		return nil, result.Error
	}

	return &outbound.UserProfile{
		UserID:   model.ID,
		WeightKg: model.WeightKg,
		Goal:     nutrition.Goal(model.Goal),
	}, nil
}

// GetExclusions returns the excluded product and tag ids of a user
func (r *UserRepository) GetExclusions(ctx context.Context, userID uuid.UUID) (mealplan.Exclusions, error) {
	var model UserModel

	result := r.db.WithContext(ctx).
		Preload("ExcludedProducts").
		Preload("ExcludedTags").
		First(&model, "id = ?", userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return mealplan.Exclusions{}, outbound.ErrUserNotFound
		}
		return mealplan.Exclusions{}, result.Error
	}

	excl := mealplan.Exclusions{
		ProductIDs: make([]uuid.UUID, 0, len(model.ExcludedProducts)),
		TagIDs:     make([]uuid.UUID, 0, len(model.ExcludedTags)),
	}
	for _, p := range model.ExcludedProducts {
		excl.ProductIDs = append(excl.ProductIDs, p.ID)
	}
	for _, t := range model.ExcludedTags {
		excl.TagIDs = append(excl.TagIDs, t.ID)
	}
	return excl, nil
}

// SaveUser upserts a user with exclusions given by product and tag ids
func (r *UserRepository) SaveUser(ctx context.Context, id uuid.UUID, email, name string, profile outbound.UserProfile, excl mealplan.Exclusions) error {
	model := &UserModel{
		ID:       id,
		Email:    email,
		Name:     name,
		WeightKg: profile.WeightKg,
		Goal:     string(profile.Goal),
	}
	products := make([]ProductModel, 0, len(excl.ProductIDs))
	for _, pid := range excl.ProductIDs {
		products = append(products, ProductModel{ID: pid})
	}
	tags := make([]TagModel, 0, len(excl.TagIDs))
	for _, tid := range excl.TagIDs {
		tags = append(tags, TagModel{ID: tid})
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("ExcludedProducts", "ExcludedTags").Save(model).Error; err != nil {
			return err
		}
		if err := tx.Model(model).Association("ExcludedProducts").Replace(products); err != nil {
			return err
		}
		return tx.Model(model).Association("ExcludedTags").Replace(tags)
	})
}
