// Package gorm provides GORM models and repositories for the planner
package gorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TagModel represents the GORM model for product tags (dairy, gluten, ...)
type TagModel struct {
	ID   uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name string    `gorm:"type:varchar(100);uniqueIndex;not null"`
}

// TableName overrides the table name
func (TagModel) TableName() string { return "tags" }

// ProductModel represents the GORM model for products
type ProductModel struct {
	ID       uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name     string    `gorm:"type:varchar(255);not null"`
	Category string    `gorm:"type:varchar(100);index"`

	// Nutrition per 100 g
	Calories float64 `gorm:"column:calories_per_100g;not null;default:0"`
	Protein  float64 `gorm:"column:protein_per_100g;not null;default:0"`
	Fat      float64 `gorm:"column:fat_per_100g;not null;default:0"`
	Carbs    float64 `gorm:"column:carbs_per_100g;not null;default:0"`

	CookingRatio float64 `gorm:"not null"`
	Perishable   bool    `gorm:"not null;default:false"`
	CreatedAt    time.Time

	// Relationships
	Tags []TagModel `gorm:"many2many:product_tags;joinForeignKey:ProductID;joinReferences:TagID"`
}

// TableName overrides the table name
func (ProductModel) TableName() string { return "products" }

// RecipeModel represents the GORM model for recipes
type RecipeModel struct {
	ID                 uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name               string    `gorm:"type:varchar(255);not null"`
	MealType           string    `gorm:"type:varchar(20);not null;index"`
	Complexity         string    `gorm:"type:varchar(20);not null"`
	CookingTimeMinutes int       `gorm:"not null;default:0"`
	MinPortion         float64   `gorm:"not null"`
	MaxPortion         float64   `gorm:"not null"`

	// Cached macros for one serving, recomputed from items when null
	Calories *float64
	Protein  *float64
	Fat      *float64
	Carbs    *float64

	Active    bool `gorm:"not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships
	Items []RecipeItemModel `gorm:"foreignKey:RecipeID"`
}

// TableName overrides the table name
func (RecipeModel) TableName() string { return "recipes" }

// RecipeItemModel represents one product line of a recipe
type RecipeItemModel struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey"`
	RecipeID    uuid.UUID `gorm:"type:char(36);not null;index"`
	ProductID   uuid.UUID `gorm:"type:char(36);not null;index"`
	Position    int       `gorm:"not null;default:0"`
	AmountGrams float64   `gorm:"not null"`
	Optional    bool      `gorm:"not null;default:false"`

	Product ProductModel `gorm:"foreignKey:ProductID"`
}

// TableName overrides the table name
func (RecipeItemModel) TableName() string { return "recipe_items" }

// UserModel represents the GORM model for users and their body profile
type UserModel struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name      string    `gorm:"type:varchar(255);not null"`
	WeightKg  float64   `gorm:"not null"`
	Goal      string    `gorm:"type:varchar(20);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	// Exclusions
	ExcludedProducts []ProductModel `gorm:"many2many:user_excluded_products;joinForeignKey:UserID;joinReferences:ProductID"`
	ExcludedTags     []TagModel     `gorm:"many2many:user_excluded_tags;joinForeignKey:UserID;joinReferences:TagID"`
}

// TableName overrides the table name
func (UserModel) TableName() string { return "users" }

// PlanModel represents the GORM model for a generated plan header
type PlanModel struct {
	ID              uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID          uuid.UUID `gorm:"type:char(36);not null;index"`
	Weeks           int       `gorm:"not null"`
	AllowRepeatDays int       `gorm:"not null;default:0"`
	PreferSimple    bool      `gorm:"not null;default:false"`

	// Daily target
	TargetCalories int `gorm:"not null"`
	TargetProteinG int `gorm:"not null"`
	TargetFatG     int `gorm:"not null"`
	TargetCarbsG   int `gorm:"not null"`

	// Average realized intake per day position
	AvgCalories float64 `gorm:"not null"`
	AvgProtein  float64 `gorm:"not null"`
	AvgFat      float64 `gorm:"not null"`
	AvgCarbs    float64 `gorm:"not null"`

	ReusedDays      int `gorm:"not null;default:0"`
	DistinctRecipes int `gorm:"not null;default:0"`
	CreatedAt       time.Time

	// Relationships
	Days          []PlanDayModel      `gorm:"foreignKey:PlanID"`
	ShoppingItems []ShoppingItemModel `gorm:"foreignKey:PlanID"`
}

// TableName overrides the table name
func (PlanModel) TableName() string { return "plans" }

// PlanDayModel is one day position of a plan; reused days get their own row
type PlanDayModel struct {
	ID         uuid.UUID `gorm:"type:char(36);primaryKey"`
	PlanID     uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_plan_days_plan_index"`
	DayIndex   int       `gorm:"not null;uniqueIndex:idx_plan_days_plan_index"`
	Week       int       `gorm:"not null"`
	ReusedFrom *int

	Calories float64 `gorm:"not null"`
	Protein  float64 `gorm:"not null"`
	Fat      float64 `gorm:"not null"`
	Carbs    float64 `gorm:"not null"`

	Meals []PlanMealModel `gorm:"foreignKey:DayID"`
}

// TableName overrides the table name
func (PlanDayModel) TableName() string { return "plan_days" }

// PlanMealModel is one filled slot of a plan day
type PlanMealModel struct {
	ID       uuid.UUID `gorm:"type:char(36);primaryKey"`
	DayID    uuid.UUID `gorm:"type:char(36);not null;index"`
	Position int       `gorm:"not null"`
	Slot     string    `gorm:"type:varchar(20);not null"`
	RecipeID uuid.UUID `gorm:"type:char(36);not null"`
	Portion  float64   `gorm:"not null"`

	Calories float64 `gorm:"not null"`
	Protein  float64 `gorm:"not null"`
	Fat      float64 `gorm:"not null"`
	Carbs    float64 `gorm:"not null"`

	Recipe RecipeModel `gorm:"foreignKey:RecipeID"`
}

// TableName overrides the table name
func (PlanMealModel) TableName() string { return "plan_meals" }

// ShoppingItemModel is one product row of a plan's shopping list
type ShoppingItemModel struct {
	ID         uuid.UUID      `gorm:"type:char(36);primaryKey"`
	PlanID     uuid.UUID      `gorm:"type:char(36);not null;index"`
	Position   int            `gorm:"not null"`
	ProductID  uuid.UUID      `gorm:"type:char(36);not null"`
	TotalGrams float64        `gorm:"not null"`
	Monthly    bool           `gorm:"not null"`
	Weeks      datatypes.JSON `gorm:"not null"`

	Product ProductModel `gorm:"foreignKey:ProductID"`
}

// TableName overrides the table name
func (ShoppingItemModel) TableName() string { return "shopping_items" }

// AllModels lists every model in dependency order for AutoMigrate
func AllModels() []interface{} {
	return []interface{}{
		&TagModel{},
		&ProductModel{},
		&RecipeModel{},
		&RecipeItemModel{},
		&UserModel{},
		&PlanModel{},
		&PlanDayModel{},
		&PlanMealModel{},
		&ShoppingItemModel{},
	}
}
