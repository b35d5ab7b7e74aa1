package recipe

import "errors"

// Domain errors for recipe validation

var (
	ErrNameRequired       = errors.New("recipe name is required")
	ErrInvalidMealType    = errors.New("recipe meal type must be breakfast, lunch, dinner or snack")
	ErrInvalidComplexity  = errors.New("recipe complexity must be simple, medium or complex")
	ErrInvalidPortion     = errors.New("min portion must be greater than 0")
	ErrInvalidPortionSpan = errors.New("max portion must not be less than min portion")
	ErrNoItems            = errors.New("recipe must have at least one item")
	ErrInvalidAmount      = errors.New("item amount must be greater than 0 grams")
	ErrMissingProduct     = errors.New("item must reference a product")
	ErrNegativeMacros     = errors.New("macros must not be negative")
)
