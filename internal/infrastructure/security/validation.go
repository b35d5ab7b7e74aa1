package security

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/alchemorsel/mealplanner/pkg/errors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ValidationService validates inbound commands against their struct tags
type ValidationService struct {
	logger    *zap.Logger
	validator *validator.Validate
}

// NewValidationService creates a new validation service
func NewValidationService(logger *zap.Logger) *ValidationService {
	validate := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	// Register custom validation rules
	if err := validate.RegisterValidation("cadence", validateCadence); err != nil {
		panic(fmt.Sprintf("security: register cadence validation: %v", err))
	}

	return &ValidationService{
		logger:    logger.Named("validation"),
		validator: validate,
	}
}

func validateCadence(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "", "weekly", "monthly":
		return true
	}
	return false
}

// ValidateStruct validates a struct and returns a VALIDATION_FAILED AppError
// carrying one entry per failing field
func (v *ValidationService) ValidateStruct(s interface{}) error {
	err := v.validator.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		v.logger.Warn("Validation could not run", zap.Error(err))
		return errors.NewBadRequestError("Request could not be validated").WithCause(err)
	}

	details := make([]errors.ValidationError, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		details = append(details, errors.ValidationError{
			Field:   e.Field(),
			Value:   e.Value(),
			Tag:     e.Tag(),
			Message: messageFor(e),
		})
	}
	return errors.NewValidationErrors(details)
}

func messageFor(e validator.FieldError) string {
	field := e.Field()
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "cadence":
		return fmt.Sprintf("%s must be weekly or monthly", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
