package security

import (
	"testing"

	"github.com/alchemorsel/mealplanner/internal/ports/inbound"
	"github.com/alchemorsel/mealplanner/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type cadenceQuery struct {
	Cadence inbound.Cadence `json:"cadence" validate:"cadence"`
}

func intPtr(v int) *int { return &v }

func TestValidateStruct(t *testing.T) {
	v := NewValidationService(zaptest.NewLogger(t))

	tests := []struct {
		name      string
		input     interface{}
		wantField string
		wantMsg   string
	}{
		{"valid command", inbound.GeneratePlanCommand{UserID: uuid.New(), Weeks: intPtr(4)}, "", ""},
		{"missing user", inbound.GeneratePlanCommand{}, "user_id", "user_id is required"},
		{"too many weeks", inbound.GeneratePlanCommand{UserID: uuid.New(), Weeks: intPtr(53)}, "weeks", "weeks must be at most 52"},
		{"zero weeks", inbound.GeneratePlanCommand{UserID: uuid.New(), Weeks: intPtr(0)}, "weeks", "weeks must be at least 1"},
		{"repeat above seven", inbound.GeneratePlanCommand{UserID: uuid.New(), AllowRepeatDays: intPtr(8)}, "allow_repeat_days", "allow_repeat_days must be at most 7"},
		{"weekly cadence", cadenceQuery{Cadence: inbound.CadenceWeekly}, "", ""},
		{"unknown cadence", cadenceQuery{Cadence: "daily"}, "cadence", "cadence must be weekly or monthly"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateStruct(tt.input)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Equal(t, errors.CodeValidationFailed, errors.GetCode(err))

			var appErr *errors.AppError
			require.ErrorAs(t, err, &appErr)
			details, ok := appErr.Metadata["validation_errors"].(errors.ValidationErrors)
			require.True(t, ok)
			require.Len(t, details, 1)
			assert.Equal(t, tt.wantField, details[0].Field)
			assert.Equal(t, tt.wantMsg, details[0].Message)
		})
	}
}

func TestValidateStruct_NonStruct(t *testing.T) {
	v := NewValidationService(zaptest.NewLogger(t))

	err := v.ValidateStruct(42)
	assert.Equal(t, errors.CodeBadRequest, errors.GetCode(err))
}

func TestNewValidationService_RegistersCadenceRule(t *testing.T) {
	var v *ValidationService
	require.NotPanics(t, func() {
		v = NewValidationService(zaptest.NewLogger(t))
	})

	assert.Error(t, v.ValidateStruct(cadenceQuery{Cadence: "yearly"}))
	assert.NoError(t, v.ValidateStruct(cadenceQuery{Cadence: inbound.CadenceMonthly}))
}
