package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"io"
	"testing"

	"github.com/alchemorsel/mealplanner/internal/infrastructure/persistence/sqlite"
	"github.com/alchemorsel/mealplanner/internal/ports/inbound"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("plangen", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestParseFlags_Defaults(t *testing.T) {
	opts, err := parseFlags(newFlagSet(), nil)
	require.NoError(t, err)

	assert.Equal(t, sqlite.DemoWeightLossUserID, opts.UserID)
	assert.Equal(t, "table", opts.Output)
	assert.Nil(t, opts.Command.Weeks)
	assert.Nil(t, opts.Command.AllowRepeatDays)
	assert.Nil(t, opts.Command.PreferSimple)
}

func TestParseFlags_OnlyExplicitOptionsOverride(t *testing.T) {
	id := uuid.New()
	opts, err := parseFlags(newFlagSet(), []string{"-user", id.String(), "-weeks", "3", "-prefer-simple=false", "-output", "yaml"})
	require.NoError(t, err)

	assert.Equal(t, id, opts.Command.UserID)
	require.NotNil(t, opts.Command.Weeks)
	assert.Equal(t, 3, *opts.Command.Weeks)
	require.NotNil(t, opts.Command.PreferSimple)
	assert.False(t, *opts.Command.PreferSimple)
	assert.Nil(t, opts.Command.AllowRepeatDays)
	assert.Equal(t, "yaml", opts.Output)
}

func TestParseFlags_Rejects(t *testing.T) {
	_, err := parseFlags(newFlagSet(), []string{"-output", "xml"})
	assert.ErrorContains(t, err, "unknown output format")

	_, err = parseFlags(newFlagSet(), []string{"-user", "nope"})
	assert.ErrorContains(t, err, "invalid -user")
}

func samplePlan() *inbound.PlanDTO {
	reused := 0
	return &inbound.PlanDTO{
		PlanSummaryDTO: inbound.PlanSummaryDTO{
			ID:     uuid.New(),
			UserID: uuid.New(),
			Weeks:  1,
			Target: inbound.TargetsDTO{Calories: 2320, ProteinG: 160, FatG: 50, CarbsG: 307},
		},
		Schedule: []inbound.DayDTO{
			{Index: 0, Week: 1, Meals: []inbound.MealDTO{
				{Slot: "breakfast", RecipeName: "Oat Porridge", Portion: 1.25, Macros: inbound.MacrosDTO{Calories: 580}},
				{Slot: "lunch", RecipeName: "Chicken Rice Bowl", Portion: 1, Macros: inbound.MacrosDTO{Calories: 812}},
			}, Totals: inbound.MacrosDTO{Calories: 1392}},
			{Index: 1, Week: 1, ReusedFrom: &reused, Meals: []inbound.MealDTO{
				{Slot: "breakfast", RecipeName: "Oat Porridge", Portion: 1.25, Macros: inbound.MacrosDTO{Calories: 580}},
			}, Totals: inbound.MacrosDTO{Calories: 580}},
		},
		ShoppingList: []inbound.ShoppingItemDTO{
			{ProductName: "Rolled oats", TotalGrams: 160, Monthly: true, Weeks: []int{1}},
			{ProductName: "Chicken breast", TotalGrams: 150, Weeks: []int{1}},
		},
	}
}

func TestRender_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render(&buf, "table", samplePlan()))

	out := buf.String()
	assert.Contains(t, out, "Target   2320 kcal")
	assert.Contains(t, out, "Chicken Rice Bowl")
	assert.Contains(t, out, "2 (=1)")
	assert.Contains(t, out, "monthly")
	assert.Contains(t, out, "weekly")
}

func TestRender_JSON(t *testing.T) {
	plan := samplePlan()
	var buf bytes.Buffer
	require.NoError(t, render(&buf, "json", plan))

	var decoded inbound.PlanDTO
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, plan.ID, decoded.ID)
	assert.Len(t, decoded.Schedule, 2)
}

func TestRender_YAMLInlinesSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render(&buf, "yaml", samplePlan()))

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Contains(t, decoded, "weeks")
	assert.Contains(t, decoded, "schedule")
	assert.Contains(t, decoded, "shopping_list")
}
