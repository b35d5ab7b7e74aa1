// Package nutrition derives daily macro targets from body weight and goal
package nutrition

import (
	"errors"
	"fmt"
	"math"
)

// MaxWeightKg is the largest body weight accepted by CalculateTargets
const MaxWeightKg = 500.0

// ErrInvalidWeight is returned for weights outside (0, MaxWeightKg]
var ErrInvalidWeight = errors.New("weight must be greater than 0 and at most 500 kg")

// ErrUnknownGoal is returned for goals other than the supported ones
var ErrUnknownGoal = errors.New("unknown dietary goal")

// Goal is a dietary goal
type Goal string

const (
	GoalWeightLoss Goal = "weight_loss"
	GoalMuscleGain Goal = "muscle_gain"
)

// IsValid reports whether the goal is supported
func (g Goal) IsValid() bool {
	return g == GoalWeightLoss || g == GoalMuscleGain
}

// ParseGoal parses a goal name
func ParseGoal(s string) (Goal, error) {
	g := Goal(s)
	if !g.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownGoal, s)
	}
	return g, nil
}

// Target is the daily macro target of a plan
type Target struct {
	Calories int `json:"calories"`
	ProteinG int `json:"protein_g"`
	FatG     int `json:"fat_g"`
	CarbsG   int `json:"carbs_g"`
}

// Weight loss keeps fat fixed at 50 g, i.e. 450 kcal.
const (
	weightLossKcalPerKg = 29
	weightLossFatG      = 50
	muscleGainKcalPerKg = 36
	muscleGainSurplus   = 500
	proteinGPerKg       = 2
	kcalPerGProtein     = 4
	kcalPerGCarbs       = 4
	kcalPerGFat         = 9
)

// CalculateTargets computes the daily target for a body weight and goal
func CalculateTargets(weightKg float64, goal Goal) (Target, error) {
	if math.IsNaN(weightKg) || weightKg <= 0 || weightKg > MaxWeightKg {
		return Target{}, ErrInvalidWeight
	}

	protein := round(weightKg * proteinGPerKg)

	switch goal {
	case GoalWeightLoss:
		calories := round(weightKg * weightLossKcalPerKg)
		fat := weightLossFatG
		return Target{
			Calories: calories,
			ProteinG: protein,
			FatG:     fat,
			CarbsG:   carbsFor(calories, protein, fat),
		}, nil
	case GoalMuscleGain:
		calories := round(weightKg*muscleGainKcalPerKg) + muscleGainSurplus
		fat := round(weightKg)
		return Target{
			Calories: calories,
			ProteinG: protein,
			FatG:     fat,
			CarbsG:   carbsFor(calories, protein, fat),
		}, nil
	default:
		return Target{}, fmt.Errorf("%w: %q", ErrUnknownGoal, goal)
	}
}

// carbs fill the calories left after protein and fat. Partial grams are
// dropped so the carbs never push the day over its calorie budget.
func carbsFor(calories, protein, fat int) int {
	rest := float64(calories-protein*kcalPerGProtein-fat*kcalPerGFat) / kcalPerGCarbs
	return max(0, int(math.Floor(rest)))
}

func round(v float64) int {
	return int(math.Round(v))
}
