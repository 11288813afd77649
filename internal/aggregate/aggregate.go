// Package aggregate derives totals and goal progress from store snapshots.
// All functions are pure.
package aggregate

import (
	"math"

	"github.com/fdg312/nutrilog/internal/goals"
	"github.com/fdg312/nutrilog/internal/storage"
)

type Totals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

// MacroProgress holds percentages in [0,100].
type MacroProgress struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

type Summary struct {
	Totals            Totals        `json:"totals"`
	CaloriesRemaining float64       `json:"calories_remaining"`
	Progress          MacroProgress `json:"progress"`
}

func SumMeals(meals []storage.MealEntry) Totals {
	var t Totals
	for _, m := range meals {
		t.Calories += m.Calories
		t.Protein += m.Protein
		t.Carbs += m.Carbs
		t.Fats += m.Fats
	}
	return t
}

// CaloriesRemaining is never negative.
func CaloriesRemaining(total, goal float64) float64 {
	r := goal - total
	if r > 0 {
		return r
	}
	return 0
}

// Progress returns 100*current/goal clamped to [0,100].
// A non-positive goal counts as met once anything was consumed.
func Progress(current, goal float64) float64 {
	if math.IsNaN(current) || math.IsNaN(goal) {
		return 0
	}
	if goal <= 0 {
		if current <= 0 {
			return 0
		}
		return 100
	}
	p := 100 * current / goal
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func Summarize(meals []storage.MealEntry, g goals.Goals) Summary {
	t := SumMeals(meals)
	return Summary{
		Totals:            t,
		CaloriesRemaining: CaloriesRemaining(t.Calories, g.Calories),
		Progress: MacroProgress{
			Calories: Progress(t.Calories, g.Calories),
			Protein:  Progress(t.Protein, g.ProteinG),
			Carbs:    Progress(t.Carbs, g.CarbsG),
			Fats:     Progress(t.Fats, g.FatsG),
		},
	}
}

// ApplyWorkout folds a completed workout into the running stats.
func ApplyWorkout(stats storage.UserStats, w storage.WorkoutEntry) storage.UserStats {
	stats.CaloriesBurned += w.CaloriesBurned
	stats.ActiveMinutes = SaturatingAdd(stats.ActiveMinutes, w.DurationMin)
	return stats
}

// SaturatingAdd returns a+delta, clamped to math.MaxInt. Non-positive deltas
// leave a unchanged.
func SaturatingAdd(a, delta int) int {
	if delta <= 0 {
		return a
	}
	if a > math.MaxInt-delta {
		return math.MaxInt
	}
	return a + delta
}

func StepProgress(stats storage.UserStats, g goals.Goals) float64 {
	return Progress(float64(stats.Steps), float64(g.Steps))
}
