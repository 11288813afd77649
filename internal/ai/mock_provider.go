package ai

import (
	"context"
	"fmt"
	"strings"
)

// MockProvider returns canned estimates; no network access.
type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

type cannedMeal struct {
	keyword string
	meal    MealEstimate
}

var cannedMeals = []cannedMeal{
	{"egg", MealEstimate{Name: "Scrambled Eggs", Calories: 220, Protein: 14, Carbs: 2, Fats: 16}},
	{"oat", MealEstimate{Name: "Oatmeal", Calories: 300, Protein: 10, Carbs: 54, Fats: 6}},
	{"salad", MealEstimate{Name: "Chicken Salad", Calories: 350, Protein: 30, Carbs: 12, Fats: 18}},
	{"pizza", MealEstimate{Name: "Pizza Slices", Calories: 570, Protein: 24, Carbs: 66, Fats: 22}},
	{"burger", MealEstimate{Name: "Burger", Calories: 650, Protein: 32, Carbs: 48, Fats: 35}},
	{"banana", MealEstimate{Name: "Banana", Calories: 105, Protein: 1.3, Carbs: 27, Fats: 0.4}},
	{"rice", MealEstimate{Name: "Rice Bowl", Calories: 480, Protein: 18, Carbs: 80, Fats: 9}},
}

var cannedWorkoutCalories = map[string]float64{
	"hiit":     300,
	"cardio":   280,
	"strength": 250,
	"yoga":     150,
}

func (p *MockProvider) EstimateMeal(ctx context.Context, description string) (*MealEstimate, error) {
	_ = ctx

	lowered := strings.ToLower(description)
	for _, c := range cannedMeals {
		if strings.Contains(lowered, c.keyword) {
			m := c.meal
			return &m, nil
		}
	}

	return &MealEstimate{
		Name:     strings.TrimSpace(description),
		Calories: 400,
		Protein:  20,
		Carbs:    45,
		Fats:     15,
	}, nil
}

func (p *MockProvider) SuggestWorkout(ctx context.Context, workoutType, duration string) (*WorkoutSuggestion, error) {
	_ = ctx

	calories, ok := cannedWorkoutCalories[strings.ToLower(strings.TrimSpace(workoutType))]
	if !ok {
		calories = 220
	}

	return &WorkoutSuggestion{
		Title:             fmt.Sprintf("%s Session (%s)", strings.TrimSpace(workoutType), strings.TrimSpace(duration)),
		EstimatedCalories: calories,
		Exercises: []Exercise{
			{Name: "Warm-up", Sets: "1 set", Reps: "5 mins"},
			{Name: "Main block", Sets: "3 sets", Reps: "12 reps"},
			{Name: "Cool-down", Sets: "1 set", Reps: "5 mins"},
		},
	}, nil
}
