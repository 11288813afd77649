package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidEstimate marks an oracle payload that cannot be used.
var ErrInvalidEstimate = errors.New("invalid estimate")

// Provider is the estimation oracle. A nil result with a nil error means the
// oracle had no answer.
type Provider interface {
	EstimateMeal(ctx context.Context, description string) (*MealEstimate, error)
	SuggestWorkout(ctx context.Context, workoutType, duration string) (*WorkoutSuggestion, error)
}

type MealEstimate struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

type Exercise struct {
	Name string `json:"name"`
	Sets string `json:"sets"`
	Reps string `json:"reps"`
}

type WorkoutSuggestion struct {
	Title             string     `json:"title"`
	EstimatedCalories float64    `json:"estimatedCalories"`
	Exercises         []Exercise `json:"exercises"`
}

// Normalize rejects non-finite numbers, clamps negatives to zero and fills a
// blank name with fallback.
func (e *MealEstimate) Normalize(fallback string) error {
	for _, v := range []*float64{&e.Calories, &e.Protein, &e.Carbs, &e.Fats} {
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			return fmt.Errorf("%w: non-finite value", ErrInvalidEstimate)
		}
		if *v < 0 {
			*v = 0
		}
	}
	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" {
		e.Name = strings.TrimSpace(fallback)
	}
	return nil
}

func (s *WorkoutSuggestion) Normalize(fallback string) error {
	if math.IsNaN(s.EstimatedCalories) || math.IsInf(s.EstimatedCalories, 0) {
		return fmt.Errorf("%w: non-finite calories", ErrInvalidEstimate)
	}
	if s.EstimatedCalories < 0 {
		s.EstimatedCalories = 0
	}
	s.Title = strings.TrimSpace(s.Title)
	if s.Title == "" {
		s.Title = strings.TrimSpace(fallback)
	}
	if s.Exercises == nil {
		s.Exercises = []Exercise{}
	}
	return nil
}

func mealPrompt(description string) string {
	return fmt.Sprintf("Estimate the nutrition facts for: %s. Return reasonable estimates.", description)
}

func workoutPrompt(workoutType, duration string) string {
	return fmt.Sprintf("Suggest a %s workout routine that lasts %s.", workoutType, duration)
}

// decodeMealEstimate parses the oracle's JSON text; empty text is "no estimate".
func decodeMealEstimate(text string) (*MealEstimate, error) {
	text = stripCodeFence(text)
	if text == "" {
		return nil, nil
	}
	var out MealEstimate
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEstimate, err)
	}
	return &out, nil
}

func decodeWorkoutSuggestion(text string) (*WorkoutSuggestion, error) {
	text = stripCodeFence(text)
	if text == "" {
		return nil, nil
	}
	var out WorkoutSuggestion
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEstimate, err)
	}
	return &out, nil
}

// stripCodeFence removes a ```json fence some models wrap around JSON output.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
