package meals

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fdg312/nutrilog/internal/aggregate"
	"github.com/fdg312/nutrilog/internal/ai"
	"github.com/fdg312/nutrilog/internal/goals"
	"github.com/fdg312/nutrilog/internal/storage"
	"github.com/fdg312/nutrilog/internal/tasks"
	"github.com/fdg312/nutrilog/internal/tracker"
)

const (
	TaskKindEstimate = "meal_estimate"

	EstimateFailureMessage = "Could not analyze meal. Please try again."
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	errNoEstimate     = errors.New("no estimate")
)

type Service struct {
	store    *tracker.Store
	tasks    *tasks.Manager
	provider ai.Provider
	goals    goals.Goals
	now      func() time.Time
}

func NewService(store *tracker.Store, manager *tasks.Manager, provider ai.Provider, g goals.Goals) *Service {
	return &Service{
		store:    store,
		tasks:    manager,
		provider: provider,
		goals:    g,
		now:      time.Now,
	}
}

// SubmitManual validates and records a manually entered meal.
func (s *Service) SubmitManual(ctx context.Context, req ManualMealRequest) (storage.MealEntry, error) {
	_ = ctx

	name := strings.TrimSpace(req.Name)
	if name == "" || req.Calories == nil {
		return storage.MealEntry{}, fmt.Errorf("%w: name and calories are required", ErrInvalidRequest)
	}

	meal := storage.MealEntry{
		ID:        uuid.NewString(),
		Name:      name,
		Calories:  *req.Calories,
		Protein:   valueOrZero(req.Protein),
		Carbs:     valueOrZero(req.Carbs),
		Fats:      valueOrZero(req.Fats),
		Timestamp: s.now(),
	}
	if meal.Calories < 0 || meal.Protein < 0 || meal.Carbs < 0 || meal.Fats < 0 {
		return storage.MealEntry{}, fmt.Errorf("%w: values must not be negative", ErrInvalidRequest)
	}

	s.store.AddMeal(meal)
	return meal, nil
}

// StartEstimate asks the oracle for the nutrition of description in the
// background. Only one estimate may be pending at a time (tasks.ErrBusy).
func (s *Service) StartEstimate(ctx context.Context, description string) (tasks.Task, error) {
	_ = ctx

	description = strings.TrimSpace(description)
	if description == "" {
		return tasks.Task{}, fmt.Errorf("%w: description is required", ErrInvalidRequest)
	}

	return s.tasks.Start(tasks.Job{
		Kind: TaskKindEstimate,
		Run: func(ctx context.Context) (any, error) {
			return s.provider.EstimateMeal(ctx, description)
		},
		Apply: func(result any) (any, error) {
			return s.applyEstimate(description, result)
		},
		FailureMessage: EstimateFailureMessage,
	})
}

func (s *Service) applyEstimate(description string, result any) (any, error) {
	est, _ := result.(*ai.MealEstimate)
	if est == nil {
		return nil, errNoEstimate
	}
	if err := est.Normalize(description); err != nil {
		return nil, fmt.Errorf("%w: %v", tasks.ErrRejected, err)
	}

	meal := storage.MealEntry{
		ID:        uuid.NewString(),
		Name:      est.Name,
		Calories:  est.Calories,
		Protein:   est.Protein,
		Carbs:     est.Carbs,
		Fats:      est.Fats,
		Timestamp: s.now(),
	}
	s.store.AddMeal(meal)
	return meal, nil
}

func (s *Service) Remove(id string) {
	s.store.RemoveMeal(id)
}

func (s *Service) Clear() {
	s.store.ClearMeals()
}

func (s *Service) List() []storage.MealEntry {
	return s.store.Meals()
}

func (s *Service) Summary() SummaryResponse {
	return SummaryResponse{
		Summary: aggregate.Summarize(s.store.Meals(), s.goals),
		Goals:   s.goals,
	}
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
