package workouts

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/fdg312/nutrilog/internal/ai"
	"github.com/fdg312/nutrilog/internal/storage"
	"github.com/fdg312/nutrilog/internal/tasks"
	"github.com/fdg312/nutrilog/internal/tracker"
)

const (
	TaskKindSuggestion = "workout_suggestion"

	SuggestionFailureMessage = "Could not generate a workout. Please try again."

	fallbackMinutes = 30

	// MaxWorkoutMinutes bounds a single completed workout to one day.
	MaxWorkoutMinutes = 24 * 60
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	errNoSuggestion   = errors.New("no suggestion")
)

type Service struct {
	store    *tracker.Store
	tasks    *tasks.Manager
	provider ai.Provider
	now      func() time.Time
}

func NewService(store *tracker.Store, manager *tasks.Manager, provider ai.Provider) *Service {
	return &Service{
		store:    store,
		tasks:    manager,
		provider: provider,
		now:      time.Now,
	}
}

// StartSuggestion asks the oracle for a routine. The suggestion is returned
// as the task result and is not recorded until Complete.
func (s *Service) StartSuggestion(ctx context.Context, workoutType, duration string) (tasks.Task, error) {
	_ = ctx

	workoutType = strings.TrimSpace(workoutType)
	if workoutType == "" {
		return tasks.Task{}, fmt.Errorf("%w: type is required", ErrInvalidRequest)
	}
	duration = strings.TrimSpace(duration)
	if duration == "" {
		duration = DefaultDuration
	}

	return s.tasks.Start(tasks.Job{
		Kind: TaskKindSuggestion,
		Run: func(ctx context.Context) (any, error) {
			return s.provider.SuggestWorkout(ctx, workoutType, duration)
		},
		Apply: func(result any) (any, error) {
			suggestion, _ := result.(*ai.WorkoutSuggestion)
			if suggestion == nil {
				return nil, errNoSuggestion
			}
			if err := suggestion.Normalize(workoutType + " workout"); err != nil {
				return nil, fmt.Errorf("%w: %v", tasks.ErrRejected, err)
			}
			return suggestion, nil
		},
		FailureMessage: SuggestionFailureMessage,
	})
}

// Complete records the workout and folds it into the session stats.
func (s *Service) Complete(ctx context.Context, req CompleteRequest) (CompleteResponse, error) {
	_ = ctx

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return CompleteResponse{}, fmt.Errorf("%w: title is required", ErrInvalidRequest)
	}
	if req.CaloriesBurned < 0 || math.IsNaN(req.CaloriesBurned) || math.IsInf(req.CaloriesBurned, 0) {
		return CompleteResponse{}, fmt.Errorf("%w: calories_burned must be a non-negative number", ErrInvalidRequest)
	}

	minutes := ParseMinutes(req.Duration)
	if minutes > MaxWorkoutMinutes {
		return CompleteResponse{}, fmt.Errorf("%w: duration must not exceed %d minutes", ErrInvalidRequest, MaxWorkoutMinutes)
	}

	w := storage.WorkoutEntry{
		ID:             uuid.NewString(),
		Type:           title,
		DurationMin:    minutes,
		CaloriesBurned: req.CaloriesBurned,
		Timestamp:      s.now(),
	}
	s.store.AddWorkout(w)

	return CompleteResponse{Workout: w, Stats: s.store.Stats()}, nil
}

func (s *Service) Remove(id string) {
	s.store.RemoveWorkout(id)
}

func (s *Service) List() []storage.WorkoutEntry {
	return s.store.Workouts()
}

// ParseMinutes reads the leading integer of a duration label ("45 mins" -> 45).
// Labels without a positive leading number count as 30 minutes.
func ParseMinutes(label string) int {
	label = strings.TrimSpace(label)
	end := strings.IndexFunc(label, func(r rune) bool { return !unicode.IsDigit(r) })
	if end == -1 {
		end = len(label)
	}
	n, err := strconv.Atoi(label[:end])
	if err != nil || n <= 0 {
		return fallbackMinutes
	}
	return n
}
