package dashboard

import (
	"errors"
	"fmt"
	"time"

	"github.com/fdg312/nutrilog/internal/aggregate"
	"github.com/fdg312/nutrilog/internal/goals"
	"github.com/fdg312/nutrilog/internal/storage"
	"github.com/fdg312/nutrilog/internal/timeseries"
	"github.com/fdg312/nutrilog/internal/tracker"
)

// MaxStepsDelta caps a single step-provider report.
const MaxStepsDelta = 1_000_000

var ErrInvalidRequest = errors.New("invalid request")

type Service struct {
	store   *tracker.Store
	builder *timeseries.Builder
	goals   goals.Goals
	now     func() time.Time
}

func NewService(store *tracker.Store, builder *timeseries.Builder, g goals.Goals) *Service {
	return &Service{
		store:   store,
		builder: builder,
		goals:   g,
		now:     time.Now,
	}
}

func (s *Service) Overview() Response {
	stats := s.store.Stats()
	return Response{
		Stats:        stats,
		StepProgress: aggregate.StepProgress(stats, s.goals),
		Meals:        aggregate.Summarize(s.store.Meals(), s.goals),
		Goals:        s.goals,
	}
}

func (s *Service) Chart() []timeseries.Point {
	return s.builder.Build(s.now(), s.store.Meals(), s.store.Workouts(), s.store.Stats())
}

// RecordSteps applies a step-provider delta.
func (s *Service) RecordSteps(delta int) (storage.UserStats, error) {
	if delta < 0 {
		return storage.UserStats{}, fmt.Errorf("%w: delta must not be negative", ErrInvalidRequest)
	}
	if delta > MaxStepsDelta {
		return storage.UserStats{}, fmt.Errorf("%w: delta must not exceed %d", ErrInvalidRequest, MaxStepsDelta)
	}
	return s.store.RecordSteps(delta), nil
}
