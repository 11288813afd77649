package workouts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fdg312/nutrilog/internal/ai"
	"github.com/fdg312/nutrilog/internal/storage"
	"github.com/fdg312/nutrilog/internal/storage/memory"
	"github.com/fdg312/nutrilog/internal/tasks"
	"github.com/fdg312/nutrilog/internal/tracker"
)

var seed = storage.UserStats{Steps: 6540, CaloriesBurned: 450, ActiveMinutes: 35}

type stubProvider struct {
	suggestion *ai.WorkoutSuggestion
	err        error
}

func (p *stubProvider) EstimateMeal(ctx context.Context, description string) (*ai.MealEstimate, error) {
	return nil, nil
}

func (p *stubProvider) SuggestWorkout(ctx context.Context, workoutType, duration string) (*ai.WorkoutSuggestion, error) {
	return p.suggestion, p.err
}

func newTestService() (*Service, *tracker.Store, *tasks.Manager) {
	return newTestServiceWith(ai.NewMockProvider())
}

func newTestServiceWith(provider ai.Provider) (*Service, *tracker.Store, *tasks.Manager) {
	store := tracker.New(memory.New(), tracker.Options{Stats: seed})
	manager := tasks.NewManager(nil)
	return NewService(store, manager, provider), store, manager
}

func TestParseMinutes(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"45 mins", 45},
		{"30 minutes", 30},
		{"  60min", 60},
		{"90", 90},
		{"", 30},
		{"quick", 30},
		{"0 mins", 30},
		{"-5 mins", 30},
	}
	for _, tt := range tests {
		if got := ParseMinutes(tt.in); got != tt.want {
			t.Fatalf("ParseMinutes(%q): expected %d, got %d", tt.in, tt.want, got)
		}
	}
}

func TestCompleteFoldsIntoStats(t *testing.T) {
	svc, store, _ := newTestService()

	resp, err := svc.Complete(context.Background(), CompleteRequest{Title: "Morning Run", Duration: "30 minutes", CaloriesBurned: 180})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if resp.Workout.DurationMin != 30 || resp.Workout.Type != "Morning Run" {
		t.Fatalf("unexpected workout: %+v", resp.Workout)
	}

	want := storage.UserStats{Steps: 6540, CaloriesBurned: 630, ActiveMinutes: 65}
	if resp.Stats != want || store.Stats() != want {
		t.Fatalf("expected stats %+v, got %+v", want, resp.Stats)
	}
}

func TestCompleteValidation(t *testing.T) {
	svc, store, _ := newTestService()

	if _, err := svc.Complete(context.Background(), CompleteRequest{Title: " ", Duration: "30"}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for blank title, got %v", err)
	}
	if _, err := svc.Complete(context.Background(), CompleteRequest{Title: "Run", CaloriesBurned: -1}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for negative calories, got %v", err)
	}
	if len(store.Workouts()) != 0 || store.Stats() != seed {
		t.Fatal("expected store to be untouched")
	}
}

func TestCompleteRejectsOversizedDuration(t *testing.T) {
	svc, store, _ := newTestService()

	for _, d := range []string{"9223372036854775807 mins", "2000 minutes", "1441"} {
		if _, err := svc.Complete(context.Background(), CompleteRequest{Title: "Run", Duration: d}); !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("duration %q: expected ErrInvalidRequest, got %v", d, err)
		}
	}
	if len(store.Workouts()) != 0 || store.Stats() != seed {
		t.Fatalf("expected store to be untouched, got %+v", store.Stats())
	}

	resp, err := svc.Complete(context.Background(), CompleteRequest{Title: "Ultra", Duration: "1440 mins"})
	if err != nil {
		t.Fatalf("complete full day: %v", err)
	}
	if resp.Stats.ActiveMinutes != seed.ActiveMinutes+MaxWorkoutMinutes {
		t.Fatalf("unexpected active minutes %d", resp.Stats.ActiveMinutes)
	}
}

func TestStartSuggestion(t *testing.T) {
	svc, store, manager := newTestService()

	task, err := svc.StartSuggestion(context.Background(), "Yoga", "")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	done, err := manager.Wait(ctx, task.ID)
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if done.State != tasks.StateSucceeded {
		t.Fatalf("expected succeeded, got %+v", done)
	}
	suggestion, ok := done.Result.(*ai.WorkoutSuggestion)
	if !ok || suggestion.Title != "Yoga Session (30 minutes)" || suggestion.EstimatedCalories != 150 {
		t.Fatalf("unexpected suggestion: %#v", done.Result)
	}
	if len(store.Workouts()) != 0 {
		t.Fatal("expected suggestion not to be recorded as a workout")
	}
}

func TestStartSuggestionFailures(t *testing.T) {
	tests := []struct {
		name      string
		provider  *stubProvider
		wantState tasks.State
		wantError string
	}{
		{"provider error", &stubProvider{err: errors.New("503")}, tasks.StateOracleFailed, SuggestionFailureMessage},
		{"no suggestion", &stubProvider{}, tasks.StateOracleFailed, SuggestionFailureMessage},
		{"NaN calories", &stubProvider{suggestion: &ai.WorkoutSuggestion{Title: "x", EstimatedCalories: math.NaN()}}, tasks.StateValidationFailed, ""},
		{"infinite calories", &stubProvider{suggestion: &ai.WorkoutSuggestion{Title: "x", EstimatedCalories: math.Inf(1)}}, tasks.StateValidationFailed, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, manager := newTestServiceWith(tt.provider)

			task, err := svc.StartSuggestion(context.Background(), "Yoga", "20 minutes")
			if err != nil {
				t.Fatalf("start: %v", err)
			}
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			done, err := manager.Wait(ctx, task.ID)
			if err != nil {
				t.Fatalf("wait: %v", err)
			}

			if done.State != tt.wantState {
				t.Fatalf("expected %s, got %+v", tt.wantState, done)
			}
			if tt.wantError != "" && done.Error != tt.wantError {
				t.Fatalf("expected error %q, got %q", tt.wantError, done.Error)
			}
			if done.Result != nil {
				t.Fatalf("expected no result, got %#v", done.Result)
			}
			if _, pending := manager.Pending(TaskKindSuggestion); pending {
				t.Fatal("expected no pending suggestion")
			}
			if len(store.Workouts()) != 0 || store.Stats() != seed {
				t.Fatal("expected store to be untouched")
			}
		})
	}
}

func TestStartSuggestionBlankType(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.StartSuggestion(context.Background(), "", "20 minutes"); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestHandlers(t *testing.T) {
	svc, _, _ := newTestService()
	h := NewHandlers(svc)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/workouts", h.HandleList)
	mux.HandleFunc("POST /v1/workouts/suggest", h.HandleSuggest)
	mux.HandleFunc("POST /v1/workouts/complete", h.HandleComplete)
	mux.HandleFunc("DELETE /v1/workouts/{id}", h.HandleDelete)

	body, _ := json.Marshal(CompleteRequest{Title: "HIIT Blast", Duration: "45 mins", CaloriesBurned: 300})
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/workouts/complete", bytes.NewReader(body)))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", w.Code, w.Body.String())
	}
	var resp CompleteResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Workout.DurationMin != 45 {
		t.Fatalf("expected 45 minutes, got %d", resp.Workout.DurationMin)
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/workouts/suggest", bytes.NewReader([]byte(`{"type":"Strength"}`))))
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/v1/workouts/"+resp.Workout.ID, nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/workouts", nil))
	var list ListResponse
	if err := json.NewDecoder(w.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Workouts) != 0 {
		t.Fatalf("expected no workouts, got %d", len(list.Workouts))
	}
}
