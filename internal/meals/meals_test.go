package meals

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
	"github.com/fdg312/nutrilog/internal/goals"
	"github.com/fdg312/nutrilog/internal/storage"
	"github.com/fdg312/nutrilog/internal/storage/memory"
	"github.com/fdg312/nutrilog/internal/tasks"
	"github.com/fdg312/nutrilog/internal/tracker"
)

type stubProvider struct {
	estimate *ai.MealEstimate
	err      error
	release  chan struct{}
}

func (p *stubProvider) EstimateMeal(ctx context.Context, description string) (*ai.MealEstimate, error) {
	if p.release != nil {
		<-p.release
	}
	return p.estimate, p.err
}

func (p *stubProvider) SuggestWorkout(ctx context.Context, workoutType, duration string) (*ai.WorkoutSuggestion, error) {
	return nil, nil
}

func newTestService(provider ai.Provider) (*Service, *tracker.Store, *tasks.Manager) {
	store := tracker.New(memory.New(), tracker.Options{})
	manager := tasks.NewManager(nil)
	return NewService(store, manager, provider, goals.Default()), store, manager
}

func ptr(v float64) *float64 { return &v }

func waitTask(t *testing.T, m *tasks.Manager, id string) tasks.Task {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	task, err := m.Wait(ctx, id)
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	return task
}

func TestSubmitManualEggs(t *testing.T) {
	svc, store, _ := newTestService(ai.NewMockProvider())

	meal, err := svc.SubmitManual(context.Background(), ManualMealRequest{
		Name: "Eggs", Calories: ptr(220), Protein: ptr(14), Carbs: ptr(2), Fats: ptr(16),
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if meal.ID == "" || meal.Timestamp.IsZero() {
		t.Fatalf("expected id and timestamp, got %+v", meal)
	}

	sum := svc.Summary()
	if sum.Totals.Calories != 220 || sum.Totals.Protein != 14 || sum.Totals.Carbs != 2 || sum.Totals.Fats != 16 {
		t.Fatalf("unexpected totals: %+v", sum.Totals)
	}
	if sum.CaloriesRemaining != 2280 {
		t.Fatalf("expected 2280 remaining, got %v", sum.CaloriesRemaining)
	}
	if math.Abs(sum.Progress.Calories-8.8) > 1e-9 {
		t.Fatalf("expected 8.8%% calories progress, got %v", sum.Progress.Calories)
	}
	if len(store.Meals()) != 1 {
		t.Fatalf("expected one stored meal")
	}
}

func TestSubmitManualValidation(t *testing.T) {
	svc, store, _ := newTestService(ai.NewMockProvider())

	tests := []struct {
		name string
		req  ManualMealRequest
	}{
		{"missing calories", ManualMealRequest{Name: "Soup"}},
		{"blank name", ManualMealRequest{Name: "  ", Calories: ptr(100)}},
		{"negative calories", ManualMealRequest{Name: "Soup", Calories: ptr(-1)}},
		{"negative macro", ManualMealRequest{Name: "Soup", Calories: ptr(100), Fats: ptr(-2)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.SubmitManual(context.Background(), tt.req); !errors.Is(err, ErrInvalidRequest) {
				t.Fatalf("expected ErrInvalidRequest, got %v", err)
			}
		})
	}
	if len(store.Meals()) != 0 {
		t.Fatal("expected no meals after rejected submissions")
	}
}

func TestSubmitManualDefaultsMacros(t *testing.T) {
	svc, _, _ := newTestService(ai.NewMockProvider())
	meal, err := svc.SubmitManual(context.Background(), ManualMealRequest{Name: "Apple", Calories: ptr(95)})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if meal.Protein != 0 || meal.Carbs != 0 || meal.Fats != 0 {
		t.Fatalf("expected zero macros, got %+v", meal)
	}
}

func TestStartEstimateAddsMeal(t *testing.T) {
	provider := &stubProvider{estimate: &ai.MealEstimate{Name: "", Calories: 480, Protein: -3, Carbs: 80, Fats: 9}}
	svc, store, manager := newTestService(provider)

	task, err := svc.StartEstimate(context.Background(), "rice bowl with tofu")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	done := waitTask(t, manager, task.ID)
	if done.State != tasks.StateSucceeded {
		t.Fatalf("expected succeeded, got %+v", done)
	}

	got := store.Meals()
	if len(got) != 1 {
		t.Fatalf("expected one meal, got %d", len(got))
	}
	if got[0].Name != "rice bowl with tofu" || got[0].Protein != 0 || got[0].Calories != 480 {
		t.Fatalf("unexpected normalised meal: %+v", got[0])
	}
}

func TestStartEstimateOracleFailure(t *testing.T) {
	svc, store, manager := newTestService(&stubProvider{err: errors.New("503")})

	task, _ := svc.StartEstimate(context.Background(), "mystery stew")
	done := waitTask(t, manager, task.ID)

	if done.State != tasks.StateOracleFailed || done.Error != EstimateFailureMessage {
		t.Fatalf("unexpected task: %+v", done)
	}
	if len(store.Meals()) != 0 {
		t.Fatal("expected no meal on oracle failure")
	}
}

func TestStartEstimateNoEstimate(t *testing.T) {
	svc, store, manager := newTestService(&stubProvider{})

	task, _ := svc.StartEstimate(context.Background(), "air")
	done := waitTask(t, manager, task.ID)

	if done.State != tasks.StateOracleFailed {
		t.Fatalf("expected oracle_failed for empty estimate, got %s", done.State)
	}
	if len(store.Meals()) != 0 {
		t.Fatal("expected no meal")
	}
}

func TestStartEstimateNonFiniteIsValidationFailure(t *testing.T) {
	svc, store, manager := newTestService(&stubProvider{estimate: &ai.MealEstimate{Name: "x", Calories: math.Inf(1)}})

	task, _ := svc.StartEstimate(context.Background(), "x")
	done := waitTask(t, manager, task.ID)

	if done.State != tasks.StateValidationFailed {
		t.Fatalf("expected validation_failed, got %s", done.State)
	}
	if len(store.Meals()) != 0 {
		t.Fatal("expected no meal")
	}
}

func TestStartEstimateBusyAndDiscard(t *testing.T) {
	provider := &stubProvider{estimate: &ai.MealEstimate{Name: "Toast", Calories: 150}, release: make(chan struct{})}
	svc, store, manager := newTestService(provider)

	first, err := svc.StartEstimate(context.Background(), "toast")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.StartEstimate(context.Background(), "more toast"); !errors.Is(err, tasks.ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}

	if _, err := manager.Discard(first.ID); err != nil {
		t.Fatalf("discard: %v", err)
	}
	close(provider.release)
	time.Sleep(50 * time.Millisecond)

	if len(store.Meals()) != 0 {
		t.Fatal("expected discarded estimate to never reach the store")
	}
}

func TestStartEstimateBlank(t *testing.T) {
	svc, _, _ := newTestService(ai.NewMockProvider())
	if _, err := svc.StartEstimate(context.Background(), "   "); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestHandlers(t *testing.T) {
	svc, _, manager := newTestService(ai.NewMockProvider())
	h := NewHandlers(svc)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/meals", h.HandleList)
	mux.HandleFunc("POST /v1/meals", h.HandleCreate)
	mux.HandleFunc("POST /v1/meals/estimate", h.HandleEstimate)
	mux.HandleFunc("DELETE /v1/meals/{id}", h.HandleDelete)
	mux.HandleFunc("DELETE /v1/meals", h.HandleClear)
	mux.HandleFunc("GET /v1/meals/summary", h.HandleSummary)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/meals", bytes.NewReader([]byte(`{"name":"Soup"}`))))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing calories, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/meals", bytes.NewReader([]byte(`{"name":"Eggs","calories":220,"protein":14,"carbs":2,"fats":16}`))))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", w.Code, w.Body.String())
	}
	var created storage.MealEntry
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/meals/estimate", bytes.NewReader([]byte(`{"description":"bowl of oats"}`))))
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", w.Code)
	}
	var task tasks.Task
	if err := json.NewDecoder(w.Body).Decode(&task); err != nil {
		t.Fatalf("decode task: %v", err)
	}
	waitTask(t, manager, task.ID)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/meals/summary", nil))
	var summary SummaryResponse
	if err := json.NewDecoder(w.Body).Decode(&summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.Totals.Calories != 520 {
		t.Fatalf("expected 520 kcal (eggs + oatmeal), got %v", summary.Totals.Calories)
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/v1/meals/"+created.ID, nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/v1/meals", nil))
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/meals", nil))
	var list ListResponse
	if err := json.NewDecoder(w.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Meals) != 0 {
		t.Fatalf("expected empty list after clear, got %d", len(list.Meals))
	}
}
