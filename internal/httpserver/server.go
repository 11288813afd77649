package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/fdg312/nutrilog/internal/ai"
	"github.com/fdg312/nutrilog/internal/config"
	"github.com/fdg312/nutrilog/internal/dashboard"
	"github.com/fdg312/nutrilog/internal/goals"
	"github.com/fdg312/nutrilog/internal/meals"
	"github.com/fdg312/nutrilog/internal/metrics"
	"github.com/fdg312/nutrilog/internal/reminders"
	"github.com/fdg312/nutrilog/internal/reports"
	"github.com/fdg312/nutrilog/internal/settings"
	"github.com/fdg312/nutrilog/internal/storage"
	"github.com/fdg312/nutrilog/internal/storage/factory"
	"github.com/fdg312/nutrilog/internal/tasks"
	"github.com/fdg312/nutrilog/internal/timeseries"
	"github.com/fdg312/nutrilog/internal/tracker"
	"github.com/fdg312/nutrilog/internal/workouts"
)

// Server представляет HTTP сервер
type Server struct {
	config      *config.Config
	mux         *http.ServeMux
	storage     storage.KV
	storageMode string
	store       *tracker.Store
	tasks       *tasks.Manager
	provider    ai.Provider
	httpServer  *http.Server
}

// New создаёт сервер: storage по STORAGE_MODE, загрузка напоминаний, маршруты.
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	kv, mode, err := factory.NewKV(ctx, cfg, log.Default())
	if err != nil {
		return nil, err
	}

	provider, err := ai.NewProvider(ctx, cfg)
	if err != nil {
		kv.Close()
		return nil, fmt.Errorf("init ai provider: %w", err)
	}

	s := NewWithDeps(ctx, cfg, kv, provider)
	s.storageMode = mode
	return s, nil
}

// NewWithDeps wires the server around an already opened storage and provider.
func NewWithDeps(ctx context.Context, cfg *config.Config, kv storage.KV, provider ai.Provider) *Server {
	store := tracker.New(kv, tracker.Options{
		Stats: storage.UserStats{
			Steps:          cfg.StatsSeed.Steps,
			CaloriesBurned: cfg.StatsSeed.CaloriesBurned,
			ActiveMinutes:  cfg.StatsSeed.ActiveMinutes,
		},
		Logger: log.Default(),
	})
	store.Load(ctx)

	s := &Server{
		config:   cfg,
		mux:      http.NewServeMux(),
		storage:  kv,
		store:    store,
		tasks:    tasks.NewManager(log.Default()),
		provider: provider,
	}

	s.routes()
	return s
}

// StorageMode returns the backend actually in use (after auto fallback).
func (s *Server) StorageMode() string {
	return s.storageMode
}

// routes регистрирует маршруты
func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealthz)
	s.mux.Handle("GET /metrics", metrics.Handler())

	dailyGoals := goals.FromConfig(s.config.Goals)
	builder := timeseries.NewSeededBuilder(s.config.ChartSeed)

	// Goals API
	goalsHandler := goals.NewHandler(dailyGoals)
	s.mux.HandleFunc("GET /v1/goals", goalsHandler.HandleGet)

	// Reminders API
	reminderHandlers := reminders.NewHandlers(reminders.NewService(s.store))
	s.mux.HandleFunc("GET /v1/reminders", reminderHandlers.HandleList)
	s.mux.HandleFunc("POST /v1/reminders", reminderHandlers.HandleCreate)
	s.mux.HandleFunc("POST /v1/reminders/{id}/toggle", reminderHandlers.HandleToggle)
	s.mux.HandleFunc("DELETE /v1/reminders/{id}", reminderHandlers.HandleDelete)

	// Meals API
	mealHandlers := meals.NewHandlers(meals.NewService(s.store, s.tasks, s.provider, dailyGoals))
	s.mux.HandleFunc("GET /v1/meals", mealHandlers.HandleList)
	s.mux.HandleFunc("POST /v1/meals", mealHandlers.HandleCreate)
	s.mux.HandleFunc("POST /v1/meals/estimate", mealHandlers.HandleEstimate)
	s.mux.HandleFunc("GET /v1/meals/summary", mealHandlers.HandleSummary)
	s.mux.HandleFunc("DELETE /v1/meals/{id}", mealHandlers.HandleDelete)
	s.mux.HandleFunc("DELETE /v1/meals", mealHandlers.HandleClear)

	// Workouts API
	workoutHandlers := workouts.NewHandlers(workouts.NewService(s.store, s.tasks, s.provider))
	s.mux.HandleFunc("GET /v1/workouts", workoutHandlers.HandleList)
	s.mux.HandleFunc("POST /v1/workouts/suggest", workoutHandlers.HandleSuggest)
	s.mux.HandleFunc("POST /v1/workouts/complete", workoutHandlers.HandleComplete)
	s.mux.HandleFunc("DELETE /v1/workouts/{id}", workoutHandlers.HandleDelete)

	// Dashboard API
	dashboardHandlers := dashboard.NewHandlers(dashboard.NewService(s.store, builder, dailyGoals))
	s.mux.HandleFunc("GET /v1/dashboard", dashboardHandlers.HandleOverview)
	s.mux.HandleFunc("GET /v1/dashboard/chart", dashboardHandlers.HandleChart)
	s.mux.HandleFunc("POST /v1/stats/steps", dashboardHandlers.HandleRecordSteps)

	// Tasks API
	taskHandlers := tasks.NewHandlers(s.tasks)
	s.mux.HandleFunc("GET /v1/tasks/{id}", taskHandlers.HandleGet)
	s.mux.HandleFunc("DELETE /v1/tasks/{id}", taskHandlers.HandleDiscard)

	// Settings API
	settingsHandler := settings.NewHandler(settings.NewService(s.storage))
	s.mux.HandleFunc("GET /v1/settings/theme", settingsHandler.HandleGet)
	s.mux.HandleFunc("PUT /v1/settings/theme", settingsHandler.HandlePut)

	// Reports API
	reportHandlers := reports.NewHandlers(reports.NewGenerator(s.store, builder, dailyGoals))
	s.mux.HandleFunc("GET /v1/reports/weekly", reportHandlers.HandleWeekly)
}

// handleHealthz обрабатывает health check
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// Handler returns the router wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	// outermost first: CORS → Rate Limit → Router
	var handler http.Handler = s.mux
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)
	return handler
}

// Start запускает HTTP сервер; блокирует до Shutdown.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("Сервер запущен на http://localhost%s\n", addr)
	log.Printf("Health check: http://localhost%s/healthz\n", addr)
	log.Printf("Dashboard API: http://localhost%s/v1/dashboard\n", addr)

	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown останавливает приём запросов, сбрасывает напоминания и закрывает storage.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
	}

	if err := s.store.Flush(ctx); err != nil {
		errs = append(errs, fmt.Errorf("flush reminders: %w", err))
	}

	if closer, ok := s.provider.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close ai provider: %w", err))
		}
	}

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close storage: %w", err))
		}
	}

	return errors.Join(errs...)
}
