package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/fdg312/nutrilog/internal/aggregate"
	"github.com/fdg312/nutrilog/internal/metrics"
	"github.com/fdg312/nutrilog/internal/storage"
)

type Logger interface {
	Printf(format string, v ...any)
}

type Options struct {
	// Stats is the session's starting activity snapshot.
	Stats  storage.UserStats
	Logger Logger
}

// Store owns the in-memory collections of the session. Meals and workouts
// live for the process lifetime; reminders are written through to kv after
// every mutation.
type Store struct {
	mu     sync.RWMutex
	kv     storage.KV
	logger Logger

	meals     []storage.MealEntry // newest first
	workouts  []storage.WorkoutEntry
	reminders []storage.ReminderEntry
	stats     storage.UserStats
}

// SeedReminders is the collection written on first start.
func SeedReminders() []storage.ReminderEntry {
	return []storage.ReminderEntry{
		{ID: "1", Title: "Morning Jog", Time: "07:00", Active: true},
		{ID: "2", Title: "Drink Water", Time: "14:00", Active: false},
	}
}

func New(kv storage.KV, opts Options) *Store {
	return &Store{
		kv:        kv,
		logger:    opts.Logger,
		stats:     opts.Stats,
		meals:     []storage.MealEntry{},
		workouts:  []storage.WorkoutEntry{},
		reminders: []storage.ReminderEntry{},
	}
}

// Load reads the persisted reminders. A missing, unreadable or invalid
// collection is replaced by the seed; Load never fails.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, found, err := s.kv.Get(ctx, storage.KeyReminders)
	if err != nil {
		s.logf("WARN tracker: read reminders failed err=%v, using seed", err)
		s.reminders = SeedReminders()
		return
	}
	if !found {
		s.logf("INFO tracker: no stored reminders, seeding")
		s.reminders = SeedReminders()
		s.persistRemindersLocked(ctx)
		return
	}

	var decoded []storage.ReminderEntry
	err = json.Unmarshal([]byte(raw), &decoded)
	if err == nil {
		if verr := storage.ValidateReminders(decoded); verr != nil {
			err = fmt.Errorf("invalid snapshot: %w", verr)
		}
	}
	if err != nil {
		s.logf("WARN tracker: decode reminders failed err=%v, reseeding", err)
		s.reminders = SeedReminders()
		s.persistRemindersLocked(ctx)
		return
	}
	if decoded == nil {
		decoded = []storage.ReminderEntry{}
	}
	s.reminders = decoded
	s.logf("INFO tracker: loaded reminders count=%d", len(decoded))
}

// Flush writes the reminders snapshot once more; called on shutdown.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := json.Marshal(s.reminders)
	if err != nil {
		return err
	}
	return s.kv.Put(ctx, storage.KeyReminders, string(data))
}

// ---------- Meals ----------

func (s *Store) AddMeal(m storage.MealEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.meals = append([]storage.MealEntry{m}, s.meals...)
	metrics.EntityMutations.WithLabelValues("meals", "add").Inc()
}

func (s *Store) RemoveMeal(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, m := range s.meals {
		if m.ID == id {
			s.meals = append(s.meals[:i:i], s.meals[i+1:]...)
			metrics.EntityMutations.WithLabelValues("meals", "remove").Inc()
			return
		}
	}
}

func (s *Store) ClearMeals() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.meals = []storage.MealEntry{}
	metrics.EntityMutations.WithLabelValues("meals", "clear").Inc()
}

func (s *Store) Meals() []storage.MealEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]storage.MealEntry, len(s.meals))
	copy(out, s.meals)
	return out
}

// ---------- Workouts ----------

// AddWorkout records the workout and folds it into the session stats.
func (s *Store) AddWorkout(w storage.WorkoutEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.workouts = append([]storage.WorkoutEntry{w}, s.workouts...)
	s.stats = aggregate.ApplyWorkout(s.stats, w)
	metrics.EntityMutations.WithLabelValues("workouts", "add").Inc()
}

// RemoveWorkout drops the entry only; stats keep the accumulated values.
func (s *Store) RemoveWorkout(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, w := range s.workouts {
		if w.ID == id {
			s.workouts = append(s.workouts[:i:i], s.workouts[i+1:]...)
			metrics.EntityMutations.WithLabelValues("workouts", "remove").Inc()
			return
		}
	}
}

func (s *Store) Workouts() []storage.WorkoutEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]storage.WorkoutEntry, len(s.workouts))
	copy(out, s.workouts)
	return out
}

// ---------- Stats ----------

func (s *Store) Stats() storage.UserStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// RecordSteps adds delta steps from an external step provider.
func (s *Store) RecordSteps(delta int) storage.UserStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	if delta > 0 {
		s.stats.Steps = aggregate.SaturatingAdd(s.stats.Steps, delta)
		metrics.EntityMutations.WithLabelValues("stats", "steps").Inc()
	}
	return s.stats
}

// ---------- Reminders ----------

func (s *Store) AddReminder(ctx context.Context, r storage.ReminderEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reminders = append(s.reminders, r)
	metrics.EntityMutations.WithLabelValues("reminders", "add").Inc()
	s.persistRemindersLocked(ctx)
}

// DeleteReminder reports whether an entry was removed.
func (s *Store) DeleteReminder(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.reminders {
		if r.ID == id {
			s.reminders = append(s.reminders[:i:i], s.reminders[i+1:]...)
			metrics.EntityMutations.WithLabelValues("reminders", "delete").Inc()
			s.persistRemindersLocked(ctx)
			return true
		}
	}
	return false
}

// ToggleReminder flips the active flag and returns the updated entry.
func (s *Store) ToggleReminder(ctx context.Context, id string) (storage.ReminderEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.reminders {
		if s.reminders[i].ID == id {
			s.reminders[i].Active = !s.reminders[i].Active
			metrics.EntityMutations.WithLabelValues("reminders", "toggle").Inc()
			s.persistRemindersLocked(ctx)
			return s.reminders[i], true
		}
	}
	return storage.ReminderEntry{}, false
}

func (s *Store) Reminders() []storage.ReminderEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]storage.ReminderEntry, len(s.reminders))
	copy(out, s.reminders)
	return out
}

// persistRemindersLocked writes the whole collection. Failures are logged;
// the in-memory state stays authoritative.
func (s *Store) persistRemindersLocked(ctx context.Context) {
	data, err := json.Marshal(s.reminders)
	if err != nil {
		s.logf("WARN tracker: encode reminders failed err=%v", err)
		metrics.PersistenceWrites.WithLabelValues(storage.KeyReminders, "error").Inc()
		return
	}
	if err := s.kv.Put(ctx, storage.KeyReminders, string(data)); err != nil {
		s.logf("WARN tracker: persist reminders failed err=%v", err)
		metrics.PersistenceWrites.WithLabelValues(storage.KeyReminders, "error").Inc()
		return
	}
	metrics.PersistenceWrites.WithLabelValues(storage.KeyReminders, "ok").Inc()
}

func (s *Store) logf(format string, v ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Printf(format, v...)
}
