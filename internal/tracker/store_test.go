package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/fdg312/nutrilog/internal/storage"
	"github.com/fdg312/nutrilog/internal/storage/memory"
)

type failingKV struct {
	getErr error
	putErr error
	puts   int
}

func (f *failingKV) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, f.getErr
}

func (f *failingKV) Put(ctx context.Context, key, value string) error {
	f.puts++
	return f.putErr
}

func (f *failingKV) Close() error { return nil }

func storedReminders(t *testing.T, kv storage.KV) []storage.ReminderEntry {
	t.Helper()
	raw, found, err := kv.Get(context.Background(), storage.KeyReminders)
	if err != nil || !found {
		t.Fatalf("expected stored reminders, found=%v err=%v", found, err)
	}
	var out []storage.ReminderEntry
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		t.Fatalf("decode stored reminders: %v", err)
	}
	return out
}

func TestLoadSeedsAndPersistsWhenMissing(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	s := New(kv, Options{})
	s.Load(ctx)

	got := s.Reminders()
	if len(got) != 2 || got[0].Title != "Morning Jog" || got[1].Title != "Drink Water" {
		t.Fatalf("expected seed reminders, got %+v", got)
	}
	if !got[0].Active || got[1].Active {
		t.Fatalf("unexpected seed active flags: %+v", got)
	}

	stored := storedReminders(t, kv)
	if len(stored) != 2 || stored[0] != got[0] || stored[1] != got[1] {
		t.Fatalf("expected seed to be persisted, got %+v", stored)
	}
}

func TestLoadMalformedJSONFallsBackToSeed(t *testing.T) {
	var buf bytes.Buffer
	kv := memory.NewWithValues(map[string]string{storage.KeyReminders: "{not json"})
	s := New(kv, Options{Logger: log.New(&buf, "", 0)})
	s.Load(context.Background())

	got := s.Reminders()
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "2" {
		t.Fatalf("expected seed after malformed payload, got %+v", got)
	}
	if !strings.Contains(buf.String(), "decode reminders failed") {
		t.Fatalf("expected decode failure to be logged, got: %s", buf.String())
	}
	if stored := storedReminders(t, kv); len(stored) != 2 {
		t.Fatalf("expected seed to overwrite malformed payload, got %+v", stored)
	}
}

func TestLoadInvalidSnapshotFallsBackToSeed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"duplicate and empty ids", `[{"id":"1","title":"a","time":"07:00","active":true},{"id":"1","title":"b","time":"08:00"},{}]`},
		{"blank title", `[{"id":"x","title":"  ","time":"07:00"}]`},
		{"bad time", `[{"id":"x","title":"Stretch","time":"25:99"}]`},
		{"short time", `[{"id":"x","title":"Stretch","time":"7:00"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			var buf bytes.Buffer
			kv := memory.NewWithValues(map[string]string{storage.KeyReminders: tt.payload})
			s := New(kv, Options{Logger: log.New(&buf, "", 0)})
			s.Load(ctx)

			if got := s.Reminders(); len(got) != 2 || got[0].ID != "1" || got[1].ID != "2" {
				t.Fatalf("expected seed reminders, got %+v", got)
			}
			if !strings.Contains(buf.String(), "decode reminders failed") {
				t.Fatalf("expected decode failure log, got %q", buf.String())
			}
			if stored := storedReminders(t, kv); len(stored) != 2 {
				t.Fatalf("expected seed to overwrite invalid payload, got %+v", stored)
			}

			s.DeleteReminder(ctx, "1")
			for _, r := range s.Reminders() {
				if r.ID == "1" || r.ID == "" {
					t.Fatalf("unexpected reminder left after delete: %+v", r)
				}
			}
		})
	}
}

func TestLoadReadErrorUsesSeedWithoutOverwriting(t *testing.T) {
	kv := &failingKV{getErr: errors.New("disk on fire")}
	s := New(kv, Options{})
	s.Load(context.Background())

	if len(s.Reminders()) != 2 {
		t.Fatalf("expected seed reminders")
	}
	if kv.puts != 0 {
		t.Fatalf("expected no write after read failure, got %d", kv.puts)
	}
}

func TestLoadKeepsStoredOrderAndFields(t *testing.T) {
	payload := `[{"id":"b","title":"Stretch","time":"21:30","active":false},{"id":"a","title":"Vitamins","time":"08:15","active":true}]`
	kv := memory.NewWithValues(map[string]string{storage.KeyReminders: payload})
	s := New(kv, Options{})
	s.Load(context.Background())

	got := s.Reminders()
	want := []storage.ReminderEntry{
		{ID: "b", Title: "Stretch", Time: "21:30", Active: false},
		{ID: "a", Title: "Vitamins", Time: "08:15", Active: true},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d reminders, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("reminder %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestReminderMutationsPersistAndRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewWithValues(map[string]string{storage.KeyReminders: `[]`})
	s := New(kv, Options{})
	s.Load(ctx)

	s.AddReminder(ctx, storage.ReminderEntry{ID: "x", Title: "Yoga", Time: "18:00", Active: true})
	s.AddReminder(ctx, storage.ReminderEntry{ID: "y", Title: "Sleep", Time: "23:00", Active: true})
	if _, ok := s.ToggleReminder(ctx, "y"); !ok {
		t.Fatal("expected toggle to find reminder")
	}
	if !s.DeleteReminder(ctx, "x") {
		t.Fatal("expected delete to find reminder")
	}

	reloaded := New(kv, Options{})
	reloaded.Load(ctx)
	got := reloaded.Reminders()
	if len(got) != 1 || got[0] != (storage.ReminderEntry{ID: "y", Title: "Sleep", Time: "23:00", Active: false}) {
		t.Fatalf("unexpected reloaded reminders: %+v", got)
	}
}

func TestToggleTwiceRestoresState(t *testing.T) {
	ctx := context.Background()
	s := New(memory.New(), Options{})
	s.Load(ctx)

	before := s.Reminders()
	s.ToggleReminder(ctx, "1")
	s.ToggleReminder(ctx, "1")
	after := s.Reminders()

	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("expected toggle to be self-inverse, %+v vs %+v", before, after)
		}
	}
}

func TestUnknownIDsAreNoOps(t *testing.T) {
	ctx := context.Background()
	kv := &failingKV{}
	s := New(kv, Options{})
	s.AddMeal(storage.MealEntry{ID: "m1", Calories: 100})
	s.AddWorkout(storage.WorkoutEntry{ID: "w1", DurationMin: 10})
	puts := kv.puts

	if s.DeleteReminder(ctx, "nope") {
		t.Fatal("expected delete of unknown id to report false")
	}
	if _, ok := s.ToggleReminder(ctx, "nope"); ok {
		t.Fatal("expected toggle of unknown id to report false")
	}
	s.RemoveMeal("nope")
	s.RemoveWorkout("nope")

	if len(s.Meals()) != 1 || len(s.Workouts()) != 1 {
		t.Fatal("expected collections to be unchanged")
	}
	if kv.puts != puts {
		t.Fatalf("expected no persistence for no-op mutations")
	}
}

func TestPersistFailureKeepsInMemoryMutation(t *testing.T) {
	var buf bytes.Buffer
	kv := &failingKV{putErr: errors.New("read-only filesystem")}
	s := New(kv, Options{Logger: log.New(&buf, "", 0)})

	s.AddReminder(context.Background(), storage.ReminderEntry{ID: "r", Title: "Walk", Time: "12:00", Active: true})

	if got := s.Reminders(); len(got) != 1 || got[0].ID != "r" {
		t.Fatalf("expected mutation to stick, got %+v", got)
	}
	if !strings.Contains(buf.String(), "persist reminders failed") {
		t.Fatalf("expected failure to be logged, got: %s", buf.String())
	}
}

func TestMealsNewestFirstAndClear(t *testing.T) {
	s := New(memory.New(), Options{})
	now := time.Now()
	s.AddMeal(storage.MealEntry{ID: "1", Name: "Eggs", Calories: 220, Timestamp: now})
	s.AddMeal(storage.MealEntry{ID: "2", Name: "Toast", Calories: 150, Timestamp: now})

	got := s.Meals()
	if len(got) != 2 || got[0].ID != "2" || got[1].ID != "1" {
		t.Fatalf("expected newest first, got %+v", got)
	}

	s.RemoveMeal("2")
	if got := s.Meals(); len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("unexpected meals after remove: %+v", got)
	}

	s.ClearMeals()
	s.ClearMeals()
	if len(s.Meals()) != 0 {
		t.Fatal("expected no meals after clear")
	}
}

func TestReadsReturnCopies(t *testing.T) {
	s := New(memory.New(), Options{})
	s.AddMeal(storage.MealEntry{ID: "1", Name: "Eggs"})

	got := s.Meals()
	got[0].Name = "mutated"

	if s.Meals()[0].Name != "Eggs" {
		t.Fatal("expected store state to be isolated from callers")
	}
}

func TestAddWorkoutFoldsIntoStats(t *testing.T) {
	s := New(memory.New(), Options{Stats: storage.UserStats{Steps: 6540, CaloriesBurned: 450, ActiveMinutes: 35}})
	s.AddWorkout(storage.WorkoutEntry{ID: "w", Type: "Run", DurationMin: 30, CaloriesBurned: 180})

	got := s.Stats()
	if got.CaloriesBurned != 630 || got.ActiveMinutes != 65 || got.Steps != 6540 {
		t.Fatalf("unexpected stats: %+v", got)
	}

	s.RemoveWorkout("w")
	if s.Stats() != got {
		t.Fatal("expected removing a workout to leave stats untouched")
	}
}

func TestRecordSteps(t *testing.T) {
	s := New(memory.New(), Options{Stats: storage.UserStats{Steps: 100}})
	s.RecordSteps(250)
	s.RecordSteps(-10)

	if got := s.Stats().Steps; got != 350 {
		t.Fatalf("expected 350 steps, got %d", got)
	}
}

func TestRecordStepsSaturates(t *testing.T) {
	s := New(memory.New(), Options{Stats: storage.UserStats{Steps: 6540}})
	if got := s.RecordSteps(math.MaxInt).Steps; got != math.MaxInt {
		t.Fatalf("expected steps to saturate at MaxInt, got %d", got)
	}
	if got := s.RecordSteps(10).Steps; got < 0 {
		t.Fatalf("expected non-negative steps, got %d", got)
	}
}

func TestFlushWritesSnapshot(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	s := New(kv, Options{})
	s.Load(ctx)

	if err := s.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if got := storedReminders(t, kv); len(got) != 2 {
		t.Fatalf("expected flushed reminders, got %+v", got)
	}
}
