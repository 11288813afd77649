// Package timeseries builds the weekly activity chart.
//
// Only the current weekday is derived from real entries. The other six
// points are generated placeholders and are flagged Synthetic.
package timeseries

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/fdg312/nutrilog/internal/storage"
)

const (
	TodayLabel = "Today"

	fallbackCaloriesIn = 2100
	todayWeight        = 69.5
)

var weekLabels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

type Point struct {
	Label          string  `json:"label"`
	Steps          int     `json:"steps"`
	CaloriesIn     float64 `json:"calories_in"`
	CaloriesBurned float64 `json:"calories_burned"`
	ActiveMinutes  int     `json:"active_minutes"`
	Weight         float64 `json:"weight"`
	Synthetic      bool    `json:"synthetic"`
}

type Builder struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewBuilder(src rand.Source) *Builder {
	return &Builder{rng: rand.New(src)}
}

// NewSeededBuilder returns a reproducible builder; seed 0 picks a random seed.
func NewSeededBuilder(seed uint64) *Builder {
	if seed == 0 {
		return NewBuilder(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
	}
	return NewBuilder(rand.NewPCG(seed, seed))
}

// TodayIndex maps now's weekday to a Monday-first index.
func TodayIndex(now time.Time) int {
	return (int(now.Weekday()) + 6) % 7
}

// Build returns seven points, Monday first. History is re-rolled on every call.
func (b *Builder) Build(now time.Time, meals []storage.MealEntry, workouts []storage.WorkoutEntry, stats storage.UserStats) []Point {
	today := TodayIndex(now)

	b.mu.Lock()
	defer b.mu.Unlock()

	points := make([]Point, 7)
	for i := range points {
		if i == today {
			points[i] = todayPoint(now, meals, workouts, stats)
			continue
		}
		points[i] = Point{
			Label:          weekLabels[i],
			Steps:          int(b.between(2000, 5000)),
			CaloriesIn:     b.between(1800, 2400),
			CaloriesBurned: b.between(200, 600),
			ActiveMinutes:  int(b.between(20, 60)),
			Weight:         70 + (b.rng.Float64()*0.5 - 0.25),
			Synthetic:      true,
		}
	}
	return points
}

// between draws floor(r*(max-min)+min).
func (b *Builder) between(min, max float64) float64 {
	return math.Floor(b.rng.Float64()*(max-min) + min)
}

func todayPoint(now time.Time, meals []storage.MealEntry, workouts []storage.WorkoutEntry, stats storage.UserStats) Point {
	var caloriesIn float64
	for _, m := range meals {
		if sameDay(m.Timestamp, now) {
			caloriesIn += m.Calories
		}
	}

	var (
		burned  float64
		minutes int
	)
	for _, w := range workouts {
		if sameDay(w.Timestamp, now) {
			burned += w.CaloriesBurned
			minutes += w.DurationMin
		}
	}

	p := Point{
		Label:          TodayLabel,
		Steps:          stats.Steps,
		CaloriesIn:     caloriesIn,
		CaloriesBurned: burned,
		ActiveMinutes:  minutes,
		Weight:         todayWeight,
	}
	// Zero sums fall back to the session snapshot.
	if caloriesIn == 0 {
		p.CaloriesIn = fallbackCaloriesIn
	}
	if burned == 0 {
		p.CaloriesBurned = stats.CaloriesBurned
	}
	if minutes == 0 {
		p.ActiveMinutes = stats.ActiveMinutes
	}
	return p
}

// sameDay compares calendar dates in now's location.
func sameDay(t, now time.Time) bool {
	t = t.In(now.Location())
	y1, m1, d1 := t.Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
