package storage

import "time"

// MealEntry — одна запись о приёме пищи. Неизменяема после создания.
type MealEntry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Calories  float64   `json:"calories"`
	Protein   float64   `json:"protein"`
	Carbs     float64   `json:"carbs"`
	Fats      float64   `json:"fats"`
	Timestamp time.Time `json:"timestamp"`
}

// WorkoutEntry — завершённая тренировка
type WorkoutEntry struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	DurationMin    int       `json:"duration"`
	CaloriesBurned float64   `json:"calories_burned"`
	Timestamp      time.Time `json:"timestamp"`
}

// UserStats — снимок активности за сессию (не сохраняется)
type UserStats struct {
	Steps          int     `json:"steps"`
	CaloriesBurned float64 `json:"calories_burned"`
	ActiveMinutes  int     `json:"active_minutes"`
}

// ReminderEntry is persisted as part of the "reminders" collection.
type ReminderEntry struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Time   string `json:"time"` // HH:MM
	Active bool   `json:"active"`
}
