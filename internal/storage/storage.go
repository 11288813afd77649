package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Keys owned by the persistence boundary.
const (
	KeyReminders = "reminders"
	KeyTheme     = "theme"
)

var ErrClosed = errors.New("storage closed")

// IsJSONKey reports whether the value under key is a JSON document.
// The theme is stored as a bare string.
func IsJSONKey(key string) bool {
	return key == KeyReminders
}

// ValidClock accepts a 24h "HH:MM" time of day.
func ValidClock(v string) bool {
	if len(v) != 5 {
		return false
	}
	_, err := time.Parse("15:04", v)
	return err == nil
}

// ValidateReminders checks a decoded reminders snapshot: ids are non-empty
// and unique, titles are not blank, times are HH:MM.
func ValidateReminders(list []ReminderEntry) error {
	seen := make(map[string]struct{}, len(list))
	for i, r := range list {
		if r.ID == "" {
			return fmt.Errorf("reminder %d: empty id", i)
		}
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("reminder %d: duplicate id %q", i, r.ID)
		}
		seen[r.ID] = struct{}{}
		if strings.TrimSpace(r.Title) == "" {
			return fmt.Errorf("reminder %q: blank title", r.ID)
		}
		if !ValidClock(r.Time) {
			return fmt.Errorf("reminder %q: bad time %q", r.ID, r.Time)
		}
	}
	return nil
}

// KV — строковое key-value хранилище, переживающее перезапуск процесса.
// Каждый ключ хранит один агрегат целиком; Put атомарно заменяет значение.
type KV interface {
	// Get возвращает значение ключа; found=false, если ключа нет
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Put полностью заменяет значение ключа
	Put(ctx context.Context, key, value string) error

	// Close освобождает ресурсы (пул соединений, файл БД)
	Close() error
}
