package reminders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/fdg312/nutrilog/internal/storage"
	"github.com/fdg312/nutrilog/internal/tracker"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("reminder not found")
)

type Service struct {
	store *tracker.Store
}

func NewService(store *tracker.Store) *Service {
	return &Service{store: store}
}

// Create appends an active reminder. time must be HH:MM (24h).
func (s *Service) Create(ctx context.Context, title, at string) (storage.ReminderEntry, error) {
	title = strings.TrimSpace(title)
	at = strings.TrimSpace(at)
	if title == "" || at == "" {
		return storage.ReminderEntry{}, fmt.Errorf("%w: title and time are required", ErrInvalidRequest)
	}
	if !storage.ValidClock(at) {
		return storage.ReminderEntry{}, fmt.Errorf("%w: time must be HH:MM", ErrInvalidRequest)
	}

	r := storage.ReminderEntry{
		ID:     uuid.NewString(),
		Title:  title,
		Time:   at,
		Active: true,
	}
	s.store.AddReminder(ctx, r)
	return r, nil
}

// Toggle flips the active flag. Unknown ids report ErrNotFound and change nothing.
func (s *Service) Toggle(ctx context.Context, id string) (storage.ReminderEntry, error) {
	r, ok := s.store.ToggleReminder(ctx, id)
	if !ok {
		return storage.ReminderEntry{}, ErrNotFound
	}
	return r, nil
}

// Delete removes the reminder; deleting an unknown id is not an error.
func (s *Service) Delete(ctx context.Context, id string) {
	s.store.DeleteReminder(ctx, id)
}

func (s *Service) List(ctx context.Context) []storage.ReminderEntry {
	_ = ctx
	return s.store.Reminders()
}
