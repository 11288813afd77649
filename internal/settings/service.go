package settings

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/fdg312/nutrilog/internal/metrics"
	"github.com/fdg312/nutrilog/internal/storage"
)

var ErrInvalidTheme = errors.New("theme must be light or dark")

// Service stores the UI theme preference under storage.KeyTheme.
type Service struct {
	kv storage.KV
}

func NewService(kv storage.KV) *Service {
	return &Service{kv: kv}
}

// GetOrDefault returns the stored theme; unknown or unreadable values fall
// back to the default.
func (s *Service) GetOrDefault(ctx context.Context) (ThemeResponse, error) {
	raw, found, err := s.kv.Get(ctx, storage.KeyTheme)
	if err != nil {
		return ThemeResponse{}, err
	}
	if !found {
		return ThemeResponse{Theme: DefaultTheme, IsDefault: true}, nil
	}

	theme := strings.ToLower(strings.TrimSpace(raw))
	if !validTheme(theme) {
		log.Printf("WARN settings: stored theme %q invalid, using default", raw)
		return ThemeResponse{Theme: DefaultTheme, IsDefault: true}, nil
	}
	return ThemeResponse{Theme: theme, IsDefault: false}, nil
}

func (s *Service) SetTheme(ctx context.Context, theme string) (ThemeDTO, error) {
	theme = strings.ToLower(strings.TrimSpace(theme))
	if !validTheme(theme) {
		return ThemeDTO{}, ErrInvalidTheme
	}

	if err := s.kv.Put(ctx, storage.KeyTheme, theme); err != nil {
		metrics.PersistenceWrites.WithLabelValues(storage.KeyTheme, "error").Inc()
		return ThemeDTO{}, fmt.Errorf("persist theme: %w", err)
	}
	metrics.PersistenceWrites.WithLabelValues(storage.KeyTheme, "ok").Inc()
	return ThemeDTO{Theme: theme}, nil
}
