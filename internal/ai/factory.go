package ai

import (
	"context"
	"strings"

	"github.com/fdg312/nutrilog/internal/config"
)

const (
	ModeMock   = config.AIModeMock
	ModeGemini = config.AIModeGemini
	ModeOpenAI = config.AIModeOpenAI
)

func NewProvider(ctx context.Context, cfg *config.Config) (Provider, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.AIMode))
	if mode == "" {
		mode = ModeMock
	}

	switch mode {
	case ModeGemini:
		return NewGeminiProvider(ctx, cfg)
	case ModeOpenAI:
		return NewOpenAIProvider(cfg), nil
	default:
		return NewMockProvider(), nil
	}
}
