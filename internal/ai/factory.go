package ai

import (
	"strings"

	"github.com/fdg312/meal-hub/internal/config"
)

const (
	ModeMock   = "mock"
	ModeOpenAI = "openai"
	ModeOllama = "ollama"
	ModeGemini = "gemini"
)

func NewProvider(cfg *config.Config) Provider {
	mode := strings.ToLower(strings.TrimSpace(cfg.AIMode))
	if mode == "" {
		mode = ModeMock
	}

	switch mode {
	case ModeOpenAI:
		return NewOpenAIProvider(cfg)
	case ModeOllama:
		return NewOllamaProvider(cfg)
	case ModeGemini:
		return NewGeminiProvider(cfg)
	default:
		return NewMockProvider()
	}
}
