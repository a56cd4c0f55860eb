package ai

import (
	"context"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-summarizer/pkg/config"
)

// NewGenerator builds the backend selected by LLM_PROVIDER. It runs once at
// process start; unknown or empty providers get the MockGenerator.
// A *ConfigError means the selected backend lacks credentials or a model.
func NewGenerator(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Generator, error) {
	pc, _ := cfg.Provider()

	switch cfg.LLM.Provider {
	case "cerebras":
		return NewOpenAICompatible("cerebras", pc.APIKey, orDefault(pc.APIBase, CerebrasBaseURL), orDefault(pc.Model, "llama3.1-8b"))
	case "openai":
		return NewOpenAICompatible("openai", pc.APIKey, pc.APIBase, orDefault(pc.Model, "gpt-4o-mini"))
	case "groq":
		return NewOpenAICompatible("groq", pc.APIKey, orDefault(pc.APIBase, GroqBaseURL), orDefault(pc.Model, "llama-3.1-8b-instant"))
	case "anthropic":
		return NewAnthropicGenerator(pc.APIKey, pc.APIBase, orDefault(pc.Model, "claude-3-5-haiku-latest"))
	case "gemini":
		return NewGeminiGenerator(ctx, pc.APIKey, pc.APIBase, orDefault(pc.Model, "gemini-2.0-flash"))
	case "ollama":
		return NewOllamaGenerator(pc.APIBase, orDefault(pc.Model, "llama3.1"))
	}

	if logger != nil {
		logger.Warn("unsupported LLM_PROVIDER, using mock generator",
			zap.String("provider", cfg.LLM.Provider),
		)
	}
	return NewMockGenerator(), nil
}

// DefaultOptions derives per-call options from the LLM section
func DefaultOptions(cfg config.LLMConfig) Options {
	return Options{
		Temperature: Float(cfg.Temperature),
		MaxTokens:   cfg.MaxTokens,
		Timeout:     cfg.Timeout,
	}.WithDefaults()
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
