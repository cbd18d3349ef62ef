// Package generator adapts chat-style text generation services to a single
// prompt + role contract.
package generator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Finai24/finai24-newsbot-v3-patch-economy/internal/config"
)

// DefaultTemperature is the sampling temperature used for every request.
const DefaultTemperature float32 = 0.5

// Generator produces text for a user prompt under a system role directive.
type Generator interface {
	Generate(ctx context.Context, prompt, role string) (string, error)
	Model() string
	Close() error
}

// Options configures a generator backend.
type Options struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration
}

func (o Options) temperature() float32 {
	if o.Temperature <= 0 {
		return DefaultTemperature
	}
	return o.Temperature
}

// New builds the generator selected by cfg.GeneratorProvider.
func New(ctx context.Context, cfg *config.Config) (Generator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}

	switch strings.ToLower(cfg.GeneratorProvider) {
	case config.ProviderOpenAI, "":
		return NewOpenAI(Options{
			APIKey:      cfg.OpenAIAPIKey,
			Model:       cfg.OpenAIModel,
			BaseURL:     cfg.OpenAIBaseURL,
			Temperature: cfg.Temperature,
			Timeout:     cfg.RequestTimeout,
		})
	case config.ProviderGemini:
		return NewGemini(ctx, Options{
			APIKey:      cfg.GeminiAPIKey,
			Model:       cfg.GeminiModel,
			Temperature: cfg.Temperature,
		})
	default:
		return nil, fmt.Errorf("unknown generator provider: %q (valid: openai, gemini)", cfg.GeneratorProvider)
	}
}
