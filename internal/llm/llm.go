// Package llm provides the model backends the agents talk to: a live
// OpenAI-compatible chat-completions client and a deterministic offline
// fallback.
package llm

import (
	"context"

	"github.com/gerunddev/quartet/internal/config"
	"github.com/gerunddev/quartet/internal/log"
)

// Client turns a system instruction and a user instruction into one
// response text.
type Client interface {
	// Generate returns the model's response. Implementations must be safe to
	// share between agents.
	Generate(ctx context.Context, system, user string) (string, error)

	// Name identifies the backend, e.g. "fallback" or "openai:gpt-4o-mini".
	Name() string
}

// New selects a backend from cfg: the offline fallback when no API key is
// configured, otherwise an OpenAI-compatible client. Empty BaseURL and
// Model take the package defaults.
func New(cfg config.LLMConfig) Client {
	if cfg.APIKey == "" {
		log.Debug("no API key configured, using offline fallback model")
		return NewFallback()
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = config.DefaultModel
	}

	log.Debug("using chat completions backend", "base_url", baseURL, "model", model)
	return NewOpenAIClient(cfg.APIKey, baseURL, model)
}
