// Package models is the registry of selectable backend models and their
// default generation parameters.
package models

import (
	"errors"
	"fmt"
)

// ErrUnknownModel is returned when a model id is not registered.
var ErrUnknownModel = errors.New("unknown model")

// ErrInvalidParams is returned when temperature or max-token overrides are
// out of range.
var ErrInvalidParams = errors.New("invalid generation parameters")

// Provider tags the completion API family a model is served by.
type Provider string

const (
	OpenAI    Provider = "openai"
	Anthropic Provider = "anthropic"
	Grok      Provider = "grok"
)

// Valid reports whether p is a known provider tag.
func (p Provider) Valid() bool {
	switch p {
	case OpenAI, Anthropic, Grok:
		return true
	}
	return false
}

// String returns the tag.
func (p Provider) String() string { return string(p) }

// Temperature bounds accepted for overrides.
const (
	MinTemperature = 0.0
	MaxTemperature = 1.0
)

// ModelConfig describes one selectable model.
type ModelConfig struct {
	ID          string   `yaml:"id"`          // Display key (e.g. "GPT-4").
	Model       string   `yaml:"model"`       // API model identifier.
	Provider    Provider `yaml:"provider"`    // Completion API family.
	MaxTokens   int      `yaml:"max_tokens"`  // Default and upper bound for max tokens.
	Temperature float64  `yaml:"temperature"` // Default sampling temperature.
}

// Defaults is the built-in model list.
var Defaults = []ModelConfig{
	{ID: "GPT-4", Model: "gpt-4-turbo-preview", Provider: OpenAI, MaxTokens: 4096, Temperature: 0.7},
	{ID: "GPT-3.5 Turbo", Model: "gpt-3.5-turbo", Provider: OpenAI, MaxTokens: 4096, Temperature: 0.7},
	{ID: "Claude 3 Opus", Model: "claude-3-opus-20240229", Provider: Anthropic, MaxTokens: 4096, Temperature: 0.7},
	{ID: "Claude 3 Sonnet", Model: "claude-3-sonnet-20240229", Provider: Anthropic, MaxTokens: 4096, Temperature: 0.7},
	{ID: "Grok 3 Mini", Model: "grok-3-mini", Provider: Grok, MaxTokens: 4096, Temperature: 0.7},
}

// Registry is an ordered, immutable set of models.
type Registry struct {
	models []ModelConfig
	byID   map[string]int
}

// New builds a Registry, preserving order. An empty list selects Defaults.
func New(list ...ModelConfig) (*Registry, error) {
	if len(list) == 0 {
		list = Defaults
	}

	r := &Registry{byID: make(map[string]int, len(list))}
	for _, m := range list {
		if err := m.validate(); err != nil {
			return nil, err
		}
		if _, dup := r.byID[m.ID]; dup {
			return nil, fmt.Errorf("models: duplicate id %q", m.ID)
		}

		r.byID[m.ID] = len(r.models)
		r.models = append(r.models, m)
	}

	return r, nil
}

func (m ModelConfig) validate() error {
	if m.ID == "" {
		return errors.New("models: id is required")
	}
	if m.Model == "" {
		return fmt.Errorf("models: %q: model is required", m.ID)
	}
	if !m.Provider.Valid() {
		return fmt.Errorf("models: %q: unknown provider %q", m.ID, m.Provider)
	}
	if m.MaxTokens <= 0 {
		return fmt.Errorf("models: %q: max_tokens must be positive", m.ID)
	}
	if m.Temperature < MinTemperature || m.Temperature > MaxTemperature {
		return fmt.Errorf("models: %q: temperature must be within [%v, %v]", m.ID, MinTemperature, MaxTemperature)
	}
	return nil
}

// List returns all models in registration order.
func (r *Registry) List() []ModelConfig {
	out := make([]ModelConfig, len(r.models))
	copy(out, r.models)
	return out
}

// Get returns the model registered under id.
func (r *Registry) Get(id string) (ModelConfig, error) {
	i, ok := r.byID[id]
	if !ok {
		return ModelConfig{}, fmt.Errorf("models: %q: %w", id, ErrUnknownModel)
	}
	return r.models[i], nil
}

// Providers returns the distinct provider tags used by the registered models,
// in first-use order.
func (r *Registry) Providers() []Provider {
	seen := make(map[Provider]struct{})
	var out []Provider
	for _, m := range r.models {
		if _, ok := seen[m.Provider]; ok {
			continue
		}
		seen[m.Provider] = struct{}{}
		out = append(out, m.Provider)
	}
	return out
}

// Params resolves the effective temperature and max tokens for m. Nil
// overrides keep the model defaults. Temperature must lie within
// [MinTemperature, MaxTemperature] and max tokens within [1, m.MaxTokens].
func (m ModelConfig) Params(temperature *float64, maxTokens *int) (float64, int, error) {
	t, n := m.Temperature, m.MaxTokens

	if temperature != nil {
		t = *temperature
		if t < MinTemperature || t > MaxTemperature {
			return 0, 0, fmt.Errorf("models: %q: temperature %v outside [%v, %v]: %w", m.ID, t, MinTemperature, MaxTemperature, ErrInvalidParams)
		}
	}

	if maxTokens != nil {
		n = *maxTokens
		if n < 1 || n > m.MaxTokens {
			return 0, 0, fmt.Errorf("models: %q: max tokens %d outside [1, %d]: %w", m.ID, n, m.MaxTokens, ErrInvalidParams)
		}
	}

	return t, n, nil
}
