// Package config loads promptgen settings: provider credentials, the model
// list and generation defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/germanamz/promptgen/pkg/generate"
	"github.com/germanamz/promptgen/pkg/models"
	"gopkg.in/yaml.v3"
)

// ErrMissingCredentials is wrapped by RequireCredentials.
var ErrMissingCredentials = errors.New("missing provider credentials")

// EnvVars maps each provider to the environment variable holding its key.
var EnvVars = map[models.Provider]string{
	models.OpenAI:    "OPENAI_API_KEY",
	models.Anthropic: "ANTHROPIC_API_KEY",
	models.Grok:      "GROK_API_KEY",
}

// Config is the top-level promptgen configuration.
type Config struct {
	Providers    []ProviderConfig     `yaml:"providers"`
	Models       []models.ModelConfig `yaml:"models,omitempty"`
	Placeholder  string               `yaml:"placeholder,omitempty"`
	SystemPrompt string               `yaml:"system_prompt,omitempty"`
	Timeout      string               `yaml:"timeout,omitempty"`  // Duration string (e.g. "60s").
	SaveDir      string               `yaml:"save_dir,omitempty"` // Empty saves under .promptgen/prompts.
}

// ProviderConfig describes the connection to one provider family.
type ProviderConfig struct {
	Kind    string `yaml:"kind"`
	APIKey  string `yaml:"api_key"` //nolint:gosec // configuration field, not a hardcoded secret
	BaseURL string `yaml:"base_url,omitempty"`
}

// Default returns a configuration with one entry per known provider whose
// key is read from the provider's environment variable, and the built-in
// models.
func Default() Config {
	cfg := Config{Placeholder: "None", Timeout: generate.DefaultTimeout.String()}

	for _, p := range []models.Provider{models.OpenAI, models.Anthropic, models.Grok} {
		cfg.Providers = append(cfg.Providers, ProviderConfig{
			Kind:   string(p),
			APIKey: os.Getenv(EnvVars[p]),
		})
	}

	return cfg
}

// Template returns the YAML written by "promptgen init". Keys reference
// environment variables so secrets stay out of the file. Models are left out
// so the built-in list applies, narrowed to the providers with keys.
func Template() ([]byte, error) {
	cfg := Config{Placeholder: "None", Timeout: generate.DefaultTimeout.String()}

	for _, p := range []models.Provider{models.OpenAI, models.Anthropic, models.Grok} {
		cfg.Providers = append(cfg.Providers, ProviderConfig{
			Kind:   string(p),
			APIKey: "${" + EnvVars[p] + "}",
		})
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("config: marshal template: %w", err)
	}

	return data, nil
}

// Load reads a YAML file and returns a Config.
// Environment variables referenced as ${VAR} or $VAR in the YAML are expanded
// before parsing, so API keys can live in the environment or a .env file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if err != nil {
		return Config{}, fmt.Errorf("config: load: %w", err)
	}

	return Parse(data)
}

// Parse expands environment references in data and decodes it.
func Parse(data []byte) (Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c Config) Validate() error {
	seen := make(map[string]struct{}, len(c.Providers))
	for _, p := range c.Providers {
		if p.Kind == "" {
			return fmt.Errorf("config: provider kind is required")
		}
		if !models.Provider(p.Kind).Valid() {
			return fmt.Errorf("config: provider %q: unknown kind", p.Kind)
		}
		if _, dup := seen[p.Kind]; dup {
			return fmt.Errorf("config: duplicate provider %q", p.Kind)
		}
		seen[p.Kind] = struct{}{}
	}

	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}

	if _, err := models.New(c.Models...); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	return nil
}

// TimeoutDuration parses Timeout. Empty selects generate.DefaultTimeout.
func (c Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return generate.DefaultTimeout, nil
	}

	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("config: timeout: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("config: timeout must be positive, got %s", c.Timeout)
	}

	return d, nil
}

// Provider returns the entry for p.
func (c Config) Provider(p models.Provider) (ProviderConfig, bool) {
	i := slices.IndexFunc(c.Providers, func(pc ProviderConfig) bool { return pc.Kind == string(p) })
	if i < 0 {
		return ProviderConfig{}, false
	}
	return c.Providers[i], true
}

// HasKey reports whether p is configured with a non-blank API key.
func (c Config) HasKey(p models.Provider) bool {
	pc, ok := c.Provider(p)
	return ok && strings.TrimSpace(pc.APIKey) != ""
}

// ResolveModels returns the models a session may use.
//
// Models listed in the config are taken as is and every provider they use
// must have a key. Without a list, the built-in models are narrowed to the
// providers that have keys; the error lists every variable only when none
// does.
func (c Config) ResolveModels() ([]models.ModelConfig, error) {
	if len(c.Models) > 0 {
		reg, err := models.New(c.Models...)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		if err := c.RequireCredentials(reg.Providers()); err != nil {
			return nil, err
		}
		return reg.List(), nil
	}

	usable := slices.DeleteFunc(slices.Clone(models.Defaults), func(m models.ModelConfig) bool {
		return !c.HasKey(m.Provider)
	})
	if len(usable) == 0 {
		all, err := models.New(models.Defaults...)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		return nil, c.RequireCredentials(all.Providers())
	}

	return usable, nil
}

// RequireCredentials checks that every provider in used has a non-empty API
// key. The error lists the environment variables to set.
func (c Config) RequireCredentials(used []models.Provider) error {
	var missing []string

	for _, p := range used {
		if c.HasKey(p) {
			continue
		}

		name := EnvVars[p]
		if name == "" {
			name = strings.ToUpper(string(p)) + "_API_KEY"
		}
		missing = append(missing, fmt.Sprintf("%s (provider %s)", name, p))
	}

	if len(missing) > 0 {
		return fmt.Errorf("config: %w: set %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}

	return nil
}

// GenerateProviders converts the entries for used into generate.ProviderConfig
// values.
func (c Config) GenerateProviders(used []models.Provider) []generate.ProviderConfig {
	out := make([]generate.ProviderConfig, 0, len(used))
	for _, p := range used {
		pc, _ := c.Provider(p)
		out = append(out, generate.ProviderConfig{Provider: p, APIKey: pc.APIKey, BaseURL: pc.BaseURL})
	}
	return out
}
