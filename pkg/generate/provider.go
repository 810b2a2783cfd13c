package generate

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/germanamz/promptgen/pkg/modeladapter"
	"github.com/germanamz/promptgen/pkg/models"
	"github.com/germanamz/promptgen/pkg/providers/anthropic"
	"github.com/germanamz/promptgen/pkg/providers/grok"
	"github.com/germanamz/promptgen/pkg/providers/openai"
)

// ProviderConfig holds the connection settings for one provider family.
type ProviderConfig struct {
	Provider models.Provider
	APIKey   string //nolint:gosec // configuration field, not a hardcoded secret
	BaseURL  string // Empty selects the provider's public endpoint.
}

// ProviderFactory creates a Completer from a ProviderConfig.
type ProviderFactory func(cfg ProviderConfig, client *http.Client) (modeladapter.Completer, error)

var (
	factoryMu   sync.RWMutex
	factories   = map[models.Provider]ProviderFactory{}
	defaultsReg sync.Once
)

func ensureDefaults() {
	defaultsReg.Do(func() {
		factories[models.OpenAI] = func(cfg ProviderConfig, client *http.Client) (modeladapter.Completer, error) {
			return openai.New(cfg.BaseURL, cfg.APIKey, client), nil
		}
		factories[models.Anthropic] = func(cfg ProviderConfig, client *http.Client) (modeladapter.Completer, error) {
			return anthropic.New(cfg.BaseURL, cfg.APIKey, client), nil
		}
		factories[models.Grok] = func(cfg ProviderConfig, client *http.Client) (modeladapter.Completer, error) {
			return grok.New(cfg.BaseURL, cfg.APIKey, client), nil
		}
	})
}

// RegisterProvider registers a factory for a provider tag, replacing any
// existing one. It must be called before New.
func RegisterProvider(p models.Provider, factory ProviderFactory) {
	ensureDefaults()

	factoryMu.Lock()
	defer factoryMu.Unlock()

	factories[p] = factory
}

func getFactory(p models.Provider) (ProviderFactory, bool) {
	ensureDefaults()

	factoryMu.RLock()
	defer factoryMu.RUnlock()

	f, ok := factories[p]
	return f, ok
}

func buildCompleter(cfg ProviderConfig, client *http.Client) (modeladapter.Completer, error) {
	factory, ok := getFactory(cfg.Provider)
	if !ok {
		return nil, fmt.Errorf("generate: unknown provider %q", cfg.Provider)
	}

	c, err := factory(cfg, client)
	if err != nil {
		return nil, fmt.Errorf("generate: provider %q: %w", cfg.Provider, err)
	}

	return c, nil
}
