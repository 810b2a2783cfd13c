// Package generate sends assembled prompts to the completion provider a
// model belongs to and reports the outcome as a Result. Generate never
// returns an error: every failure is classified into the Result.
package generate

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/germanamz/promptgen/pkg/chats/chat"
	"github.com/germanamz/promptgen/pkg/modeladapter"
	"github.com/germanamz/promptgen/pkg/modeladapter/usage"
	"github.com/germanamz/promptgen/pkg/models"
)

// DefaultTimeout bounds a single generation round trip.
const DefaultTimeout = 60 * time.Second

// DefaultSystemPrompt instructs the model to turn the assembled details into
// a prompt.
const DefaultSystemPrompt = "You are an expert prompt engineer. Turn the request details you are given into one clear, specific, well-structured prompt that can be pasted directly into an AI assistant. Reply with the prompt only."

// Result is the outcome of one generation attempt: Text on success,
// otherwise Failure.
type Result struct {
	Text     string
	Failure  *Failure
	Model    string
	Duration time.Duration
}

// OK reports whether the generation produced text.
func (r Result) OK() bool { return r.Failure == nil }

// Options configures a Client.
type Options struct {
	SystemPrompt string        // Sent as the system message; empty selects DefaultSystemPrompt.
	Timeout      time.Duration // Per-call bound; zero selects DefaultTimeout.
	Logger       *slog.Logger  // Nil selects slog.Default().
	HTTPClient   *http.Client  // Shared by all adapters built by New.
}

// Client dispatches generations to provider adapters by provider tag.
// It is safe for concurrent use by independent sessions.
type Client struct {
	adapters map[models.Provider]modeladapter.Completer
	system   string
	timeout  time.Duration
	log      *slog.Logger
	now      func() time.Time
}

// New builds one adapter per provider config using the registered
// factories.
func New(providers []ProviderConfig, opts Options) (*Client, error) {
	adapters := make(map[models.Provider]modeladapter.Completer, len(providers))

	for _, p := range providers {
		if _, dup := adapters[p.Provider]; dup {
			return nil, fmt.Errorf("generate: duplicate provider %q", p.Provider)
		}

		c, err := buildCompleter(p, opts.HTTPClient)
		if err != nil {
			return nil, err
		}

		adapters[p.Provider] = c
	}

	return NewWithAdapters(adapters, opts), nil
}

// NewWithAdapters creates a Client over pre-built adapters.
func NewWithAdapters(adapters map[models.Provider]modeladapter.Completer, opts Options) *Client {
	c := &Client{
		adapters: make(map[models.Provider]modeladapter.Completer, len(adapters)),
		system:   opts.SystemPrompt,
		timeout:  opts.Timeout,
		log:      opts.Logger,
		now:      time.Now,
	}

	for k, v := range adapters {
		c.adapters[k] = v
	}
	if c.system == "" {
		c.system = DefaultSystemPrompt
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.log == nil {
		c.log = slog.Default()
	}

	return c
}

// Supports reports whether an adapter is configured for p.
func (c *Client) Supports(p models.Provider) bool {
	_, ok := c.adapters[p]
	return ok
}

// Generate sends prompt to the provider of m with the given parameters. It
// makes exactly one attempt bounded by the client timeout.
func (c *Client) Generate(ctx context.Context, prompt string, m models.ModelConfig, temperature float64, maxTokens int) (res Result) {
	start := c.now()
	res.Model = m.ID

	log := c.log.With("model", m.ID, "provider", m.Provider)

	defer func() {
		if r := recover(); r != nil {
			res.Text = ""
			res.Failure = &Failure{Kind: Unknown, Message: fmt.Sprintf("adapter panic: %v", r)}
		}

		res.Duration = c.now().Sub(start)

		if res.Failure != nil {
			log.Warn("generation failed", "kind", res.Failure.Kind, "error", res.Failure.Err, "message", res.Failure.Message, "duration", res.Duration)
			return
		}

		log.Info("generation completed", "chars", len(res.Text), "duration", res.Duration)
	}()

	adapter, ok := c.adapters[m.Provider]
	if !ok {
		res.Failure = &Failure{Kind: Unknown, Message: fmt.Sprintf("no adapter configured for provider %q", m.Provider)}
		return res
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	log.Debug("generation started", "temperature", temperature, "max_tokens", maxTokens, "prompt_chars", len(prompt))

	msg, err := adapter.Complete(ctx, chat.ForPrompt(c.system, prompt), modeladapter.Params{
		Model:       m.Model,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		res.Failure = Classify(err)
		return res
	}

	res.Text = msg.TextContent()

	return res
}

// Usage returns the aggregate token usage across all adapters that report it.
func (c *Client) Usage() usage.TokenCount {
	var total usage.TokenCount
	for _, a := range c.adapters {
		if ur, ok := a.(modeladapter.UsageReporter); ok {
			total = total.Add(ur.UsageTracker().Total())
		}
	}
	return total
}
