package modeladapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/germanamz/promptgen/pkg/chats/chat"
	"github.com/germanamz/promptgen/pkg/chats/message"
	"github.com/germanamz/promptgen/pkg/modeladapter/usage"
)

// Params are the settings of one completion call. One adapter serves every
// model of its provider, so they travel with the call.
type Params struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// Completer sends a conversation to an LLM and returns the assistant's reply.
type Completer interface {
	Complete(ctx context.Context, c *chat.Chat, p Params) (message.Message, error)
}

// UsageReporter is implemented by completers that count tokens. Anything
// embedding ModelAdapter gets it for free.
type UsageReporter interface {
	UsageTracker() *usage.Tracker
}

// Auth says how the API key is sent. An empty Header means
// "Authorization: Bearer <key>"; otherwise the key goes verbatim in Header.
type Auth struct {
	Key    string
	Header string
}

func (a Auth) apply(h http.Header) {
	switch {
	case a.Key == "":
	case a.Header == "":
		h.Set("Authorization", "Bearer "+a.Key)
	default:
		h.Set(a.Header, a.Key)
	}
}

// ModelAdapter is the HTTP plumbing shared by provider adapters. Providers
// embed it and add their own Complete.
type ModelAdapter struct {
	Auth    Auth
	BaseURL string
	// Client defaults to http.DefaultClient. Deadlines come from the context.
	Client *http.Client
	// Headers are set on every request after auth.
	Headers map[string]string
	Usage   usage.Tracker
}

// New returns a ModelAdapter for baseURL.
func New(baseURL string, auth Auth, client *http.Client) ModelAdapter {
	return ModelAdapter{Auth: auth, BaseURL: baseURL, Client: client}
}

// UsageTracker returns the adapter's token counter.
func (a *ModelAdapter) UsageTracker() *usage.Tracker { return &a.Usage }

// NewRequest builds a request against BaseURL+path with auth and Headers set.
func (a *ModelAdapter) NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, a.BaseURL+path, body)
	if err != nil {
		return nil, err
	}

	a.Auth.apply(req.Header)
	for name, value := range a.Headers {
		req.Header.Set(name, value)
	}

	return req, nil
}

// PostJSON posts payload as JSON and decodes a 2xx body into dest (skipped
// when dest is nil).
//
// Errors: *RateLimitError for 429, *StatusError for other non-2xx,
// ErrMalformedResponse for undecodable bodies. Transport errors keep their
// chain so context.DeadlineExceeded and net.Error stay visible.
func (a *ModelAdapter) PostJSON(ctx context.Context, path string, payload, dest any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := a.NewRequest(ctx, http.MethodPost, path, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client().Do(req) //nolint:gosec // BaseURL comes from configuration
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp); err != nil {
		return err
	}

	if dest == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w: %w", ErrMalformedResponse, err)
	}

	return nil
}

func (a *ModelAdapter) client() *http.Client {
	if a.Client == nil {
		return http.DefaultClient
	}
	return a.Client
}

// maxErrorBody caps how much of a failed response is kept for messages.
const maxErrorBody = 64 << 10

// checkStatus turns a non-2xx response into a typed error. The body is read
// only on failure.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	if resp.StatusCode == http.StatusTooManyRequests {
		return &RateLimitError{
			RetryAfter: ParseRetryAfter(resp.Header.Get("Retry-After")),
			Body:       string(raw),
		}
	}

	return &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
}
