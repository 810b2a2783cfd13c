// Package anthropic provides a Completer implementation for the Anthropic
// Messages API: a top-level system string plus the user message list.
package anthropic

import (
	"context"
	"fmt"
	"net/http"

	"github.com/germanamz/promptgen/pkg/chats/chat"
	"github.com/germanamz/promptgen/pkg/chats/message"
	"github.com/germanamz/promptgen/pkg/chats/role"
	"github.com/germanamz/promptgen/pkg/modeladapter"
	"github.com/germanamz/promptgen/pkg/modeladapter/usage"
)

// DefaultBaseURL is the base URL for the Anthropic API.
const DefaultBaseURL = "https://api.anthropic.com"

// APIVersion is sent as the anthropic-version header.
const APIVersion = "2023-06-01"

const messagesPath = "/v1/messages"

// defaultMaxTokens is used when the caller leaves Params.MaxTokens at zero;
// the Messages API rejects requests without max_tokens.
const defaultMaxTokens = 4096

var _ modeladapter.Completer = (*Adapter)(nil)

// Adapter implements modeladapter.Completer for the Anthropic Messages API.
type Adapter struct {
	modeladapter.ModelAdapter
}

// New creates an Adapter configured for the Anthropic API.
// An empty baseURL selects DefaultBaseURL.
func New(baseURL, apiKey string, client *http.Client) *Adapter {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	a := &Adapter{
		ModelAdapter: modeladapter.New(baseURL, modeladapter.Auth{
			Key:    apiKey,
			Header: "x-api-key",
		}, client),
	}
	a.Headers = map[string]string{
		"anthropic-version": APIVersion,
	}

	return a
}

// Complete sends a conversation to the Anthropic Messages API and returns the
// assistant's reply.
func (a *Adapter) Complete(ctx context.Context, c *chat.Chat, p modeladapter.Params) (message.Message, error) {
	req := buildRequest(c, p)

	var resp apiResponse
	if err := a.PostJSON(ctx, messagesPath, req, &resp); err != nil {
		return message.Message{}, fmt.Errorf("anthropic: %w", err)
	}

	a.Usage.Add(p.Model, usage.TokenCount{
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
	})

	msg, err := parseResponse(resp)
	if err != nil {
		return message.Message{}, fmt.Errorf("anthropic: %w", err)
	}

	return msg, nil
}

// --- request types ---

type apiRequest struct {
	Model       string       `json:"model"`
	MaxTokens   int          `json:"max_tokens"`
	System      string       `json:"system,omitempty"`
	Messages    []apiMessage `json:"messages"`
	Temperature float64      `json:"temperature"`
}

type apiMessage struct {
	Role    string       `json:"role"`
	Content []apiContent `json:"content"`
}

type apiContent struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// --- response types ---

type apiResponse struct {
	Content    []apiContent `json:"content"`
	StopReason string       `json:"stop_reason"`
	Usage      apiUsage     `json:"usage"`
}

type apiUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// --- conversion helpers ---

func buildRequest(c *chat.Chat, p modeladapter.Params) apiRequest {
	req := apiRequest{
		Model:       p.Model,
		MaxTokens:   p.MaxTokens,
		System:      c.SystemPrompt(),
		Temperature: p.Temperature,
	}

	if req.MaxTokens <= 0 {
		req.MaxTokens = defaultMaxTokens
	}

	for _, m := range c.Messages() {
		if m.Role == role.System {
			continue
		}

		block := apiContent{Type: "text", Text: m.TextContent()}
		msgRole := mapRole(m.Role)

		// Consecutive turns of the same role are merged; the API requires
		// alternating roles.
		if n := len(req.Messages); n > 0 && req.Messages[n-1].Role == msgRole {
			req.Messages[n-1].Content = append(req.Messages[n-1].Content, block)
			continue
		}

		req.Messages = append(req.Messages, apiMessage{
			Role:    msgRole,
			Content: []apiContent{block},
		})
	}

	return req
}

func mapRole(r role.Role) string {
	if r == role.Assistant {
		return "assistant"
	}
	return "user"
}

// parseResponse concatenates the text blocks of the reply. The content field
// is a list of typed blocks, not a single message string.
func parseResponse(resp apiResponse) (message.Message, error) {
	var parts []string
	for _, block := range resp.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}

	msg := message.New(role.Assistant, parts...)
	if msg.IsEmpty() {
		return message.Message{}, fmt.Errorf("%w: no text content (stop_reason %q)", modeladapter.ErrEmptyResponse, resp.StopReason)
	}

	return msg, nil
}
