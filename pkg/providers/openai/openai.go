// Package openai provides a Completer implementation for the OpenAI Chat
// Completions API: one top-level message list carrying both the system and
// the user turn.
package openai

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

// DefaultBaseURL is the base URL for the OpenAI API.
const DefaultBaseURL = "https://api.openai.com"

// CompletionsPath is the chat completions endpoint relative to the base URL.
const CompletionsPath = "/v1/chat/completions"

var _ modeladapter.Completer = (*Adapter)(nil)

// Adapter implements modeladapter.Completer for the OpenAI Chat Completions
// API and for OpenAI-compatible endpoints.
type Adapter struct {
	modeladapter.ModelAdapter

	// Label prefixes errors (e.g. "openai", "grok").
	Label string
	// Path is the completions endpoint path (default CompletionsPath).
	Path string
}

// New creates an Adapter configured for the OpenAI API.
// An empty baseURL selects DefaultBaseURL. A nil client falls back to
// http.DefaultClient.
func New(baseURL, apiKey string, client *http.Client) *Adapter {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Adapter{
		ModelAdapter: modeladapter.New(baseURL, modeladapter.Auth{Key: apiKey}, client),
		Label:        "openai",
		Path:         CompletionsPath,
	}
}

// Complete sends a conversation to the Chat Completions API and returns the
// assistant's reply.
func (a *Adapter) Complete(ctx context.Context, c *chat.Chat, p modeladapter.Params) (message.Message, error) {
	req := buildRequest(c, p)

	var resp apiResponse
	if err := a.PostJSON(ctx, a.path(), req, &resp); err != nil {
		return message.Message{}, fmt.Errorf("%s: %w", a.Label, err)
	}

	a.Usage.Add(p.Model, usage.TokenCount{
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	})

	msg, err := parseResponse(resp)
	if err != nil {
		return message.Message{}, fmt.Errorf("%s: %w", a.Label, err)
	}

	return msg, nil
}

func (a *Adapter) path() string {
	if a.Path == "" {
		return CompletionsPath
	}
	return a.Path
}

// --- request types ---

type apiRequest struct {
	Model       string       `json:"model"`
	Messages    []apiMessage `json:"messages"`
	MaxTokens   int          `json:"max_tokens,omitempty"`
	Temperature float64      `json:"temperature"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// --- response types ---

type apiResponse struct {
	Choices []apiChoice `json:"choices"`
	Usage   apiUsage    `json:"usage"`
}

type apiChoice struct {
	Message      apiRespMessage `json:"message"`
	FinishReason string         `json:"finish_reason"`
}

type apiRespMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

type apiUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// --- conversion helpers ---

func buildRequest(c *chat.Chat, p modeladapter.Params) apiRequest {
	req := apiRequest{
		Model:       p.Model,
		MaxTokens:   p.MaxTokens,
		Temperature: p.Temperature,
	}

	for _, m := range c.Messages() {
		req.Messages = append(req.Messages, apiMessage{
			Role:    m.Role.String(),
			Content: m.TextContent(),
		})
	}

	return req
}

// parseResponse reads choices[0].message.content. A missing choice, a null
// content or a blank string are all reported as modeladapter.ErrEmptyResponse.
func parseResponse(resp apiResponse) (message.Message, error) {
	if len(resp.Choices) == 0 {
		return message.Message{}, fmt.Errorf("%w: no choices", modeladapter.ErrEmptyResponse)
	}

	choice := resp.Choices[0]
	if choice.Message.Content == nil {
		return message.Message{}, fmt.Errorf("%w: null content (finish_reason %q)", modeladapter.ErrEmptyResponse, choice.FinishReason)
	}

	msg := message.NewText(role.Assistant, *choice.Message.Content)
	if msg.IsEmpty() {
		return message.Message{}, fmt.Errorf("%w: blank content (finish_reason %q)", modeladapter.ErrEmptyResponse, choice.FinishReason)
	}

	return msg, nil
}
