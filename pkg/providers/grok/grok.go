// Package grok configures the OpenAI-compatible chat completions adapter for
// xAI's Grok models.
package grok

import (
	"net/http"

	"github.com/germanamz/promptgen/pkg/providers/openai"
)

// DefaultBaseURL is the base URL for the xAI API.
const DefaultBaseURL = "https://api.x.ai"

// New creates an adapter for the xAI API. xAI speaks the OpenAI request and
// response envelope, so the OpenAI adapter is reused with a different base
// URL and error label. An empty baseURL selects DefaultBaseURL.
func New(baseURL, apiKey string, client *http.Client) *openai.Adapter {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	a := openai.New(baseURL, apiKey, client)
	a.Label = "grok"

	return a
}
