package grok_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/germanamz/promptgen/pkg/chats/chat"
	"github.com/germanamz/promptgen/pkg/modeladapter"
	"github.com/germanamz/promptgen/pkg/providers/grok"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	a := grok.New("", "xai-key", nil)

	assert.Equal(t, grok.DefaultBaseURL, a.BaseURL)
	assert.Equal(t, "grok", a.Label)
	assert.Equal(t, "xai-key", a.Auth.Key)
}

func TestComplete_UsesOpenAIEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer xai-key", r.Header.Get("Authorization"))

		var req map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "grok-3-mini", req["model"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "Grok says hi"}},
			},
		})
	}))
	t.Cleanup(srv.Close)

	a := grok.New(srv.URL, "xai-key", srv.Client())

	msg, err := a.Complete(context.Background(), chat.ForPrompt("sys", "hi"), modeladapter.Params{Model: "grok-3-mini", MaxTokens: 100})
	require.NoError(t, err)
	assert.Equal(t, "Grok says hi", msg.TextContent())
}

func TestComplete_ErrorLabel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	a := grok.New(srv.URL, "xai-key", srv.Client())

	_, err := a.Complete(context.Background(), chat.ForPrompt("", "hi"), modeladapter.Params{Model: "grok-3-mini"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "grok:")
}
