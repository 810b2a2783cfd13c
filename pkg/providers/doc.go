// Package providers groups the completion adapters, one sub-package per API
// family:
//   - [github.com/germanamz/promptgen/pkg/providers/openai]: Chat Completions, a single message list
//   - [github.com/germanamz/promptgen/pkg/providers/anthropic]: Messages API, top-level system prompt plus messages
//   - [github.com/germanamz/promptgen/pkg/providers/grok]: xAI, OpenAI-compatible envelope
//
// Shared HTTP plumbing lives in [github.com/germanamz/promptgen/pkg/modeladapter].
package providers
