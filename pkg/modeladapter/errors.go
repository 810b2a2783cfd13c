package modeladapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

var (
	// ErrEmptyResponse means the provider answered 2xx without any usable text.
	ErrEmptyResponse = errors.New("empty response")
	// ErrMalformedResponse means a 2xx body could not be decoded.
	ErrMalformedResponse = errors.New("malformed response")
)

// StatusError reports a non-2xx answer other than 429.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// ProviderMessage extracts error.message from the body, falling back to the
// raw body.
func (e *StatusError) ProviderMessage() string { return errorMessage(e.Body) }

// RateLimitError reports a 429. RetryAfter is zero when the provider gave no
// usable hint.
type RateLimitError struct {
	RetryAfter time.Duration
	Body       string
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter <= 0 {
		return "rate limited: " + e.Body
	}
	return fmt.Sprintf("rate limited (retry after %s): %s", e.RetryAfter, e.Body)
}

// ProviderMessage extracts error.message from the body, falling back to the
// raw body.
func (e *RateLimitError) ProviderMessage() string { return errorMessage(e.Body) }

// OpenAI, Grok and Anthropic all wrap failures as {"error":{"message":...}}.
type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func errorMessage(body string) string {
	var env errorEnvelope
	if json.Unmarshal([]byte(body), &env) != nil || env.Error.Message == "" {
		return body
	}
	return env.Error.Message
}

// ParseRetryAfter reads a Retry-After value given in seconds or as an HTTP
// date. Anything else, including negative seconds or a date already past,
// yields zero.
func ParseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}

	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(max(n, 0)) * time.Second
	}

	at, err := http.ParseTime(v)
	if err != nil {
		return 0
	}

	return max(time.Until(at), 0)
}
