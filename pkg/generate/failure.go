package generate

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/germanamz/promptgen/pkg/modeladapter"
)

// Kind classifies a failed generation.
type Kind string

const (
	Network       Kind = "network"        // transport failure, timeout or cancellation
	Auth          Kind = "auth"           // credentials rejected (401/403)
	RateLimited   Kind = "rate_limited"   // 429 from the provider
	ProviderError Kind = "provider_error" // other non-2xx or an unusable response body
	Unknown       Kind = "unknown"        // anything else
)

// Summary returns a short user-facing description of the kind.
func (k Kind) Summary() string {
	switch k {
	case Network:
		return "Could not reach the provider"
	case Auth:
		return "The provider rejected the API key"
	case RateLimited:
		return "The provider is rate limiting requests"
	case ProviderError:
		return "The provider returned an error"
	}
	return "Generation failed"
}

// Failure is the classified reason a generation did not produce text.
type Failure struct {
	Kind Kind
	// Message is the provider's own message when one was returned, otherwise
	// the transport error text.
	Message string
	// RetryAfter is set for RateLimited failures when the provider sent a
	// Retry-After header.
	RetryAfter time.Duration
	// Err is the underlying error, kept for logging.
	Err error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

func (f *Failure) Unwrap() error { return f.Err }

// Classify maps an adapter error to a Failure. A nil error yields nil.
func Classify(err error) *Failure {
	if err == nil {
		return nil
	}

	f := &Failure{Kind: Unknown, Message: err.Error(), Err: err}

	var rle *modeladapter.RateLimitError
	var se *modeladapter.StatusError
	var ne net.Error

	switch {
	case errors.As(err, &rle):
		f.Kind = RateLimited
		f.Message = rle.ProviderMessage()
		f.RetryAfter = rle.RetryAfter
	case errors.As(err, &se):
		f.Message = se.ProviderMessage()
		switch se.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			f.Kind = Auth
		case http.StatusTooManyRequests:
			f.Kind = RateLimited
		default:
			f.Kind = ProviderError
		}
	case errors.Is(err, context.DeadlineExceeded):
		f.Kind = Network
		f.Message = "request timed out"
	case errors.Is(err, context.Canceled):
		f.Kind = Network
		f.Message = "request canceled"
	case errors.As(err, &ne):
		f.Kind = Network
	case errors.Is(err, modeladapter.ErrEmptyResponse), errors.Is(err, modeladapter.ErrMalformedResponse):
		f.Kind = ProviderError
	}

	return f
}
