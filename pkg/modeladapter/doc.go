// Package modeladapter holds what every provider adapter shares: the
// [Completer] contract, per-call [Params], and the embeddable [ModelAdapter]
// that posts JSON with auth headers and counts tokens in
// [github.com/germanamz/promptgen/pkg/modeladapter/usage].
//
// Non-2xx answers come back as [*StatusError] or [*RateLimitError] so the
// generation client can classify them without knowing the provider.
// Provider envelopes live under pkg/providers.
package modeladapter
