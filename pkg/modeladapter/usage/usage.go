// Package usage counts the tokens providers report per call.
package usage

import (
	"maps"
	"sync"
)

// TokenCount is the prompt and completion token count of one or more calls.
type TokenCount struct {
	InputTokens  int
	OutputTokens int
}

// Total is input plus output.
func (tc TokenCount) Total() int { return tc.InputTokens + tc.OutputTokens }

// Add sums two counts.
func (tc TokenCount) Add(o TokenCount) TokenCount {
	tc.InputTokens += o.InputTokens
	tc.OutputTokens += o.OutputTokens
	return tc
}

// Tracker keeps running totals overall and per API model identifier. The
// zero value is ready and safe for concurrent use.
type Tracker struct {
	mu      sync.Mutex
	calls   int
	last    TokenCount
	total   TokenCount
	byModel map[string]TokenCount
}

// Add records one call against model.
func (t *Tracker) Add(model string, tc TokenCount) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.byModel == nil {
		t.byModel = make(map[string]TokenCount)
	}

	t.calls++
	t.last = tc
	t.total = t.total.Add(tc)
	t.byModel[model] = t.byModel[model].Add(tc)
}

// Last returns the most recent call's count; false before any call.
func (t *Tracker) Last() (TokenCount, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.last, t.calls > 0
}

// Total returns the sum over every call.
func (t *Tracker) Total() TokenCount {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.total
}

// ByModel returns a copy of the per-model sums.
func (t *Tracker) ByModel() map[string]TokenCount {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(map[string]TokenCount, len(t.byModel))
	maps.Copy(out, t.byModel)
	return out
}

// Count returns how many calls were recorded.
func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.calls
}
