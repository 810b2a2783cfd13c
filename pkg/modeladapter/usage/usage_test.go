package usage_test

import (
	"sync"
	"testing"

	"github.com/germanamz/promptgen/pkg/modeladapter/usage"
	"github.com/stretchr/testify/assert"
)

func TestTokenCount_Total(t *testing.T) {
	tc := usage.TokenCount{InputTokens: 100, OutputTokens: 50}
	assert.Equal(t, 150, tc.Total())
}

func TestTracker_ZeroValue(t *testing.T) {
	var tr usage.Tracker

	assert.Equal(t, 0, tr.Count())
	assert.Equal(t, usage.TokenCount{}, tr.Total())
	assert.Empty(t, tr.ByModel())

	_, ok := tr.Last()
	assert.False(t, ok)
}

func TestTracker_AddAndAggregate(t *testing.T) {
	var tr usage.Tracker

	tr.Add("gpt-4", usage.TokenCount{InputTokens: 10, OutputTokens: 5})
	tr.Add("claude-3-opus", usage.TokenCount{InputTokens: 20, OutputTokens: 10})
	tr.Add("gpt-4", usage.TokenCount{InputTokens: 1, OutputTokens: 1})

	assert.Equal(t, 3, tr.Count())
	assert.Equal(t, usage.TokenCount{InputTokens: 31, OutputTokens: 16}, tr.Total())

	last, ok := tr.Last()
	assert.True(t, ok)
	assert.Equal(t, usage.TokenCount{InputTokens: 1, OutputTokens: 1}, last)

	byModel := tr.ByModel()
	assert.Equal(t, usage.TokenCount{InputTokens: 11, OutputTokens: 6}, byModel["gpt-4"])
	assert.Equal(t, usage.TokenCount{InputTokens: 20, OutputTokens: 10}, byModel["claude-3-opus"])
}

func TestTracker_ConcurrentAdd(t *testing.T) {
	var tr usage.Tracker
	var wg sync.WaitGroup

	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Add("m", usage.TokenCount{InputTokens: 1, OutputTokens: 2})
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, tr.Count())
	assert.Equal(t, 150, tr.Total().Total())
}

func TestTracker_ByModelIsCopy(t *testing.T) {
	var tr usage.Tracker
	tr.Add("grok-3-mini", usage.TokenCount{InputTokens: 4})

	snapshot := tr.ByModel()
	snapshot["grok-3-mini"] = usage.TokenCount{}

	assert.Equal(t, 4, tr.ByModel()["grok-3-mini"].InputTokens)
}
