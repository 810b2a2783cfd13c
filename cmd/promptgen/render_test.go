package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFmtTokens(t *testing.T) {
	tests := []struct {
		input    int
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.0k"},
		{15000, "15.0k"},
		{1_000_000, "1.0M"},
		{3_400_000, "3.4M"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, fmtTokens(tt.input), "fmtTokens(%d)", tt.input)
	}
}

func TestFmtDuration(t *testing.T) {
	assert.Equal(t, "0.1s", fmtDuration(100*time.Millisecond))
	assert.Equal(t, "30.0s", fmtDuration(30*time.Second))
	assert.Equal(t, "1m 5s", fmtDuration(65*time.Second))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a b", truncate("a\nb", 10))
	assert.Equal(t, "hello…", truncate("hello world", 6))
	assert.Equal(t, "日本…", truncate("日本語テキスト", 5), "wide runes count as two cells")
	assert.Empty(t, truncate("anything", 0))
}

func TestRenderMarkdown_NilRenderer(t *testing.T) {
	assert.Equal(t, "**bold**", renderMarkdown(nil, "**bold**"))
}

func TestNewMarkdownRenderer(t *testing.T) {
	r := newMarkdownRenderer(0)
	if r == nil {
		t.Skip("no glamour renderer in this environment")
	}
	assert.Contains(t, renderMarkdown(r, "# Title"), "Title")
}
