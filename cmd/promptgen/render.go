package main

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-runewidth"
)

const defaultWrap = 100

// Shown next to the spinner; one is picked per generation.
var thinkingMessages = []string{
	"Generating prompt...",
	"Consulting the model...",
	"Polishing the wording...",
	"Assembling instructions...",
	"Weaving requirements together...",
	"Sharpening the details...",
}

var spinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

func randomThinkingMessage() string {
	return thinkingMessages[rand.IntN(len(thinkingMessages))] //nolint:gosec // cosmetic
}

// newMarkdownRenderer returns nil when glamour cannot build a renderer; the
// viewer then shows raw text.
func newMarkdownRenderer(width int) *glamour.TermRenderer {
	if width <= 0 {
		width = defaultWrap
	}

	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(width))
	if err != nil {
		return nil
	}
	return r
}

func renderMarkdown(r *glamour.TermRenderer, text string) string {
	if r == nil {
		return text
	}

	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

// truncate fits s on one line of at most width cells.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(strings.ReplaceAll(s, "\n", " "), width, "…")
}

func fmtTokens(n int) string {
	if n >= 1_000_000 {
		return fmt.Sprintf("%.1fM", float64(n)/1e6)
	}
	if n >= 1_000 {
		return fmt.Sprintf("%.1fk", float64(n)/1e3)
	}
	return strconv.Itoa(n)
}

func fmtDuration(d time.Duration) string {
	if d >= time.Minute {
		secs := int(d.Seconds())
		return fmt.Sprintf("%dm %ds", secs/60, secs%60)
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
