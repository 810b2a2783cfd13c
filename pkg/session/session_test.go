package session_test

import (
	"testing"

	"github.com/germanamz/promptgen/pkg/category"
	"github.com/germanamz/promptgen/pkg/generate"
	"github.com/germanamz/promptgen/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(text string) generate.Result {
	return generate.Result{Text: text, Model: "GPT-4"}
}

func failed(kind generate.Kind) generate.Result {
	return generate.Result{Failure: &generate.Failure{Kind: kind, Message: string(kind)}}
}

func TestNew_IsIdle(t *testing.T) {
	s := session.New()

	assert.Equal(t, session.Idle, s.State)
	assert.Zero(t, s.Seq)
	assert.Nil(t, s.Result)
	assert.NotEqual(t, session.New().ID, s.ID)
}

func TestSubmit_DiscardsResultAndFlags(t *testing.T) {
	s := session.New().Submit(session.Request{Category: "bug-fix"}, "p1")
	s, applied := s.Resolve(1, ok("first"))
	require.True(t, applied)
	s, _ = s.MarkCopied(1)
	s, _ = s.MarkSaved(1, "/tmp/x.txt")
	require.True(t, s.Copied)
	require.True(t, s.Saved)

	next := s.Submit(session.Request{Category: "bug-fix"}, "p2")

	assert.Equal(t, session.Submitted, next.State)
	assert.Equal(t, uint64(2), next.Seq)
	assert.Nil(t, next.Result)
	assert.False(t, next.Copied)
	assert.False(t, next.Saved)
	assert.Empty(t, next.SavedTo)
	assert.Equal(t, s.ID, next.ID)

	// The receiver is untouched.
	assert.True(t, s.Copied)
	assert.Equal(t, session.Completed, s.State)
}

func TestResolve_SetsTerminalState(t *testing.T) {
	s := session.New().Submit(session.Request{}, "p")

	done, applied := s.Resolve(s.Seq, ok("text"))
	require.True(t, applied)
	assert.Equal(t, session.Completed, done.State)
	assert.Equal(t, "text", done.Text())
	assert.Nil(t, done.Failure())

	for _, kind := range []generate.Kind{generate.Network, generate.Auth, generate.RateLimited, generate.ProviderError, generate.Unknown} {
		t.Run(string(kind), func(t *testing.T) {
			f, applied := s.Resolve(s.Seq, failed(kind))
			require.True(t, applied)
			assert.Equal(t, session.Failed, f.State)
			require.NotNil(t, f.Failure())
			assert.Equal(t, kind, f.Failure().Kind)
			assert.Empty(t, f.Text())
		})
	}
}

func TestResolve_IgnoresStaleSeq(t *testing.T) {
	s := session.New().Submit(session.Request{}, "p1")
	s = s.Submit(session.Request{}, "p2")

	next, applied := s.Resolve(1, ok("stale"))

	assert.False(t, applied)
	assert.Equal(t, session.Submitted, next.State)
	assert.Nil(t, next.Result)
}

func TestResolve_IgnoredOutsideSubmitted(t *testing.T) {
	_, applied := session.New().Resolve(0, ok("x"))
	assert.False(t, applied)

	s := session.New().Submit(session.Request{}, "p")
	s, _ = s.Resolve(s.Seq, ok("first"))

	again, applied := s.Resolve(s.Seq, ok("second"))
	assert.False(t, applied)
	assert.Equal(t, "first", again.Text())
}

func TestMarkActions_RequireCompletedCurrentResult(t *testing.T) {
	s := session.New()
	_, applied := s.MarkCopied(0)
	assert.False(t, applied, "idle")

	s = s.Submit(session.Request{}, "p")
	_, applied = s.MarkCopied(s.Seq)
	assert.False(t, applied, "submitted")

	failedSession, _ := s.Resolve(s.Seq, failed(generate.Network))
	_, applied = failedSession.MarkSaved(s.Seq, "x")
	assert.False(t, applied, "failed")

	done, _ := s.Resolve(s.Seq, ok("text"))
	_, applied = done.MarkCopied(s.Seq - 1)
	assert.False(t, applied, "old seq")

	copied, applied := done.MarkCopied(s.Seq)
	require.True(t, applied)
	copied, applied = copied.MarkCopied(s.Seq)
	assert.True(t, applied, "repeatable")
	assert.True(t, copied.Copied)
	assert.False(t, copied.Saved)

	saved, applied := copied.MarkSaved(s.Seq, "/out/prompt.txt")
	require.True(t, applied)
	assert.True(t, saved.Saved)
	assert.True(t, saved.Copied)
	assert.Equal(t, "/out/prompt.txt", saved.SavedTo)
}

func TestSubmit_CopiesRequest(t *testing.T) {
	temp := 0.2
	values := category.Values{"languages": []string{"Go"}}
	req := session.Request{Values: values, Temperature: &temp}

	s := session.New().Submit(req, "p")

	values["languages"].([]string)[0] = "Rust"
	temp = 0.9

	assert.Equal(t, []string{"Go"}, s.Request.Values["languages"])
	assert.InDelta(t, 0.2, *s.Request.Temperature, 1e-9)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", session.Idle.String())
	assert.Equal(t, "submitted", session.Submitted.String())
	assert.Equal(t, "completed", session.Completed.String())
	assert.Equal(t, "failed", session.Failed.String())
	assert.Equal(t, "unknown", session.State(42).String())
}
