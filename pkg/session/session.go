// Package session tracks one user's generation cycle: the request that was
// submitted, the result it produced and the copy/save actions taken on that
// result.
//
// Session is a value. Its transitions are pure methods that return the next
// Session and never mutate the receiver; Controller owns the single current
// value for a user and serialises access to it.
package session

import (
	"slices"

	"github.com/germanamz/promptgen/pkg/category"
	"github.com/germanamz/promptgen/pkg/generate"
	"github.com/google/uuid"
)

// State is the lifecycle position of a Session.
type State int

const (
	Idle      State = iota // nothing submitted yet
	Submitted              // a generation is in flight
	Completed              // the latest generation produced text
	Failed                 // the latest generation failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitted:
		return "submitted"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Request is what the user asked to generate.
type Request struct {
	Category string
	Values   category.Values
	Model    string

	// Overrides of the model defaults. Nil keeps the default.
	Temperature *float64
	MaxTokens   *int
}

func (r Request) clone() Request {
	out := r
	if r.Values != nil {
		out.Values = make(category.Values, len(r.Values))
		for k, v := range r.Values {
			if ss, ok := v.([]string); ok {
				v = slices.Clone(ss)
			}
			out.Values[k] = v
		}
	}
	if r.Temperature != nil {
		t := *r.Temperature
		out.Temperature = &t
	}
	if r.MaxTokens != nil {
		n := *r.MaxTokens
		out.MaxTokens = &n
	}
	return out
}

// Session is the state of one user's generation cycle.
type Session struct {
	ID uuid.UUID
	// Seq increases by one on every submission. Resolutions and actions
	// carry the Seq they were started for and are dropped when it no longer
	// matches.
	Seq     uint64
	State   State
	Request Request
	Prompt  string
	Result  *generate.Result

	Copied  bool
	Saved   bool
	SavedTo string
}

// New returns an Idle session with a fresh id.
func New() Session {
	return Session{ID: uuid.New(), State: Idle}
}

// Submit enters Submitted for a new request. The previous result and both
// action flags are discarded in the same step.
func (s Session) Submit(req Request, prompt string) Session {
	return Session{
		ID:      s.ID,
		Seq:     s.Seq + 1,
		State:   Submitted,
		Request: req.clone(),
		Prompt:  prompt,
	}
}

// Resolve records the result of submission seq. It reports false and leaves
// the session unchanged when seq is not the current submission or the
// session is not waiting for a result.
func (s Session) Resolve(seq uint64, res generate.Result) (Session, bool) {
	if s.State != Submitted || seq != s.Seq {
		return s, false
	}

	s.Result = &res
	s.Copied, s.Saved, s.SavedTo = false, false, ""

	if res.OK() {
		s.State = Completed
	} else {
		s.State = Failed
	}

	return s, true
}

// MarkCopied sets the copied flag for the completed result of seq.
func (s Session) MarkCopied(seq uint64) (Session, bool) {
	if !s.actionable(seq) {
		return s, false
	}

	s.Copied = true

	return s, true
}

// MarkSaved sets the saved flag and location for the completed result of seq.
func (s Session) MarkSaved(seq uint64, location string) (Session, bool) {
	if !s.actionable(seq) {
		return s, false
	}

	s.Saved = true
	s.SavedTo = location

	return s, true
}

func (s Session) actionable(seq uint64) bool {
	return s.State == Completed && seq == s.Seq && s.Result != nil
}

// Text returns the generated text, or "" unless the session is Completed.
func (s Session) Text() string {
	if s.State != Completed || s.Result == nil {
		return ""
	}
	return s.Result.Text
}

// Failure returns the classified failure, or nil unless the session is
// Failed.
func (s Session) Failure() *generate.Failure {
	if s.State != Failed || s.Result == nil {
		return nil
	}
	return s.Result.Failure
}

// Clone returns a copy that shares no mutable state with s.
func (s Session) Clone() Session {
	s.Request = s.Request.clone()
	if s.Result != nil {
		r := *s.Result
		s.Result = &r
	}
	return s
}
