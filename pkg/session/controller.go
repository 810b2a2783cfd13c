package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/germanamz/promptgen/pkg/category"
	"github.com/germanamz/promptgen/pkg/clipboard"
	"github.com/germanamz/promptgen/pkg/generate"
	"github.com/germanamz/promptgen/pkg/models"
	"github.com/germanamz/promptgen/pkg/prompt"
	"github.com/germanamz/promptgen/pkg/saver"
)

var (
	// ErrNoResult is returned by Copy and Save when there is no completed
	// result to act on.
	ErrNoResult = errors.New("session: no completed result")
	// ErrStale is returned when the result an action was started for was
	// replaced by a newer submission before the action finished.
	ErrStale = errors.New("session: result replaced by a newer request")
)

// NoticeError wraps a non-fatal copy or save failure. It is shown to the
// user and leaves the session unchanged.
type NoticeError struct {
	Action string // "copy" or "save"
	Err    error
}

func (e *NoticeError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Action, e.Err)
}

func (e *NoticeError) Unwrap() error { return e.Err }

// Generator produces a Result for an assembled prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, m models.ModelConfig, temperature float64, maxTokens int) generate.Result
}

// Saver persists a generated document and returns where it went.
type Saver interface {
	Save(doc saver.Document) (string, error)
}

// Deps are the collaborators of a Controller.
type Deps struct {
	Categories *category.Registry
	Models     *models.Registry
	Builder    *prompt.Builder
	Generator  Generator
	Copier     clipboard.Copier
	Saver      Saver
	Logger     *slog.Logger
}

// Ticket identifies one submission and carries everything needed to run it.
type Ticket struct {
	Seq         uint64
	Prompt      string
	Model       models.ModelConfig
	Temperature float64
	MaxTokens   int
}

// Controller owns the Session of one user. All methods are safe for
// concurrent use; only Complete and Generate block on the network.
type Controller struct {
	deps Deps
	log  *slog.Logger

	mu sync.Mutex
	s  Session
}

// NewController creates a Controller with an Idle session.
func NewController(deps Deps) *Controller {
	if deps.Builder == nil {
		deps.Builder = prompt.NewBuilder("")
	}

	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}

	s := New()

	return &Controller{
		deps: deps,
		log:  log.With("session", s.ID.String()),
		s:    s,
	}
}

// Snapshot returns a copy of the current session.
func (c *Controller) Snapshot() Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.s.Clone()
}

// Prepare resolves and validates req without touching the session: the
// category and model must exist, overrides must be in range and the values
// must build into a prompt.
func (c *Controller) Prepare(req Request) (Ticket, error) {
	cat, err := c.deps.Categories.Get(req.Category)
	if err != nil {
		return Ticket{}, err
	}

	m, err := c.deps.Models.Get(req.Model)
	if err != nil {
		return Ticket{}, err
	}

	temperature, maxTokens, err := m.Params(req.Temperature, req.MaxTokens)
	if err != nil {
		return Ticket{}, err
	}

	text, err := c.deps.Builder.Build(cat, req.Values)
	if err != nil {
		return Ticket{}, err
	}

	return Ticket{Prompt: text, Model: m, Temperature: temperature, MaxTokens: maxTokens}, nil
}

// Begin validates req and, only if it is valid, submits it. The returned
// ticket must be passed to Complete. Invalid input leaves the session
// untouched.
func (c *Controller) Begin(req Request) (Ticket, error) {
	t, err := c.Prepare(req)
	if err != nil {
		c.log.Debug("submission rejected", "category", req.Category, "model", req.Model, "error", err)
		return Ticket{}, err
	}

	c.mu.Lock()
	c.s = c.s.Submit(req, t.Prompt)
	t.Seq = c.s.Seq
	c.mu.Unlock()

	c.log.Info("submitted", "seq", t.Seq, "category", req.Category, "model", t.Model.ID)

	return t, nil
}

// Complete runs the generation for t and records its result. The returned
// bool is false when a newer submission superseded t, in which case the
// result was discarded.
func (c *Controller) Complete(ctx context.Context, t Ticket) (Session, bool) {
	res := c.deps.Generator.Generate(ctx, t.Prompt, t.Model, t.Temperature, t.MaxTokens)

	c.mu.Lock()
	defer c.mu.Unlock()

	next, applied := c.s.Resolve(t.Seq, res)
	if !applied {
		c.log.Debug("stale result discarded", "seq", t.Seq, "current", c.s.Seq)
		return c.s.Clone(), false
	}

	c.s = next

	return c.s.Clone(), true
}

// Generate submits req and waits for its result.
func (c *Controller) Generate(ctx context.Context, req Request) (Session, error) {
	t, err := c.Begin(req)
	if err != nil {
		return c.Snapshot(), err
	}

	s, _ := c.Complete(ctx, t)

	return s, nil
}

// Copy places the completed text on the clipboard and sets the copied flag.
// Clipboard failures are returned as *NoticeError.
func (c *Controller) Copy() error {
	s, err := c.actionable()
	if err != nil {
		return err
	}

	if err := c.deps.Copier.Copy(s.Result.Text); err != nil {
		c.log.Warn("copy failed", "seq", s.Seq, "error", err)
		return &NoticeError{Action: "copy", Err: err}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	next, ok := c.s.MarkCopied(s.Seq)
	if !ok {
		return ErrStale
	}

	c.s = next

	return nil
}

// Save writes the completed text through the Saver, sets the saved flag and
// returns the location. Write failures are returned as *NoticeError.
func (c *Controller) Save() (string, error) {
	s, err := c.actionable()
	if err != nil {
		return "", err
	}

	doc := saver.Document{Text: s.Result.Text, Category: s.Request.Category, Model: s.Request.Model}
	if cat, err := c.deps.Categories.Get(s.Request.Category); err == nil {
		doc.Category = cat.Name
	}

	loc, err := c.deps.Saver.Save(doc)
	if err != nil {
		c.log.Warn("save failed", "seq", s.Seq, "error", err)
		return "", &NoticeError{Action: "save", Err: err}
	}

	c.log.Info("saved", "seq", s.Seq, "path", loc)

	c.mu.Lock()
	defer c.mu.Unlock()

	next, ok := c.s.MarkSaved(s.Seq, loc)
	if !ok {
		return loc, ErrStale
	}

	c.s = next

	return loc, nil
}

// actionable returns a snapshot of the session if it holds a completed
// result.
func (c *Controller) actionable() (Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.s.actionable(c.s.Seq) {
		return Session{}, ErrNoResult
	}

	return c.s.Clone(), nil
}
