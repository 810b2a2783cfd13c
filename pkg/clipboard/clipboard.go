// Package clipboard places generated text on the system clipboard.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// ErrUnavailable is returned when no clipboard mechanism exists on the host
// (e.g. a headless Linux session without xclip, xsel or wl-copy).
var ErrUnavailable = errors.New("clipboard: unavailable on this system")

// Copier writes text to a clipboard.
type Copier interface {
	Copy(text string) error
}

// System is the Copier backed by the operating system clipboard.
type System struct{}

var _ Copier = System{}

// Copy writes text to the system clipboard.
func (System) Copy(text string) error {
	if clipboard.Unsupported {
		return ErrUnavailable
	}

	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}

	return nil
}

// Memory is an in-process Copier that keeps the last copied text, for tests
// of code that takes a Copier.
type Memory struct {
	Text string
	Err  error // Returned by Copy when set.
}

var _ Copier = (*Memory)(nil)

// Copy stores text unless Err is set.
func (m *Memory) Copy(text string) error {
	if m.Err != nil {
		return m.Err
	}

	m.Text = text

	return nil
}
