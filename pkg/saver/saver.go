// Package saver persists generated prompts as timestamped text files.
package saver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Header is the fixed first line of every saved file.
const Header = "# Generated Prompt"

// TimeLayout formats the timestamp in saved file names.
const TimeLayout = "20060102-150405"

// ErrEmptyText is returned when there is nothing to save.
var ErrEmptyText = errors.New("saver: empty text")

// Document is one generated prompt together with the context it came from.
type Document struct {
	Text     string
	Category string // Category display name.
	Model    string // Model display key.
}

// Saver writes documents into Dir. The zero value writes into the working
// directory.
type Saver struct {
	Dir string
	now func() time.Time
}

// New creates a Saver writing into dir.
func New(dir string) *Saver {
	return &Saver{Dir: dir, now: time.Now}
}

// Save writes doc to prompt-YYYYMMDD-HHMMSS.txt and returns the file path.
// When a file with that name exists a numeric suffix is added so a save never
// overwrites an earlier one.
func (s *Saver) Save(doc Document) (string, error) {
	if strings.TrimSpace(doc.Text) == "" {
		return "", ErrEmptyText
	}

	dir := s.Dir
	if dir == "" {
		dir = "."
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("saver: create dir: %w", err)
	}

	stamp := s.clock()().Format(TimeLayout)
	content := []byte(Format(doc))

	for i := 0; ; i++ {
		name := "prompt-" + stamp + ".txt"
		if i > 0 {
			name = fmt.Sprintf("prompt-%s-%d.txt", stamp, i)
		}

		path := filepath.Join(dir, name)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600) //nolint:gosec // path is built from a fixed pattern
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("saver: create file: %w", err)
		}

		if _, err := f.Write(content); err != nil {
			_ = f.Close()
			return "", fmt.Errorf("saver: write file: %w", err)
		}

		if err := f.Close(); err != nil {
			return "", fmt.Errorf("saver: close file: %w", err)
		}

		return path, nil
	}
}

func (s *Saver) clock() func() time.Time {
	if s.now == nil {
		return time.Now
	}
	return s.now
}

// Format renders doc as saved on disk: the header, a metadata line, a blank
// line and the text.
func Format(doc Document) string {
	var b strings.Builder

	b.WriteString(Header)
	b.WriteByte('\n')

	var meta []string
	if doc.Category != "" {
		meta = append(meta, "Category: "+doc.Category)
	}
	if doc.Model != "" {
		meta = append(meta, "Model: "+doc.Model)
	}
	b.WriteString(strings.Join(meta, " | "))
	b.WriteString("\n\n")

	b.WriteString(doc.Text)
	if !strings.HasSuffix(doc.Text, "\n") {
		b.WriteByte('\n')
	}

	return b.String()
}
