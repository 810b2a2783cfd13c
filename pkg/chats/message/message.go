// Package message defines the role-tagged text messages exchanged with a
// completion provider.
package message

import (
	"strings"

	"github.com/germanamz/promptgen/pkg/chats/role"
)

// Message is a single conversation turn. Text may be split across several
// parts when a provider returns more than one content block.
type Message struct {
	Role  role.Role
	Parts []string
}

// New creates a Message with the given role and text parts.
func New(r role.Role, parts ...string) Message {
	return Message{Role: r, Parts: parts}
}

// NewText creates a Message with a single text part.
func NewText(r role.Role, text string) Message {
	return Message{Role: r, Parts: []string{text}}
}

// TextContent returns all parts concatenated.
func (m Message) TextContent() string {
	return strings.Join(m.Parts, "")
}

// IsEmpty reports whether the message carries no non-whitespace text.
func (m Message) IsEmpty() bool {
	return strings.TrimSpace(m.TextContent()) == ""
}
