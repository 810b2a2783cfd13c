// Package chat holds the conversation sent to a completion adapter for one
// generation.
package chat

import (
	"slices"

	"github.com/germanamz/promptgen/pkg/chats/message"
	"github.com/germanamz/promptgen/pkg/chats/role"
)

// Chat is an ordered list of role-tagged messages. A Chat is built once per
// generation and only read afterwards.
type Chat struct {
	messages []message.Message
}

// New creates a Chat from msgs in order.
func New(msgs ...message.Message) *Chat {
	return &Chat{messages: slices.Clone(msgs)}
}

// ForPrompt builds the conversation for one generation: the system
// instruction, when set, then the assembled prompt as the user turn.
func ForPrompt(system, prompt string) *Chat {
	msgs := make([]message.Message, 0, 2)
	if system != "" {
		msgs = append(msgs, message.NewText(role.System, system))
	}
	msgs = append(msgs, message.NewText(role.User, prompt))

	return &Chat{messages: msgs}
}

// Len reports how many messages the chat holds.
func (c *Chat) Len() int { return len(c.messages) }

// Messages returns the messages in order. The slice is a copy.
func (c *Chat) Messages() []message.Message { return slices.Clone(c.messages) }

// Last returns the final message; ok is false for an empty chat.
func (c *Chat) Last() (m message.Message, ok bool) {
	if len(c.messages) == 0 {
		return m, false
	}
	return c.messages[len(c.messages)-1], true
}

// SystemPrompt returns the text of the first system message, or "".
func (c *Chat) SystemPrompt() string {
	i := slices.IndexFunc(c.messages, func(m message.Message) bool { return m.Role == role.System })
	if i < 0 {
		return ""
	}
	return c.messages[i].TextContent()
}
