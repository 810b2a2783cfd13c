// Package role names who authored a chat message.
package role

// Role is the author of a message as the provider APIs spell it.
type Role string

// The three roles a prompt conversation uses.
const (
	System    Role = "system"
	User      Role = "user"
	Assistant Role = "assistant"
)

func (r Role) String() string { return string(r) }
