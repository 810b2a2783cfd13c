// Package chats is the provider-neutral conversation model handed to
// completion adapters:
//   - [github.com/germanamz/promptgen/pkg/chats/role]: system, user and assistant
//   - [github.com/germanamz/promptgen/pkg/chats/message]: role-tagged text
//   - [github.com/germanamz/promptgen/pkg/chats/chat]: the ordered conversation
//
// Adapters translate a chat into their own request envelope.
package chats
