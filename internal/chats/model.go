package chats

import "time"

// Message roles within a chat thread.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry in a per-(user, document) chat thread.
type Message struct {
	ID         string
	UserID     string
	DocumentID string
	Role       string
	Content    string
	CreatedAt  time.Time
}
