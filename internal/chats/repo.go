package chats

import "context"

// Repo defines persistence for chat threads. Threads are append-only and
// keyed by (user, document); they come into existence on first append.
type Repo interface {
	// AppendTurn writes one question/answer pair as a single logical unit:
	// both messages land in insertion order or neither does.
	AppendTurn(ctx context.Context, userID, documentID, question, answer string) error
	// History returns the thread's messages in insertion order. A missing
	// thread yields an empty slice, not an error.
	History(ctx context.Context, userID, documentID string) ([]Message, error)
	// DeleteForDocument removes the thread tied to a document.
	DeleteForDocument(ctx context.Context, userID, documentID string) error
}
