package chats

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// PGRepo implements Repo using Postgres. Thread order is the insertion order
// of the chat_messages serial key.
type PGRepo struct {
	DB *sql.DB
}

// AppendTurn inserts the question and answer rows in one transaction.
func (r *PGRepo) AppendTurn(ctx context.Context, userID, documentID, question, answer string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const query = `
INSERT INTO chat_messages (id, user_id, document_id, role, content, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx, query, uuid.NewString(), userID, documentID, RoleUser, question, now); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, uuid.NewString(), userID, documentID, RoleAssistant, answer, now); err != nil {
		return err
	}
	return tx.Commit()
}

// History returns the thread's messages in insertion order.
func (r *PGRepo) History(ctx context.Context, userID, documentID string) ([]Message, error) {
	const query = `
SELECT id, user_id, document_id, role, content, created_at
FROM chat_messages
WHERE user_id = $1 AND document_id = $2
ORDER BY seq ASC`
	rows, err := r.DB.QueryContext(ctx, query, userID, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []Message{}
	for rows.Next() {
		var msg Message
		if err := rows.Scan(&msg.ID, &msg.UserID, &msg.DocumentID, &msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// DeleteForDocument removes the thread tied to a document.
func (r *PGRepo) DeleteForDocument(ctx context.Context, userID, documentID string) error {
	const query = `DELETE FROM chat_messages WHERE user_id = $1 AND document_id = $2`
	_, err := r.DB.ExecContext(ctx, query, userID, documentID)
	return err
}

var _ Repo = (*PGRepo)(nil)
