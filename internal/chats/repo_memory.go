package chats

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu      sync.RWMutex
	threads map[string][]Message // userID+"/"+documentID -> ordered messages
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		threads: make(map[string][]Message),
	}
}

func threadKey(userID, documentID string) string {
	return userID + "/" + documentID
}

// AppendTurn appends the question and answer messages under one lock, so the
// pair is never split by a concurrent append.
func (r *MemoryRepo) AppendTurn(ctx context.Context, userID, documentID, question, answer string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := time.Now().UTC()
	r.mu.Lock()
	defer r.mu.Unlock()
	key := threadKey(userID, documentID)
	r.threads[key] = append(r.threads[key],
		Message{
			ID:         uuid.NewString(),
			UserID:     userID,
			DocumentID: documentID,
			Role:       RoleUser,
			Content:    question,
			CreatedAt:  now,
		},
		Message{
			ID:         uuid.NewString(),
			UserID:     userID,
			DocumentID: documentID,
			Role:       RoleAssistant,
			Content:    answer,
			CreatedAt:  now,
		},
	)
	return nil
}

// History returns the thread's messages in insertion order.
func (r *MemoryRepo) History(ctx context.Context, userID, documentID string) ([]Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	thread := r.threads[threadKey(userID, documentID)]
	out := make([]Message, len(thread))
	copy(out, thread)
	return out, nil
}

// DeleteForDocument removes the thread tied to a document.
func (r *MemoryRepo) DeleteForDocument(ctx context.Context, userID, documentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.threads, threadKey(userID, documentID))
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
