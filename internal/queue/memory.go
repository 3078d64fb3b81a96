package queue

import (
	"context"
	"sync"
)

// MemoryClient buffers sent messages in memory. Used in tests and local dev.
type MemoryClient struct {
	mu       sync.Mutex
	messages []Message
}

// NewMemoryClient constructs a MemoryClient.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{}
}

// Send buffers the message.
func (m *MemoryClient) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

// Drain returns and clears all buffered messages.
func (m *MemoryClient) Drain() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.messages
	m.messages = nil
	return out
}

var _ Client = (*MemoryClient)(nil)
