package stubs

import (
	"context"
	"sync"

	"github.com/firebase/genkit/go/ai"

	"bookbot/internal/checkpoint"
)

// MockStore is an in-memory implementation of the checkpoint Store interface
// for testing
type MockStore struct {
	mu      sync.RWMutex
	threads map[string][]*ai.Message
}

// NewMockStore creates a new mock checkpoint store
func NewMockStore() *MockStore {
	return &MockStore{
		threads: make(map[string][]*ai.Message),
	}
}

// Initialize does nothing for the mock store
func (m *MockStore) Initialize(ctx context.Context) error {
	return nil
}

// History returns the message sequence for a thread, oldest first.
// Unknown threads yield an empty history.
func (m *MockStore) History(ctx context.Context, threadID string) ([]*ai.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	msgs := m.threads[threadID]
	out := make([]*ai.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

// AppendMessages appends messages to a thread in order
func (m *MockStore) AppendMessages(ctx context.Context, threadID string, msgs []*ai.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Persist the same flattened form the real store keeps, so history
	// replays identically whichever backend is wired.
	for _, msg := range msgs {
		m.threads[threadID] = append(m.threads[threadID],
			checkpoint.Rebuild(string(msg.Role), checkpoint.TextOf(msg)))
	}
	return nil
}

// ThreadCount returns the number of distinct threads seen, for assertions
func (m *MockStore) ThreadCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.threads)
}

// Close does nothing for the mock store
func (m *MockStore) Close() error {
	return nil
}
