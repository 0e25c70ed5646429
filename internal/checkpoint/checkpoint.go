package checkpoint

import (
	"context"

	"github.com/firebase/genkit/go/ai"
)

// Store defines the interface for conversation checkpoint persistence.
// Conversations are addressed by thread id; the content of a thread is an
// append-only sequence of messages. This layer never interprets messages,
// it only replays them to the agent runtime.
type Store interface {
	// History returns the full message sequence for a thread, oldest first.
	// An unknown thread id yields an empty history, not an error.
	History(ctx context.Context, threadID string) ([]*ai.Message, error)

	// AppendMessages appends messages to a thread in order.
	AppendMessages(ctx context.Context, threadID string, msgs []*ai.Message) error

	// Lifecycle
	Initialize(ctx context.Context) error
	Close() error
}

// TextOf flattens the text parts of a message for persistence. Tool-call
// parts are not persisted; only the user/model turns the facade appends.
func TextOf(msg *ai.Message) string {
	var out string
	for _, part := range msg.Content {
		if part.IsText() {
			out += part.Text
		}
	}
	return out
}

// Rebuild reconstructs a message from its persisted role and text.
func Rebuild(role, text string) *ai.Message {
	if role == string(ai.RoleUser) {
		return ai.NewUserMessage(ai.NewTextPart(text))
	}
	return ai.NewModelMessage(ai.NewTextPart(text))
}
