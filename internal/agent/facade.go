// Package agent binds the model runtime, the tool adapters and the
// conversation checkpoints into a single synchronous Invoke call.
package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"bookbot/internal/checkpoint"
	"bookbot/internal/session"
)

const (
	defaultMaxTurns      = 10
	defaultMaxConcurrent = 4
)

const defaultSystemPrompt = `You are a helpful assistant that finds books for the user.
Work out what the user wants, ask follow-up questions when the request is missing
details such as genre, author or title, and use your tools to search.
When you present a book, give everything you found about it at once, including
purchase links. If the user names a specific book, combine the universal search
with the purchase link search in the same reply.
Answer in the language the user writes in.`

const corporateSystemPrompt = `You are the assistant of the corporate book library.
You only recommend books that are actually in the library. Use your tools to see
which categories and books exist before answering. Always tell the user whether
a book is available or reserved, and give the library link for every book you
mention. If the library has nothing suitable, say so plainly.
Answer in the language the user writes in.`

// Invoker is the surface the message router depends on.
type Invoker interface {
	Invoke(ctx context.Context, threadID string, variant session.Variant, text string) (string, error)
}

// Facade drives one model invocation per user message: load the thread
// history, run the model with the variant's tools, checkpoint the exchange.
type Facade struct {
	g         *genkit.Genkit
	store     checkpoint.Store
	tools     *Toolset
	modelName string
	maxTurns  int
	sem       *semaphore.Weighted
	logger    *zap.Logger
}

// Config carries the Facade dependencies.
type Config struct {
	Genkit    *genkit.Genkit
	Store     checkpoint.Store
	Tools     *Toolset
	ModelName string
	// MaxTurns bounds the tool-call loop within one invocation.
	MaxTurns int
	// MaxConcurrent bounds in-flight invocations across all users.
	MaxConcurrent int64
	Logger        *zap.Logger
}

// New creates the agent facade.
func New(cfg Config) (*Facade, error) {
	if cfg.Genkit == nil {
		return nil, errors.New("agent: genkit instance is required")
	}
	if cfg.Store == nil {
		return nil, errors.New("agent: checkpoint store is required")
	}
	if cfg.Tools == nil {
		return nil, errors.New("agent: toolset is required")
	}
	if cfg.ModelName == "" {
		return nil, errors.New("agent: model name is required")
	}
	if cfg.MaxTurns <= 0 {
		cfg.MaxTurns = defaultMaxTurns
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = defaultMaxConcurrent
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Facade{
		g:         cfg.Genkit,
		store:     cfg.Store,
		tools:     cfg.Tools,
		modelName: cfg.ModelName,
		maxTurns:  cfg.MaxTurns,
		sem:       semaphore.NewWeighted(cfg.MaxConcurrent),
		logger:    cfg.Logger,
	}, nil
}

// Invoke runs one exchange on the given thread and returns the model's final
// text. The user message and the reply are checkpointed only after the model
// call succeeds, so a failed invocation leaves the thread history untouched.
func (f *Facade) Invoke(ctx context.Context, threadID string, variant session.Variant, text string) (string, error) {
	if err := f.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("failed to acquire invocation slot: %w", err)
	}
	defer f.sem.Release(1)

	invocationID := uuid.NewString()
	f.logger.Info("agent invocation started",
		zap.String("invocation_id", invocationID),
		zap.String("thread_id", threadID),
		zap.String("variant", string(variant)),
	)

	history, err := f.store.History(ctx, threadID)
	if err != nil {
		return "", fmt.Errorf("failed to load thread history: %w", err)
	}

	userMessage := ai.NewUserMessage(ai.NewTextPart(text))
	messages := make([]*ai.Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, userMessage)

	resp, err := genkit.Generate(ctx, f.g,
		ai.WithModelName(f.modelName),
		ai.WithSystem(systemPrompt(variant)),
		ai.WithMessages(messages...),
		ai.WithTools(f.tools.Refs(variant)...),
		ai.WithMaxTurns(f.maxTurns),
	)
	if err != nil {
		f.logger.Error("agent invocation failed",
			zap.String("invocation_id", invocationID),
			zap.String("thread_id", threadID),
			zap.Error(err),
		)
		return "", fmt.Errorf("model invocation failed: %w", err)
	}

	reply := resp.Text()
	if reply == "" {
		reply = "I could not come up with an answer, please try rephrasing."
	}

	exchange := []*ai.Message{userMessage, ai.NewModelMessage(ai.NewTextPart(reply))}
	if err := f.store.AppendMessages(ctx, threadID, exchange); err != nil {
		return "", fmt.Errorf("failed to checkpoint exchange: %w", err)
	}

	f.logger.Info("agent invocation finished",
		zap.String("invocation_id", invocationID),
		zap.String("thread_id", threadID),
		zap.Int("history_len", len(history)),
	)
	return reply, nil
}

func systemPrompt(variant session.Variant) string {
	if variant == session.VariantCorporate {
		return corporateSystemPrompt
	}
	return defaultSystemPrompt
}
