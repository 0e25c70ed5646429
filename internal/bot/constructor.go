package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"bookbot/internal/agent"
	"bookbot/internal/session"
)

// NewBot creates a new Telegram bot. corporateChat is the chat users must be
// a member of to pass the access gate; an empty value disables the gate.
func NewBot(token string, sessions *session.Manager, invoker agent.Invoker, corporateChat string, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		logger.Error("Failed to create bot API", zap.Error(err))
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	logger.Info("Bot created", zap.String("bot_username", api.Self.UserName))

	return &Bot{
		api:          api,
		sessions:     sessions,
		agent:        invoker,
		gate:         NewAccessGate(api, corporateChat, logger),
		logger:       logger,
		pendingClear: make(map[int64]bool),
	}, nil
}

// GetAPI returns the bot API for testing
func (b *Bot) GetAPI() *tgbotapi.BotAPI {
	return b.api
}
