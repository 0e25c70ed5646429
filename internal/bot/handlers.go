package bot

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// handleMessage processes a single message
func (b *Bot) handleMessage(message *tgbotapi.Message) {
	// Recover from panics to prevent bot crashes
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic in handleMessage", zap.Any("panic", r))
			b.reply(message.Chat.ID, errorText)
		}
	}()

	if message.IsCommand() {
		switch message.Command() {
		case "start":
			b.handleStart(message)
		case "help":
			b.handleHelp(message)
		case "new":
			b.handleNew(message)
		case "sber_new":
			b.handleCorporateNew(message)
		case "clear":
			b.handleClear(message)
		default:
			b.reply(message.Chat.ID, unknownCommandText)
		}
		return
	}

	// Non-text updates (stickers, photos) carry no query for the agent.
	if message.Text == "" {
		return
	}
	b.handleText(message)
}

// handleText runs one agent exchange for a free-form user message.
func (b *Bot) handleText(message *tgbotapi.Message) {
	userID := message.From.ID
	chatID := message.Chat.ID

	sess, started := b.sessions.Ensure(userID, message.MessageID, message.Time())
	if started {
		b.reply(chatID, newSessionText)
	} else {
		b.sessions.Touch(userID, message.MessageID)
	}

	b.sendTyping(chatID)

	reply, err := b.agent.Invoke(context.Background(), sess.ThreadID, sess.Variant, message.Text)
	if err != nil {
		b.logger.Error("Agent invocation failed",
			zap.Int64("user_id", userID),
			zap.String("thread_id", sess.ThreadID),
			zap.Error(err),
		)
		// Rotate the thread so the next message starts clean instead of
		// replaying whatever state caused the failure.
		b.sessions.Rotate(userID, time.Now())
		b.reply(chatID, errorText)
		return
	}

	b.replyMarkdown(chatID, reply)
}

// handleCallbackQuery processes inline keyboard button clicks
func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic in handleCallbackQuery", zap.Any("panic", r))
		}
	}()

	// Answer the callback query to remove loading state
	if b.api != nil {
		b.api.Request(tgbotapi.NewCallback(query.ID, ""))
	}

	switch query.Data {
	case clearConfirmData:
		b.handleClearConfirmed(query)
	case clearCancelData:
		b.handleClearCanceled(query)
	default:
		b.logger.Debug("Ignoring unknown callback", zap.String("data", query.Data))
	}
}
