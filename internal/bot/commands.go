package bot

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"bookbot/internal/session"
)

const (
	welcomeText = `Hi! I'm a book finder bot.

Tell me what you feel like reading and I'll look it up: by genre, author, title or a vague description. I can also find where to buy a book.

Commands:
/new - start a new conversation
/sber_new - talk to the corporate library assistant
/clear - delete recent messages in this chat
/help - show this help`

	helpText = `Ask me for a book in your own words: "something dystopian", "books by Le Guin", "what should I read after Dune".

/new starts a fresh conversation - I forget everything said before.
/sber_new switches to the corporate library assistant, which only recommends books our library actually has.
/clear deletes the recent messages in this chat after a confirmation.`

	newSessionText       = "Starting a new conversation. What are we reading next?"
	corporateSessionText = "You are now talking to the corporate library assistant. Ask me what the library has."
	clearConfirmText     = "Delete the recent messages in this chat? This cannot be undone."
	clearCanceledText    = "Okay, nothing was deleted."
	unknownCommandText   = "Unknown command. Use /help to see what I can do."
	deniedText           = "Sorry, this bot is only available to members of the corporate chat. Use /help to learn more."
	errorText            = "Something went wrong on my side. I've started a fresh conversation - please try again."

	clearConfirmData = "clear:yes"
	clearCancelData  = "clear:no"

	// clearSpan bounds how many message IDs below the newest one a /clear
	// sweep attempts to delete.
	clearSpan = 100

	// clearDelay paces deletion requests to stay under Telegram rate limits.
	clearDelay = 100 * time.Millisecond
)

func (b *Bot) handleStart(message *tgbotapi.Message) {
	b.sessions.Start(message.From.ID, session.VariantDefault, message.MessageID, message.Time())
	b.reply(message.Chat.ID, welcomeText)
}

func (b *Bot) handleHelp(message *tgbotapi.Message) {
	b.reply(message.Chat.ID, helpText)
}

func (b *Bot) handleNew(message *tgbotapi.Message) {
	b.sessions.Start(message.From.ID, session.VariantDefault, message.MessageID, message.Time())
	b.reply(message.Chat.ID, newSessionText)
}

func (b *Bot) handleCorporateNew(message *tgbotapi.Message) {
	b.sessions.Start(message.From.ID, session.VariantCorporate, message.MessageID, message.Time())
	b.reply(message.Chat.ID, corporateSessionText)
}

// handleClear asks for confirmation before wiping recent messages.
func (b *Bot) handleClear(message *tgbotapi.Message) {
	b.pendingClearMu.Lock()
	b.pendingClear[message.From.ID] = true
	b.pendingClearMu.Unlock()

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Yes, delete", clearConfirmData),
			tgbotapi.NewInlineKeyboardButtonData("No, keep", clearCancelData),
		),
	)
	b.replyWithMarkup(message.Chat.ID, clearConfirmText, keyboard)
}

func (b *Bot) handleClearConfirmed(query *tgbotapi.CallbackQuery) {
	userID := query.From.ID
	if !b.takePendingClear(userID) {
		return
	}
	if query.Message == nil {
		return
	}
	chatID := query.Message.Chat.ID

	var result CleanupResult
	if b.api != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		result = deleteRecentMessages(ctx, b.api, chatID, query.Message.MessageID, clearSpan, clearDelay)
	}

	// The wiped context is gone from the chat, so the thread starts over too.
	b.sessions.Rotate(userID, time.Now())

	b.logger.Info("Chat cleanup finished",
		zap.Int64("user_id", userID),
		zap.Int("deleted", result.Deleted),
		zap.Int("failed", result.Failed),
	)
	b.reply(chatID, fmt.Sprintf("Deleted %d messages (%d could not be deleted). Starting a new conversation.", result.Deleted, result.Failed))
}

func (b *Bot) handleClearCanceled(query *tgbotapi.CallbackQuery) {
	if !b.takePendingClear(query.From.ID) {
		return
	}
	if query.Message != nil {
		b.reply(query.Message.Chat.ID, clearCanceledText)
	}
}

// takePendingClear consumes the pending confirmation for the user, reporting
// whether one existed. Stray callbacks without a pending /clear are dropped.
func (b *Bot) takePendingClear(userID int64) bool {
	b.pendingClearMu.Lock()
	defer b.pendingClearMu.Unlock()
	if !b.pendingClear[userID] {
		return false
	}
	delete(b.pendingClear, userID)
	return true
}
