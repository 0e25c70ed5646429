package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// reply sends plain text to a chat. A nil api means the bot is under test
// and the send is skipped.
func (b *Bot) reply(chatID int64, text string) {
	if b.api == nil {
		return // For testing
	}
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// replyMarkdown sends Markdown-formatted text, falling back to plain text
// when Telegram rejects the markup. Model output regularly contains
// characters that break Markdown parsing.
func (b *Bot) replyMarkdown(chatID int64, text string) {
	if b.api == nil {
		return // For testing
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Debug("Markdown send failed, retrying as plain text", zap.Error(err))
		b.reply(chatID, text)
	}
}

func (b *Bot) replyWithMarkup(chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) {
	if b.api == nil {
		return // For testing
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message with markup", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// sendTyping shows the "typing..." indicator while the agent thinks.
func (b *Bot) sendTyping(chatID int64) {
	if b.api == nil {
		return // For testing
	}
	if _, err := b.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		b.logger.Debug("Failed to send typing action", zap.Error(err))
	}
}
