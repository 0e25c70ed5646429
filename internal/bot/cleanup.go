package bot

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// messageDeleter is the slice of the Telegram API the cleanup needs.
type messageDeleter interface {
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// CleanupResult reports what a chat sweep achieved. Failed counts message
// IDs Telegram refused to delete: gaps in the ID sequence, messages older
// than 48 hours, or messages the bot cannot touch.
type CleanupResult struct {
	Deleted int
	Failed  int
}

// deleteRecentMessages deletes up to span messages, walking message IDs
// downward from fromID. The walk is paced by delay and stops early when the
// context is canceled.
func deleteRecentMessages(ctx context.Context, api messageDeleter, chatID int64, fromID, span int, delay time.Duration) CleanupResult {
	var result CleanupResult
	for id := fromID; id > fromID-span && id > 0; id-- {
		select {
		case <-ctx.Done():
			return result
		default:
		}

		if _, err := api.Request(tgbotapi.NewDeleteMessage(chatID, id)); err != nil {
			result.Failed++
		} else {
			result.Deleted++
		}

		if delay > 0 {
			select {
			case <-ctx.Done():
				return result
			case <-time.After(delay):
			}
		}
	}
	return result
}
