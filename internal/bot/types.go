package bot

import (
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"bookbot/internal/agent"
	"bookbot/internal/session"
)

// Bot routes Telegram updates to the agent facade and keeps the per-user
// chat session bookkeeping.
type Bot struct {
	api      *tgbotapi.BotAPI
	sessions *session.Manager
	agent    agent.Invoker
	gate     *AccessGate
	logger   *zap.Logger

	// pendingClear marks users who asked to wipe the chat and have not
	// confirmed or declined yet.
	pendingClear   map[int64]bool
	pendingClearMu sync.Mutex
}
