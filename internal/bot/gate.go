package bot

import (
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// statuses that count as belonging to the corporate chat.
var memberStatuses = map[string]bool{
	"creator":       true,
	"administrator": true,
	"member":        true,
}

// memberChecker is the slice of the Telegram API the gate needs.
type memberChecker interface {
	GetChatMember(config tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error)
}

// AccessGate admits only members of a configured chat. The /help command is
// exempt so that locked-out users can read how to get access. A lookup
// failure denies: the gate fails closed.
type AccessGate struct {
	checker memberChecker
	// Exactly one of chatID / chatUsername is set when the gate is enabled.
	chatID       int64
	chatUsername string
	enabled      bool
	logger       *zap.Logger
}

// NewAccessGate builds a gate for the given chat reference, either a numeric
// chat ID or an @username. An empty reference disables the gate entirely.
func NewAccessGate(checker memberChecker, chatRef string, logger *zap.Logger) *AccessGate {
	if logger == nil {
		logger = zap.NewNop()
	}
	gate := &AccessGate{checker: checker, logger: logger}

	chatRef = strings.TrimSpace(chatRef)
	if chatRef == "" {
		return gate
	}

	gate.enabled = true
	if strings.HasPrefix(chatRef, "@") {
		gate.chatUsername = chatRef
		return gate
	}
	id, err := strconv.ParseInt(chatRef, 10, 64)
	if err != nil {
		// A reference that is neither numeric nor @username cannot be
		// checked, so nobody would pass. Treat it as a username and let
		// Telegram reject it, keeping the deny-by-default behavior.
		logger.Warn("Unparseable corporate chat reference", zap.String("chat", chatRef))
		gate.chatUsername = chatRef
		return gate
	}
	gate.chatID = id
	return gate
}

// Allow reports whether the user may interact with the bot. text is the raw
// message text, used for the /help exemption.
func (g *AccessGate) Allow(userID int64, text string) bool {
	if !g.enabled {
		return true
	}
	if strings.HasPrefix(text, "/help") {
		return true
	}

	member, err := g.checker.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID:             g.chatID,
			SuperGroupUsername: g.chatUsername,
			UserID:             userID,
		},
	})
	if err != nil {
		g.logger.Warn("Membership lookup failed, denying access",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return false
	}

	return memberStatuses[member.Status]
}
