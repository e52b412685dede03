package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"tg-otp-service/internal/directory"
	"tg-otp-service/internal/domain"
)

// Command - bot command recognised by the router
type Command string

const (
	CommandStart    Command = "start"
	CommandIdentity Command = "chat_id"
	CommandStatus   Command = "login_status"
	CommandDelete   Command = "delete_account"
	CommandHelp     Command = "help"
)

// commandRoutes is matched in order, first prefix wins
var commandRoutes = []struct {
	prefix  string
	command Command
}{
	{"/start", CommandStart},
	{"/help", CommandStart},
	{"/chat_id", CommandIdentity},
	{"/login_status", CommandStatus},
	{"/delete_account", CommandDelete},
}

// Fixed replies
const (
	ReplyNotLoggedIn = "❌ Login status: NOT LOGGED IN\n" +
		"Use /start to get your login URL and open it in a browser."
	ReplyNoRecord   = "⚠️ No login record found for you."
	ReplyDirectory  = "⚠️ The login directory is temporarily unavailable. Please try again later."
	ReplyCommandSet = "Available commands:\n" +
		"/start - login info and URL\n" +
		"/chat_id - your chat ID and login URL\n" +
		"/login_status - check your login status\n" +
		"/delete_account - delete your login record"
)

// ParseCommand maps command text to a Command; unknown text maps to CommandHelp.
func ParseCommand(text string) Command {
	text = strings.TrimSpace(text)
	for _, route := range commandRoutes {
		if strings.HasPrefix(text, route.prefix) {
			return route.command
		}
	}
	return CommandHelp
}

// CommandRouter answers bot commands
type CommandRouter struct {
	otpStore  *OTPStore
	directory directory.Directory
	messenger Messenger
	baseURL   string
	logger    *zap.Logger
}

// NewCommandRouter creates a new router. baseURL is the public URL of this service.
func NewCommandRouter(
	otpStore *OTPStore,
	dir directory.Directory,
	messenger Messenger,
	baseURL string,
	logger *zap.Logger,
) *CommandRouter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommandRouter{
		otpStore:  otpStore,
		directory: dir,
		messenger: messenger,
		baseURL:   strings.TrimRight(baseURL, "/"),
		logger:    logger,
	}
}

// Dispatch runs the command in text for chat and sends exactly one reply.
// Reply delivery failures are logged, never returned.
func (r *CommandRouter) Dispatch(ctx context.Context, chat domain.Chat, text string) Command {
	command := ParseCommand(text)
	botCommands.WithLabelValues(string(command)).Inc()

	reply := r.reply(ctx, command, chat)

	if err := r.messenger.SendMessage(ctx, chat.ChatID(), reply); err != nil {
		r.logger.Warn("failed to send bot reply",
			zap.String("chat_id", chat.ChatID()),
			zap.String("command", string(command)),
			zap.Error(err),
		)
	}
	return command
}

func (r *CommandRouter) reply(ctx context.Context, command Command, chat domain.Chat) string {
	chatID := chat.ChatID()
	identity := domain.ResolveIdentity(chat)

	switch command {
	case CommandStart:
		return fmt.Sprintf("👋 Welcome!\n\n"+
			"Your chat ID: %s\n\n"+
			"Login steps:\n"+
			"1️⃣ Open in your browser: %s\n"+
			"2️⃣ The bot sends you an OTP\n"+
			"3️⃣ Open the OTP verify URL (the website does this for you)\n"+
			"4️⃣ You are logged in ✅", chatID, r.LoginURL(chatID))

	case CommandIdentity:
		return fmt.Sprintf("🆔 Your chat ID: %s\nLogin key: %s\n\nLogin URL: %s",
			chatID, identity, r.LoginURL(chatID))

	case CommandStatus:
		loggedIn, err := r.directory.Exists(ctx, identity)
		if err != nil {
			r.logger.Error("login status check failed", zap.String("identity", identity.String()), zap.Error(err))
			return ReplyDirectory
		}
		if loggedIn {
			return fmt.Sprintf("✅ Login status: LOGGED IN\nLogin key: %s", identity)
		}
		return ReplyNotLoggedIn

	case CommandDelete:
		deleted, err := r.directory.DeleteRecord(ctx, identity)
		if err != nil {
			r.logger.Error("account deletion failed", zap.String("identity", identity.String()), zap.Error(err))
			return ReplyDirectory
		}
		r.otpStore.Invalidate(chatID)
		if deleted > 0 {
			r.logger.Info("login records deleted", zap.String("identity", identity.String()), zap.Int("deleted", deleted))
			return fmt.Sprintf("🗑️ Login record deleted.\nLogin key: %s", identity)
		}
		return ReplyNoRecord

	default:
		return ReplyCommandSet
	}
}

// LoginURL returns the step 1 URL for chatID.
func (r *CommandRouter) LoginURL(chatID string) string {
	return r.baseURL + "/otp/" + chatID
}
