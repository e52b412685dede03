// Package telegram adapts the go-telegram Bot API SDK to the login service:
// outbound messages, chat lookups and webhook registration.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"tg-otp-service/internal/domain"
)

const (
	DefaultAPIURL  = "https://api.telegram.org"
	defaultTimeout = 10 * time.Second
)

// AllowedUpdates - update kinds requested from Telegram
var AllowedUpdates = []string{"message", "edited_message"}

// Client sends requests on behalf of one bot.
type Client struct {
	bot   *bot.Bot
	token string
}

// NewClient returns a client for the bot identified by token. No request is
// made until the first call.
func NewClient(token, apiURL string, timeout time.Duration) (*Client, error) {
	if token == "" {
		return nil, errors.New("telegram: bot token is required")
	}
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	b, err := bot.New(token,
		bot.WithSkipGetMe(),
		bot.WithServerURL(strings.TrimRight(apiURL, "/")),
		bot.WithHTTPClient(timeout, &http.Client{Timeout: timeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("telegram: %s", redact(err, token))
	}
	return &Client{bot: b, token: token}, nil
}

// SendMessage sends a plain text message to chatID.
func (c *Client) SendMessage(ctx context.Context, chatID, text string) error {
	_, err := c.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	return c.wrap("sendMessage", err)
}

// GetChat fetches the current metadata of chatID.
func (c *Client) GetChat(ctx context.Context, chatID string) (domain.Chat, error) {
	info, err := c.bot.GetChat(ctx, &bot.GetChatParams{ChatID: chatID})
	if err != nil {
		return domain.Chat{}, c.wrap("getChat", err)
	}
	return domain.Chat{
		ID:        info.ID,
		Type:      string(info.Type),
		Username:  info.Username,
		FirstName: info.FirstName,
	}, nil
}

// SetWebhook points the bot's webhook at webhookURL. secret may be empty.
func (c *Client) SetWebhook(ctx context.Context, webhookURL, secret string) error {
	_, err := c.bot.SetWebhook(ctx, &bot.SetWebhookParams{
		URL:            webhookURL,
		SecretToken:    secret,
		AllowedUpdates: AllowedUpdates,
	})
	return c.wrap("setWebhook", err)
}

// DeleteWebhook removes the bot's webhook.
func (c *Client) DeleteWebhook(ctx context.Context) error {
	_, err := c.bot.DeleteWebhook(ctx, &bot.DeleteWebhookParams{})
	return c.wrap("deleteWebhook", err)
}

// wrap classifies err as a transport failure. The SDK embeds the request URL,
// and with it the token, in some errors, so the text is redacted and the
// original error is not kept in the chain.
func (c *Client) wrap(method string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %s", domain.ErrTransport, method, redact(err, c.token))
}

// CommandFromUpdate returns the chat and trimmed text of an update carrying a
// message or an edited message. Updates without a chat or text are ignored.
func CommandFromUpdate(u *models.Update) (domain.Chat, string, bool) {
	if u == nil {
		return domain.Chat{}, "", false
	}
	msg := u.Message
	if msg == nil {
		msg = u.EditedMessage
	}
	if msg == nil {
		return domain.Chat{}, "", false
	}

	text := strings.TrimSpace(msg.Text)
	if msg.Chat.ID == 0 || text == "" {
		return domain.Chat{}, "", false
	}
	return domain.Chat{
		ID:        msg.Chat.ID,
		Type:      string(msg.Chat.Type),
		Username:  msg.Chat.Username,
		FirstName: msg.Chat.FirstName,
	}, text, true
}

func redact(err error, token string) string {
	if token == "" {
		return err.Error()
	}
	return strings.ReplaceAll(err.Error(), token, "<token>")
}
