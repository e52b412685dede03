package delivery

import (
	"crypto/subtle"

	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"tg-otp-service/internal/domain"
	"tg-otp-service/internal/service"
	"tg-otp-service/internal/telegram"

	"github.com/gofiber/fiber/v2"
)

// SecretTokenHeader - header Telegram sets to the secret_token given to setWebhook
const SecretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// WebhookHandler receives bot updates from Telegram
type WebhookHandler struct {
	router *service.CommandRouter
	secret string
	logger *zap.Logger
}

// NewWebhookHandler creates a new webhook handler. An empty secret disables the header check.
func NewWebhookHandler(router *service.CommandRouter, secret string, logger *zap.Logger) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{
		router: router,
		secret: secret,
		logger: logger,
	}
}

// HandleUpdate processes one update. Every update coming from Telegram is
// acknowledged with 200, whatever happens while processing it, so Telegram
// never redelivers it.
// POST /webhook
func (h *WebhookHandler) HandleUpdate(c *fiber.Ctx) error {
	// A request without the configured secret is not a Telegram update, so it is not acknowledged.
	if h.secret != "" && subtle.ConstantTimeCompare([]byte(c.Get(SecretTokenHeader)), []byte(h.secret)) != 1 {
		h.logger.Warn("webhook call with invalid secret token", zap.String("ip", c.IP()))
		return respondUnauthorized(c, "invalid secret token")
	}

	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("panic while processing update", zap.Any("recover", r))
			_ = c.Status(fiber.StatusOK).SendString(domain.WebhookAck)
		}
	}()

	var update models.Update
	if err := c.BodyParser(&update); err != nil {
		h.logger.Warn("failed to parse webhook update", zap.Error(err))
		return h.ack(c)
	}

	chat, text, ok := telegram.CommandFromUpdate(&update)
	if !ok {
		h.logger.Debug("update without command ignored", zap.Int64("update_id", update.ID))
		return h.ack(c)
	}

	command := h.router.Dispatch(c.UserContext(), chat, text)
	h.logger.Info("bot command handled",
		zap.Int64("update_id", update.ID),
		zap.String("chat_id", chat.ChatID()),
		zap.String("command", string(command)),
	)

	return h.ack(c)
}

func (h *WebhookHandler) ack(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).SendString(domain.WebhookAck)
}
