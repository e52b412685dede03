package delivery

import (
	"go.uber.org/zap"

	"tg-otp-service/internal/domain"
	"tg-otp-service/internal/service"

	"github.com/gofiber/fiber/v2"
)

// IndexText - body of GET /
const IndexText = "Telegram OTP login backend is running."

// LoginHandler serves the browser side of the OTP handshake
type LoginHandler struct {
	loginService *service.LoginService
	logger       *zap.Logger
}

// NewLoginHandler creates a new login handler
func NewLoginHandler(loginService *service.LoginService, logger *zap.Logger) *LoginHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoginHandler{
		loginService: loginService,
		logger:       logger,
	}
}

// Index - liveness text
// GET /
func (h *LoginHandler) Index(c *fiber.Ctx) error {
	return c.SendString(IndexText)
}

// Health - readiness with the number of pending OTP sessions
// GET /healthz
func (h *LoginHandler) Health(c *fiber.Ctx) error {
	return respondOK(c, domain.HealthResponse{
		Status:          "ok",
		PendingSessions: h.loginService.PendingSessions(),
	})
}

// SendOTP issues an OTP and sends it to the chat (step 1)
// GET /otp/:chat
func (h *LoginHandler) SendOTP(c *fiber.Ctx) error {
	chatID, err := domain.ParseChatID(c.Params("chat"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(domain.SendOTPResponse{
			Status:  domain.StatusError,
			Reason:  domain.ReasonOf(err),
			Details: err.Error(),
		})
	}

	if err := h.loginService.RequestOTP(c.UserContext(), chatID); err != nil {
		return c.Status(statusFor(domain.IsClientError(err))).JSON(domain.SendOTPResponse{
			Status:  domain.StatusError,
			ChatID:  chatID,
			Reason:  domain.ReasonOf(err),
			Details: err.Error(),
		})
	}

	return respondOK(c, domain.SendOTPResponse{
		Status: domain.StatusPending,
		ChatID: chatID,
	})
}

// VerifyOTP checks the OTP and records the login (step 2)
// GET /otp/:chat/:code
func (h *LoginHandler) VerifyOTP(c *fiber.Ctx) error {
	chatID, err := domain.ParseChatID(c.Params("chat"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(domain.VerifyOTPResponse{
			Login:  domain.LoginFailed,
			Reason: domain.ReasonOf(err),
		})
	}

	identity, err := h.loginService.VerifyOTP(c.UserContext(), chatID, c.Params("code"))
	if err != nil {
		return c.Status(statusFor(domain.IsClientError(err))).JSON(domain.VerifyOTPResponse{
			Login:  domain.LoginFailed,
			Reason: domain.ReasonOf(err),
		})
	}

	return respondOK(c, domain.VerifyOTPResponse{
		Login:    domain.LoginSuccessful,
		Identity: identity.String(),
	})
}
