package delivery

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// AppConfig - options of the HTTP application
type AppConfig struct {
	CORSOrigins string
	AccessLog   bool
}

// NewApp wires middleware and routes.
func NewApp(cfg AppConfig, loginHandler *LoginHandler, webhookHandler *WebhookHandler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "tg-otp-service",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	// Middleware
	if cfg.AccessLog {
		app.Use(logger.New())
	}
	app.Use(recover.New())

	origins := cfg.CORSOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,OPTIONS",
	}))

	app.Get("/", loginHandler.Index)
	app.Get("/healthz", loginHandler.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Browser handshake
	// 1. GET /otp/:chat        - send OTP to the chat
	// 2. GET /otp/:chat/:code  - verify OTP and record the login
	app.Get("/otp/:chat", loginHandler.SendOTP)
	app.Get("/otp/:chat/:code", loginHandler.VerifyOTP)

	// Telegram bot commands
	app.Post("/webhook", webhookHandler.HandleUpdate)

	return app
}
