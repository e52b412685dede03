package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tg-otp-service/internal/delivery"
	"tg-otp-service/internal/service"
	"tg-otp-service/internal/telegram"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server (browser handshake and bot webhook)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		defer log.Sync() //nolint:errcheck

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		dir, closeDirectory, err := openDirectory(ctx, cfg, log)
		if err != nil {
			log.Error("failed to open login directory", zap.Error(err))
			return err
		}
		defer closeDirectory()

		bot, err := telegram.NewClient(cfg.BotToken, cfg.TelegramAPIURL, cfg.HTTPTimeout)
		if err != nil {
			return err
		}
		otpStore := service.NewOTPStore()

		if cfg.SweepInterval > 0 {
			sweeper, err := service.StartSweeper(otpStore, cfg.SweepInterval, log)
			if err != nil {
				return err
			}
			defer func() {
				if err := sweeper.Stop(); err != nil {
					log.Warn("failed to stop OTP sweeper", zap.Error(err))
				}
			}()
		}

		loginService := service.NewLoginService(otpStore, bot, dir, log)
		router := service.NewCommandRouter(otpStore, dir, bot, cfg.BaseURL, log)

		app := delivery.NewApp(
			delivery.AppConfig{CORSOrigins: cfg.CORSOrigins, AccessLog: true},
			delivery.NewLoginHandler(loginService, log),
			delivery.NewWebhookHandler(router, cfg.WebhookSecret, log),
		)

		errCh := make(chan error, 1)
		go func() {
			log.Info("HTTP server listening",
				zap.String("addr", cfg.ListenAddr()),
				zap.String("base_url", cfg.BaseURL),
			)
			errCh <- app.Listen(cfg.ListenAddr())
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		log.Info("shutting down...")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil && !errors.Is(err, context.Canceled) {
			log.Warn("graceful shutdown failed", zap.Error(err))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
