package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tg-otp-service/internal/telegram"
)

var webhookURL string

var webhookCmd = &cobra.Command{
	Use:   "webhook",
	Short: "Manage the Telegram bot webhook",
}

var webhookSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Point the bot webhook at this service (BASE_URL/webhook by default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		defer log.Sync() //nolint:errcheck

		target := webhookURL
		if target == "" {
			target = cfg.WebhookURL()
		}

		bot, err := telegram.NewClient(cfg.BotToken, cfg.TelegramAPIURL, cfg.HTTPTimeout)
		if err != nil {
			return err
		}
		if err := bot.SetWebhook(context.Background(), target, cfg.WebhookSecret); err != nil {
			return fmt.Errorf("set webhook: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Webhook set to %s\n", target)
		return nil
	},
}

var webhookDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the bot webhook",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		defer log.Sync() //nolint:errcheck

		bot, err := telegram.NewClient(cfg.BotToken, cfg.TelegramAPIURL, cfg.HTTPTimeout)
		if err != nil {
			return err
		}
		if err := bot.DeleteWebhook(context.Background()); err != nil {
			return fmt.Errorf("delete webhook: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Webhook deleted")
		return nil
	},
}

func init() {
	webhookSetCmd.Flags().StringVar(&webhookURL, "url", "", "Webhook URL (default BASE_URL/webhook)")
	webhookCmd.AddCommand(webhookSetCmd, webhookDeleteCmd)
	rootCmd.AddCommand(webhookCmd)
}
