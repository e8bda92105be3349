package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/pillguard/pillguard/internal/config"
	apperrors "github.com/pillguard/pillguard/internal/errors"
)

// TelegramNotifier pushes reminders to a single Telegram chat.
type TelegramNotifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger
}

func NewTelegramNotifier(cfg config.TelegramConfig, logger *zap.Logger) (*TelegramNotifier, error) {
	if cfg.BotToken == "" || cfg.ChatID == 0 {
		return nil, apperrors.ErrChannelNotConfigured
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, apperrors.Wrap(err, "CHAN_002", "failed to create telegram bot")
	}

	logger.Info("Telegram notifier ready", zap.String("bot", api.Self.UserName))

	return &TelegramNotifier{
		api:    api,
		chatID: cfg.ChatID,
		logger: logger,
	}, nil
}

func (n *TelegramNotifier) Send(ctx context.Context, title, body string) error {
	msg := tgbotapi.NewMessage(n.chatID, fmt.Sprintf("*%s*\n%s", title, body))
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := n.api.Send(msg); err != nil {
		return apperrors.Wrap(err, "CHAN_002", "failed to send telegram message")
	}
	return nil
}
