// Package notify delivers reminders through configured channels. The core
// never schedules OS notifications itself; the monitor computes due times
// and hands them here.
package notify

import (
	"context"

	"go.uber.org/zap"
)

// Notifier delivers a single user-facing message.
type Notifier interface {
	Send(ctx context.Context, title, body string) error
}

// LogNotifier writes notifications to the application log. It is the
// default channel and the fallback when no external channel is configured.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(ctx context.Context, title, body string) error {
	n.logger.Info("notification",
		zap.String("title", title),
		zap.String("body", body),
	)
	return nil
}

// Multi fans a notification out to several channels. Delivery is
// best-effort: one failing channel does not stop the others.
type Multi struct {
	channels []Notifier
	logger   *zap.Logger
}

func NewMulti(logger *zap.Logger, channels ...Notifier) *Multi {
	return &Multi{channels: channels, logger: logger}
}

func (m *Multi) Send(ctx context.Context, title, body string) error {
	for _, ch := range m.channels {
		if err := ch.Send(ctx, title, body); err != nil {
			m.logger.Warn("notification channel failed", zap.Error(err))
		}
	}
	return nil
}
