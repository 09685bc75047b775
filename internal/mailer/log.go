package mailer

import (
	"context"

	"go.uber.org/zap"
)

// Log writes messages to the logger instead of sending them. Used when no
// transport is configured.
type Log struct {
	logger *zap.Logger
}

func NewLog(logger *zap.Logger) *Log {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{logger: logger}
}

func (l *Log) Send(_ context.Context, msg Message) error {
	l.logger.Info("email not sent, transport is log",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("kind", msg.Kind),
		zap.Int("bytes", len(msg.HTML)),
	)
	return nil
}

func (l *Log) Close() error { return nil }
