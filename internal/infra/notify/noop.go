package notify

import (
	"context"
	"log/slog"

	"github.com/yanqian/aqi-advisor/internal/domain/advisor"
)

// LogDispatcher records would-be SMS sends without delivering them. Used when
// notification is disabled or no dispatcher is configured.
type LogDispatcher struct {
	logger *slog.Logger
}

// NewLogDispatcher builds the logging stand-in.
func NewLogDispatcher(logger *slog.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger.With("component", "notify.log")}
}

// Send logs the message instead of dispatching it.
func (d *LogDispatcher) Send(_ context.Context, phone, message string) error {
	d.logger.Info("sms suppressed", "phone", phone, "message", message)
	return nil
}

var _ advisor.Notifier = (*LogDispatcher)(nil)
