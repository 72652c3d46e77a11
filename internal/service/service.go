package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/account-registry/internal/events"
)

// publishEvent hands event to the dispatcher once the write has committed.
// Delivery failures are logged; they never fail the request.
func publishEvent(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("event delivery failed",
			zap.String("event_type", string(event.Type)),
			zap.Int64("subject_id", event.Subject.ID),
			zap.Error(err))
	}
}

func loggerOrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
