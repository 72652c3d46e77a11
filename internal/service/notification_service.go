package service

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/account-registry/internal/config"
	"github.com/spec-kit/account-registry/internal/events"
)

// Publisher forwards serialized events to other services. persistence.Redis
// implements it.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// NotificationService logs domain events and forwards them to a channel.
type NotificationService struct {
	dispatcher events.Dispatcher
	publisher  Publisher
	logger     *zap.Logger
	cfg        config.EventsConfig
}

// NewNotificationService creates the service. publisher may be nil, in which
// case events are only logged.
func NewNotificationService(dispatcher events.Dispatcher, publisher Publisher, logger *zap.Logger, cfg config.EventsConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		publisher:  publisher,
		logger:     loggerOrNop(logger),
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, eventType := range events.AllTypes {
		n.dispatcher.Subscribe(eventType, n.handle)
	}
}

func (n *NotificationService) handle(ctx context.Context, event events.Event) error {
	n.logger.Info("domain event",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("subject_kind", event.Subject.Kind),
		zap.Int64("subject_id", event.Subject.ID))
	return n.forward(ctx, event)
}

func (n *NotificationService) forward(ctx context.Context, event events.Event) error {
	if n.publisher == nil || strings.TrimSpace(n.cfg.Channel) == "" {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := n.publisher.Publish(ctx, n.cfg.Channel, payload); err != nil {
		return err
	}
	n.logger.Debug("event forwarded",
		zap.String("channel", n.cfg.Channel),
		zap.String("event_id", event.ID))
	return nil
}
