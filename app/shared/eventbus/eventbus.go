package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	nc "github.com/nats-io/nats.go"
)

// EventBus publishes and subscribes to module topics.
type EventBus interface {
	message.Publisher
	message.Subscriber
}

// Config selects the transport. An empty URL yields an in-process bus.
type Config struct {
	URL              string
	QueueGroupPrefix string
	SubscribersCount int
	AckWaitTimeout   time.Duration
}

type eventBus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	logger     *slog.Logger
}

// NewEventBus creates an EventBus backed by NATS, or by an in-memory Go channel
// pub/sub when no NATS URL is configured.
func NewEventBus(_ context.Context, cfg Config, logger *slog.Logger) (EventBus, error) {
	wmLogger := watermill.NewSlogLogger(logger)

	if cfg.URL == "" {
		logger.Warn("No NATS URL configured, using in-process event bus")
		pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 256}, wmLogger)
		return &eventBus{publisher: pubSub, subscriber: pubSub, logger: logger}, nil
	}

	if cfg.SubscribersCount <= 0 {
		cfg.SubscribersCount = 1
	}
	if cfg.AckWaitTimeout <= 0 {
		cfg.AckWaitTimeout = 30 * time.Second
	}

	marshaler := &nats.NATSMarshaler{}
	natsOptions := []nc.Option{
		nc.RetryOnFailedConnect(true),
		nc.Timeout(30 * time.Second),
		nc.ReconnectWait(time.Second),
	}

	publisher, err := nats.NewPublisher(
		nats.PublisherConfig{
			URL:         cfg.URL,
			Marshaler:   marshaler,
			NatsOptions: natsOptions,
			JetStream:   nats.JetStreamConfig{Disabled: true},
		},
		wmLogger,
	)
	if err != nil {
		logger.Error("Failed to create NATS publisher", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create NATS publisher: %w", err)
	}

	subscriber, err := nats.NewSubscriber(
		nats.SubscriberConfig{
			URL:              cfg.URL,
			QueueGroupPrefix: cfg.QueueGroupPrefix,
			SubscribersCount: cfg.SubscribersCount,
			AckWaitTimeout:   cfg.AckWaitTimeout,
			CloseTimeout:     30 * time.Second,
			Unmarshaler:      marshaler,
			NatsOptions:      natsOptions,
			JetStream:        nats.JetStreamConfig{Disabled: true},
		},
		wmLogger,
	)
	if err != nil {
		publisher.Close()
		logger.Error("Failed to create NATS subscriber", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create NATS subscriber: %w", err)
	}

	logger.Info("NATS event bus connected", slog.String("url", cfg.URL))
	return &eventBus{publisher: publisher, subscriber: subscriber, logger: logger}, nil
}

func (eb *eventBus) Publish(topic string, messages ...*message.Message) error {
	for _, msg := range messages {
		if msg.UUID == "" {
			msg.UUID = watermill.NewUUID()
		}
		eb.logger.Debug("Publishing message",
			slog.String("topic", topic),
			slog.String("message_uuid", msg.UUID),
		)
	}
	return eb.publisher.Publish(topic, messages...)
}

func (eb *eventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	eb.logger.Info("Subscribing to topic", slog.String("topic", topic))
	return eb.subscriber.Subscribe(ctx, topic)
}

// Close closes both sides of the bus. For the in-process bus they are the
// same value, so it is closed once.
func (eb *eventBus) Close() error {
	var errs []error
	if err := eb.publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("publisher: %w", err))
	}
	if closer, ok := eb.subscriber.(message.Publisher); !ok || closer != eb.publisher {
		if err := eb.subscriber.Close(); err != nil {
			errs = append(errs, fmt.Errorf("subscriber: %w", err))
		}
	}
	return errors.Join(errs...)
}
