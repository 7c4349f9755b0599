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
	nc "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// TopicMetadataKey names the metadata entry that overrides the publish
// topic. Handlers registered with an empty publish topic rely on it.
const TopicMetadataKey = "topic"

// ErrNoTopic is returned when neither the caller nor the message names a topic.
var ErrNoTopic = errors.New("eventbus: message has no topic")

// EventBus is a Watermill publisher and subscriber pair that routes each
// published message to the topic in its metadata.
type EventBus interface {
	message.Publisher
	message.Subscriber
	// Ping reports whether the broker connection is usable.
	Ping(ctx context.Context) error
}

type eventBus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	natsConn   *nc.Conn
	logger     *slog.Logger
}

// New wraps an existing publisher and subscriber. Tests pass a gochannel
// pub/sub here.
func New(publisher message.Publisher, subscriber message.Subscriber, logger *slog.Logger) EventBus {
	return &eventBus{publisher: publisher, subscriber: subscriber, logger: logger}
}

// NewNATS connects to NATS JetStream and ensures the module streams exist.
func NewNATS(ctx context.Context, natsURL string, logger *slog.Logger) (EventBus, error) {
	natsOpts := []nc.Option{
		nc.RetryOnFailedConnect(true),
		nc.MaxReconnects(-1),
		nc.ReconnectWait(2 * time.Second),
	}

	natsConn, err := nc.Connect(natsURL, natsOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(natsConn)
	if err != nil {
		natsConn.Close()
		return nil, fmt.Errorf("failed to initialize JetStream: %w", err)
	}
	if err := EnsureStreams(ctx, js, logger); err != nil {
		natsConn.Close()
		return nil, err
	}

	watermillLogger := watermill.NewSlogLogger(logger)
	marshaler := &nats.NATSMarshaler{}
	jsConfig := nats.JetStreamConfig{
		Disabled:      false,
		AutoProvision: false,
		TrackMsgId:    true,
	}

	publisher, err := nats.NewPublisher(nats.PublisherConfig{
		URL:         natsURL,
		NatsOptions: natsOpts,
		Marshaler:   marshaler,
		JetStream:   jsConfig,
	}, watermillLogger)
	if err != nil {
		natsConn.Close()
		return nil, fmt.Errorf("failed to create Watermill publisher: %w", err)
	}

	subscriber, err := nats.NewSubscriber(nats.SubscriberConfig{
		URL:              natsURL,
		SubscribersCount: 1,
		AckWaitTimeout:   30 * time.Second,
		CloseTimeout:     30 * time.Second,
		NatsOptions:      natsOpts,
		Unmarshaler:      marshaler,
		JetStream:        jsConfig,
	}, watermillLogger)
	if err != nil {
		natsConn.Close()
		_ = publisher.Close()
		return nil, fmt.Errorf("failed to create Watermill subscriber: %w", err)
	}

	return &eventBus{
		publisher:  publisher,
		subscriber: subscriber,
		natsConn:   natsConn,
		logger:     logger,
	}, nil
}

// Publish sends each message to its metadata topic, falling back to topic.
func (eb *eventBus) Publish(topic string, messages ...*message.Message) error {
	for _, msg := range messages {
		if msg.UUID == "" {
			msg.UUID = watermill.NewUUID()
		}
		target := msg.Metadata.Get(TopicMetadataKey)
		if target == "" {
			target = topic
		}
		if target == "" {
			return fmt.Errorf("%w: message %s", ErrNoTopic, msg.UUID)
		}

		eb.logger.Debug("Publishing message",
			slog.String("topic", target),
			slog.String("message_id", msg.UUID),
		)
		if err := eb.publisher.Publish(target, msg); err != nil {
			return fmt.Errorf("failed to publish to %s: %w", target, err)
		}
	}
	return nil
}

func (eb *eventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	messages, err := eb.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}
	eb.logger.Info("Subscription started", slog.String("topic", topic))
	return messages, nil
}

func (eb *eventBus) Ping(ctx context.Context) error {
	if eb.natsConn == nil {
		return nil
	}
	if !eb.natsConn.IsConnected() {
		return fmt.Errorf("nats connection is %s", eb.natsConn.Status())
	}
	timeout := 2 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	return eb.natsConn.FlushTimeout(timeout)
}

// Close closes the publisher, the subscriber and the NATS connection.
func (eb *eventBus) Close() error {
	var errs []error
	if eb.publisher != nil {
		if err := eb.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close publisher: %w", err))
		}
	}
	if eb.subscriber != nil {
		if err := eb.subscriber.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close subscriber: %w", err))
		}
	}
	if eb.natsConn != nil {
		eb.natsConn.Close()
	}
	return errors.Join(errs...)
}
