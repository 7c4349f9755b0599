// Package lobbynotifier publishes lobby notifications to the event bus for
// the chat frontend to render.
package lobbynotifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	lobbyservice "github.com/brett-phillips/ELO/app/modules/lobby/application"
	lobbyevents "github.com/brett-phillips/ELO/app/modules/lobby/domain/events"
	"github.com/brett-phillips/ELO/app/shared/observability/attr"
	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
	"github.com/google/uuid"
)

// Publisher implements lobbyservice.Notifier on top of a Watermill publisher.
type Publisher struct {
	publisher message.Publisher
	logger    *slog.Logger
}

// New creates a Publisher.
func New(publisher message.Publisher, logger *slog.Logger) *Publisher {
	return &Publisher{publisher: publisher, logger: logger}
}

var _ lobbyservice.Notifier = (*Publisher)(nil)

// Notify publishes n on the topic for its kind.
func (p *Publisher) Notify(ctx context.Context, n sharedtypes.Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	msg := message.NewMessage(uuid.NewString(), body)
	msg.SetContext(ctx)
	if id := attr.ExtractCorrelationID(ctx).Value.String(); id != "" {
		middleware.SetCorrelationID(id, msg)
	}
	msg.Metadata.Set("guild_id", string(n.GuildID))
	msg.Metadata.Set("channel_id", string(n.ChannelID))
	if n.UserID != "" {
		msg.Metadata.Set("user_id", string(n.UserID))
	}

	topic := lobbyevents.NotificationTopic(n.Kind)
	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish notification to %s: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "Notification published",
		attr.String("topic", topic),
		attr.String("message_id", msg.UUID),
		attr.ChannelID(n.ChannelID),
	)
	return nil
}
