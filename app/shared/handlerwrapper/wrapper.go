// Package handlerwrapper adapts typed domain handlers to Watermill handler
// funcs: payload decoding, tracing, metrics and result message building.
package handlerwrapper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/brett-phillips/ELO/app/eventbus"
	"github.com/brett-phillips/ELO/app/shared/observability/attr"
	"github.com/brett-phillips/ELO/app/shared/observability/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const handlerService = "handler"

// Result is one outgoing message produced by a handler.
type Result struct {
	Topic    string
	Payload  any
	Metadata map[string]string
}

// WrapTransformingTyped decodes each message into a fresh *T, runs handle,
// and turns its results into messages addressed through the topic metadata
// key. A decode failure is returned as an error so the router can nack.
func WrapTransformingTyped[T any](
	handlerName string,
	logger *slog.Logger,
	tracer trace.Tracer,
	m metrics.Metrics,
	handle func(ctx context.Context, payload *T) ([]Result, error),
) message.HandlerFunc {
	if m == nil {
		m = metrics.NoOpMetrics{}
	}
	return func(msg *message.Message) ([]*message.Message, error) {
		ctx := attr.CorrelationIDFromMetadata(msg.Context(), msg.Metadata)
		ctx, span := tracer.Start(ctx, handlerName, trace.WithAttributes(
			attribute.String("message_id", msg.UUID),
		))
		defer span.End()

		m.RecordOperationAttempt(ctx, handlerName, handlerService)
		start := time.Now()
		defer func() {
			m.RecordOperationDuration(ctx, handlerName, handlerService, time.Since(start))
		}()

		payload := new(T)
		if err := json.Unmarshal(msg.Payload, payload); err != nil {
			logger.ErrorContext(ctx, "Failed to unmarshal payload",
				attr.ExtractCorrelationID(ctx),
				attr.String("handler", handlerName),
				attr.String("message_id", msg.UUID),
				attr.Error(err),
			)
			m.RecordOperationFailure(ctx, handlerName, handlerService)
			span.RecordError(err)
			return nil, fmt.Errorf("%s: failed to unmarshal payload: %w", handlerName, err)
		}

		results, err := handle(ctx, payload)
		if err != nil {
			logger.ErrorContext(ctx, "Error in "+handlerName,
				attr.ExtractCorrelationID(ctx),
				attr.String("message_id", msg.UUID),
				attr.Error(err),
			)
			m.RecordOperationFailure(ctx, handlerName, handlerService)
			span.RecordError(err)
			return nil, err
		}

		out := make([]*message.Message, 0, len(results))
		for _, r := range results {
			resultMsg, err := NewResultMessage(msg, r)
			if err != nil {
				m.RecordOperationFailure(ctx, handlerName, handlerService)
				span.RecordError(err)
				return nil, fmt.Errorf("%s: %w", handlerName, err)
			}
			out = append(out, resultMsg)
		}

		m.RecordOperationSuccess(ctx, handlerName, handlerService)
		return out, nil
	}
}

// NewResultMessage builds the outgoing message for r, carrying the
// correlation id of the message that caused it.
func NewResultMessage(cause *message.Message, r Result) (*message.Message, error) {
	if r.Topic == "" {
		return nil, eventbus.ErrNoTopic
	}
	body, err := json.Marshal(r.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload for %s: %w", r.Topic, err)
	}

	out := message.NewMessage(watermill.NewUUID(), body)
	for k, v := range r.Metadata {
		out.Metadata.Set(k, v)
	}
	if cause != nil {
		if id := middleware.MessageCorrelationID(cause); id != "" {
			middleware.SetCorrelationID(id, out)
		}
	}
	out.Metadata.Set(eventbus.TopicMetadataKey, r.Topic)
	return out, nil
}
