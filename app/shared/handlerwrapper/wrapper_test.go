package handlerwrapper

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/brett-phillips/ELO/app/eventbus"
	"github.com/brett-phillips/ELO/app/shared/observability"
	"github.com/brett-phillips/ELO/app/shared/observability/attr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

type pingPayload struct {
	Name string `json:"name"`
}

type pongPayload struct {
	Greeting string `json:"greeting"`
}

func wrap(handle func(context.Context, *pingPayload) ([]Result, error)) message.HandlerFunc {
	return WrapTransformingTyped("test.ping", observability.NoOpLogger, noop.NewTracerProvider().Tracer("test"), nil, handle)
}

func TestWrapTransformingTyped_BuildsResultMessages(t *testing.T) {
	var seenCorrelation string
	h := wrap(func(ctx context.Context, p *pingPayload) ([]Result, error) {
		seenCorrelation = attr.ExtractCorrelationID(ctx).Value.String()
		return []Result{{
			Topic:    "test.pong",
			Payload:  pongPayload{Greeting: "hello " + p.Name},
			Metadata: map[string]string{"channel_id": "c1"},
		}}, nil
	})

	in := message.NewMessage(watermill.NewUUID(), []byte(`{"name":"ada"}`))
	middleware.SetCorrelationID("corr-1", in)

	out, err := h(in)
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.Equal(t, "corr-1", seenCorrelation)
	assert.Equal(t, "test.pong", out[0].Metadata.Get(eventbus.TopicMetadataKey))
	assert.Equal(t, "corr-1", middleware.MessageCorrelationID(out[0]))
	assert.Equal(t, "c1", out[0].Metadata.Get("channel_id"))

	var got pongPayload
	require.NoError(t, json.Unmarshal(out[0].Payload, &got))
	assert.Equal(t, "hello ada", got.Greeting)
}

func TestWrapTransformingTyped_BadPayload(t *testing.T) {
	called := false
	h := wrap(func(context.Context, *pingPayload) ([]Result, error) {
		called = true
		return nil, nil
	})

	_, err := h(message.NewMessage(watermill.NewUUID(), []byte(`not json`)))
	assert.Error(t, err)
	assert.False(t, called)
}

func TestWrapTransformingTyped_HandlerError(t *testing.T) {
	boom := errors.New("boom")
	h := wrap(func(context.Context, *pingPayload) ([]Result, error) {
		return nil, boom
	})

	_, err := h(message.NewMessage(watermill.NewUUID(), []byte(`{}`)))
	assert.ErrorIs(t, err, boom)
}

func TestWrapTransformingTyped_ResultWithoutTopic(t *testing.T) {
	h := wrap(func(context.Context, *pingPayload) ([]Result, error) {
		return []Result{{Payload: pongPayload{}}}, nil
	})

	_, err := h(message.NewMessage(watermill.NewUUID(), []byte(`{}`)))
	assert.ErrorIs(t, err, eventbus.ErrNoTopic)
}

func TestWrapTransformingTyped_NoResults(t *testing.T) {
	h := wrap(func(context.Context, *pingPayload) ([]Result, error) { return nil, nil })

	out, err := h(message.NewMessage(watermill.NewUUID(), []byte(`{}`)))
	require.NoError(t, err)
	assert.Empty(t, out)
}
