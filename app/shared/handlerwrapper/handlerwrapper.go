// Package handlerwrapper adapts typed event handlers to Watermill handler funcs.
package handlerwrapper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Black-And-White-Club/powerrank-bot/app/shared/attr"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type ctxKey string

// CtxKeyReplyTo carries the reply topic requested by the publisher, if any.
const CtxKeyReplyTo ctxKey = "reply_to"

// MetadataReplyTo is the message metadata key holding a dynamic reply topic.
const MetadataReplyTo = "reply_to"

// Result is an outgoing message produced by a handler.
type Result struct {
	Topic    string
	Payload  any
	Metadata map[string]string
}

// WrapTransformingTyped decodes the incoming JSON payload into T, invokes the
// handler and publishes every returned Result on its own topic.
//
// Payloads that cannot be decoded are acked and dropped; handler errors nack the
// message so the router's retry middleware can redeliver it.
func WrapTransformingTyped[T any](
	handlerName string,
	logger *slog.Logger,
	tracer trace.Tracer,
	publisher message.Publisher,
	handler func(context.Context, *T) ([]Result, error),
) message.NoPublishHandlerFunc {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer(handlerName)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return func(msg *message.Message) error {
		ctx, span := tracer.Start(msg.Context(), handlerName, trace.WithAttributes(
			attribute.String("message_uuid", msg.UUID),
		))
		defer span.End()

		correlationID := middleware.MessageCorrelationID(msg)
		ctx = attr.WithCorrelationID(ctx, correlationID)

		if replyTo := msg.Metadata.Get(MetadataReplyTo); replyTo != "" {
			ctx = context.WithValue(ctx, CtxKeyReplyTo, replyTo)
		}

		payload := new(T)
		if err := json.Unmarshal(msg.Payload, payload); err != nil {
			logger.WarnContext(ctx, "Dropping undecodable message",
				slog.String("handler", handlerName),
				slog.String("message_uuid", msg.UUID),
				slog.String("error", err.Error()),
			)
			span.SetStatus(codes.Error, "undecodable payload")
			return nil
		}

		outgoing, err := handler(ctx, payload)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			logger.ErrorContext(ctx, "Handler failed",
				slog.String("handler", handlerName),
				slog.String("message_uuid", msg.UUID),
				slog.String("error", err.Error()),
			)
			return err
		}

		for _, res := range outgoing {
			out, err := newMessage(res, correlationID)
			if err != nil {
				return fmt.Errorf("%s: %w", handlerName, err)
			}
			if err := publisher.Publish(res.Topic, out); err != nil {
				span.RecordError(err)
				return fmt.Errorf("%s: failed to publish to %s: %w", handlerName, res.Topic, err)
			}
		}
		return nil
	}
}

func newMessage(res Result, correlationID string) (*message.Message, error) {
	if res.Topic == "" {
		return nil, fmt.Errorf("result has no topic")
	}
	data, err := json.Marshal(res.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload for %s: %w", res.Topic, err)
	}
	out := message.NewMessage(watermill.NewUUID(), data)
	for k, v := range res.Metadata {
		out.Metadata.Set(k, v)
	}
	if correlationID != "" {
		middleware.SetCorrelationID(correlationID, out)
	}
	out.Metadata.Set("topic", res.Topic)
	return out, nil
}

// ReplyTopic returns the dynamic reply topic from ctx, falling back to def.
func ReplyTopic(ctx context.Context, def string) string {
	if rt, ok := ctx.Value(CtxKeyReplyTo).(string); ok && rt != "" {
		return rt
	}
	return def
}

// PublishResult publishes a single result outside of a handler, e.g. from a
// background job, keeping the correlation id.
func PublishResult(publisher message.Publisher, correlationID string, res Result) error {
	out, err := newMessage(res, correlationID)
	if err != nil {
		return err
	}
	if err := publisher.Publish(res.Topic, out); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", res.Topic, err)
	}
	return nil
}
