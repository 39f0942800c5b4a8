package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// StreamPublisher appends events to a Redis Stream. Failures are logged and
// dropped; the stream is an analytics sink, not a source of truth.
type StreamPublisher struct {
	logger *slog.Logger
	client *redis.Client
	stream string
}

func NewStreamPublisher(logger *slog.Logger, client *redis.Client, stream string) *StreamPublisher {
	return &StreamPublisher{
		logger: logger.With("component", "events"),
		client: client,
		stream: stream,
	}
}

func (that *StreamPublisher) Publish(ctx context.Context, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		that.logger.Error("failed to marshal event", "type", event.Type, "error", err)
		return
	}

	err = that.client.XAdd(ctx, &redis.XAddArgs{
		Stream: that.stream,
		Values: map[string]any{
			"type":    event.Type,
			"payload": payload,
		},
	}).Err()
	if err != nil {
		that.logger.Error("failed to publish event", "type", event.Type, "error", err)
	}
}
