package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/maintenance-service/internal/domain"
)

// DefaultChannel is the pub/sub channel shared by every service instance.
const DefaultChannel = "maintenance:live"

// RedisHub publishes through Redis so every instance's local subscribers
// receive the event, including the publisher's own.
type RedisHub struct {
	client  redis.UniversalClient
	channel string
	local   *MemoryHub
	logger  *zap.Logger
}

// NewRedisHub wraps a local hub with a Redis pub/sub bridge.
func NewRedisHub(client redis.UniversalClient, channel string, logger *zap.Logger) *RedisHub {
	if channel == "" {
		channel = DefaultChannel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisHub{
		client:  client,
		channel: channel,
		local:   NewMemoryHub(logger),
		logger:  logger,
	}
}

func (h *RedisHub) Publish(ctx context.Context, event LiveEvent) error {
	payload, err := encodeEvent(event)
	if err != nil {
		return err
	}
	return h.client.Publish(ctx, h.channel, payload).Err()
}

func (h *RedisHub) Subscribe(role domain.StaffRole, handler EventHandler) func() {
	return h.local.Subscribe(role, handler)
}

// Run relays channel messages to local subscribers until ctx is cancelled.
func (h *RedisHub) Run(ctx context.Context) error {
	pubsub := h.client.Subscribe(ctx, h.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", h.channel, err)
	}
	h.logger.Info("live relay subscribed", zap.String("channel", h.channel))

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			event, err := decodeEvent(msg.Payload)
			if err != nil {
				h.logger.Warn("dropping malformed live event", zap.Error(err))
				continue
			}
			_ = h.local.Publish(ctx, event)
		}
	}
}

func encodeEvent(event LiveEvent) (string, error) {
	raw, err := json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("encode live event: %w", err)
	}
	return string(raw), nil
}

func decodeEvent(payload string) (LiveEvent, error) {
	var event LiveEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return LiveEvent{}, fmt.Errorf("decode live event: %w", err)
	}
	return event, nil
}
