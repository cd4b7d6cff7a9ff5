package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"auction-engine/internal/ports/outbound"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisNotifier publishes events to a per-subscriber Redis channel so an
// external delivery tier can fan them out across processes.
type RedisNotifier struct {
	client *redis.Client
	logger zerolog.Logger
}

type RedisNotifierParams struct {
	RedisClient *redis.Client
	Logger      zerolog.Logger
}

// NewRedisNotifier creates a Redis-backed notification sink
func NewRedisNotifier(params RedisNotifierParams) *RedisNotifier {
	return &RedisNotifier{
		client: params.RedisClient,
		logger: params.Logger.With().Str("component", "redis_notifier").Logger(),
	}
}

// ChannelFor returns the Redis channel name events for a subscriber go to
func ChannelFor(subscriberID int) string {
	return fmt.Sprintf("notify:%d", subscriberID)
}

// Notify publishes the event to the subscriber's channel
func (n *RedisNotifier) Notify(ctx context.Context, subscriberID int, event outbound.Event) error {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().Unix()
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	channelName := ChannelFor(subscriberID)
	result := n.client.Publish(ctx, channelName, eventJSON)
	if err := result.Err(); err != nil {
		return fmt.Errorf("failed to publish to Redis: %w", err)
	}

	n.logger.Debug().
		Str("channel_name", channelName).
		Str("event_type", string(event.Type)).
		Int64("receiver_count", result.Val()).
		Msg("Published event")

	return nil
}

// Close releases the underlying Redis client
func (n *RedisNotifier) Close() error {
	return n.client.Close()
}
