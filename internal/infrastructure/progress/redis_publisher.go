package progress

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/erp/shopsync/internal/domain/integration"
)

const channelPrefix = "shopsync:progress:"

// RedisPublisher publishes progress events over Redis pub/sub. The
// presentation layer subscribes to the channel matching the progress key.
// Publishing never fails the caller: errors are logged and dropped.
type RedisPublisher struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisPublisher creates a publisher on an existing Redis client
func NewRedisPublisher(client *redis.Client, logger *zap.Logger) *RedisPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisPublisher{client: client, logger: logger}
}

// Publish implements integration.ProgressPublisher
func (p *RedisPublisher) Publish(ctx context.Context, key string, event integration.ProgressEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn("failed to encode progress event",
			zap.String("key", key),
			zap.Error(err))
		return
	}

	if err := p.client.Publish(ctx, channelPrefix+key, payload).Err(); err != nil {
		p.logger.Warn("failed to publish progress event",
			zap.String("key", key),
			zap.String("message", event.Message),
			zap.Error(err))
	}
}

var _ integration.ProgressPublisher = (*RedisPublisher)(nil)
