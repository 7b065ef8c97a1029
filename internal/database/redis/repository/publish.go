package repository

import (
	"context"

	"formrelay/config"
	"formrelay/internal/core"
	"formrelay/internal/database/client"
	"formrelay/internal/submission"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// publisher 為 *redis.Client 的子集合
type publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// PublishRepository 將新紀錄 PUBLISH 到頻道，訂閱端自行處理
type PublishRepository struct {
	client  publisher
	channel string
}

func NewPublishRepository(conf *config.Configuration, redisClient *client.RedisClient) *PublishRepository {
	repository := &PublishRepository{channel: conf.Redis.Channel}
	if redisClient.Enabled() {
		repository.client = redisClient.Client()
	}
	return repository
}

func (repository *PublishRepository) Enabled() bool {
	return repository.client != nil
}

func (repository *PublishRepository) Name() string {
	return string(core.MirrorRedis)
}

// Mirror 訊息格式：{"key": "...", "record": {...}}
func (repository *PublishRepository) Mirror(ctx context.Context, entry submission.Entry) error {
	if repository.client == nil {
		return nil
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return repository.client.Publish(ctx, repository.channel, payload).Err()
}
