package database

import (
	client "formrelay/internal/database/client"
	fluentdRepo "formrelay/internal/database/fluentd/repository"
	mongoRepo "formrelay/internal/database/mongodb/repository"
	redisRepo "formrelay/internal/database/redis/repository"
	"formrelay/internal/submission"

	"github.com/google/wire"
	"go.uber.org/zap"
)

// ProviderSet 定義所有 DB Client 與 mirror 的依賴
var ProviderSet = wire.NewSet(
	client.NewFluentdClient,
	client.NewMongoClient,
	client.NewRedisClient,
	fluentdRepo.ProviderSet,
	mongoRepo.ProviderSet,
	redisRepo.ProviderSet,
	NewMirrors,
)

type mirror interface {
	submission.Mirror
	Enabled() bool
}

// NewMirrors 只收集已啟用的 mirror，順序固定為 fluentd → mongo → redis
func NewMirrors(
	logger *zap.Logger,
	fluentdRepository *fluentdRepo.LogRepository,
	submissionRepository *mongoRepo.SubmissionRepository,
	publishRepository *redisRepo.PublishRepository,
) submission.Mirrors {
	var mirrors submission.Mirrors
	for _, m := range []mirror{fluentdRepository, submissionRepository, publishRepository} {
		if !m.Enabled() {
			continue
		}
		logger.Info("submission mirror enabled", zap.String("mirror", m.Name()))
		mirrors = append(mirrors, m)
	}
	return mirrors
}
