package repository

import (
	"context"
	"time"

	"formrelay/config"
	"formrelay/internal/core"
	client "formrelay/internal/database/client"
	"formrelay/internal/database/mongodb/model"
	"formrelay/internal/submission"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// inserter 為 *mongo.Collection 的子集合，方便測試替換
type inserter interface {
	InsertOne(ctx context.Context, document any, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
}

type SubmissionRepository struct {
	collection inserter
	source     string
	now        func() time.Time
}

func NewSubmissionRepository(logger *zap.Logger, conf *config.Configuration, mongoClient *client.MongoClient) *SubmissionRepository {
	repository := &SubmissionRepository{source: conf.App.Name, now: time.Now}
	if !mongoClient.Enabled() {
		return repository
	}
	collection := mongoClient.Client().Database(conf.MongoDB.Database).Collection(conf.MongoDB.Collection)
	repository.collection = collection

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := ensureIndexes(ctx, collection); err != nil {
		logger.Warn("failed to ensure submission indexes", zap.Error(err))
	}
	return repository
}

// 依 key 查詢與依寫入時間倒序列表（冪等、存在即跳過）
func ensureIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "key", Value: 1}},
			Options: options.Index().SetName("idx_key"),
		},
		{
			Keys:    bson.D{{Key: "storedAt", Value: -1}},
			Options: options.Index().SetName("idx_storedAt_desc"),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexModels)
	return err
}

func (repository *SubmissionRepository) Enabled() bool {
	return repository.collection != nil
}

func (repository *SubmissionRepository) Name() string {
	return string(core.MirrorMongo)
}

// Mirror：單文件插入
func (repository *SubmissionRepository) Mirror(ctx context.Context, entry submission.Entry) error {
	if repository.collection == nil {
		return nil
	}
	doc := &model.Submission{
		ID:       primitive.NewObjectID(),
		Key:      entry.Key,
		Fields:   entry.Record,
		Source:   repository.source,
		StoredAt: repository.now().UTC(),
	}
	_, err := repository.collection.InsertOne(ctx, doc)
	return err
}
