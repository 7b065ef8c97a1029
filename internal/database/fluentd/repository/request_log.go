package repository

import (
	"context"
	"time"

	"formrelay/config"
	"formrelay/internal/core"
	"formrelay/internal/database/client"
	"formrelay/internal/database/fluentd/model"
	"formrelay/internal/submission"

	"github.com/goccy/go-json"
)

// LogRepository 負責發送 request log 與 submission 副本到 Fluentd
type LogRepository struct {
	poster      client.Poster
	enabled     bool
	projectName string
	version     string
	now         func() time.Time
}

func NewLogRepository(config *config.Configuration, fluentdClient *client.FluentdClient) *LogRepository {
	return newLogRepository(config, fluentdClient, fluentdClient.Enabled())
}

func newLogRepository(config *config.Configuration, poster client.Poster, enabled bool) *LogRepository {
	version := "1.0.0"
	if config.App.Version != "" {
		version = config.App.Version
	}
	return &LogRepository{
		poster:      poster,
		enabled:     enabled,
		projectName: config.App.Name,
		version:     version,
		now:         time.Now,
	}
}

func (repository *LogRepository) Enabled() bool {
	return repository.enabled
}

func (repository *LogRepository) LogRequest(ctx context.Context, req model.RequestLog) error {
	if !repository.enabled {
		return nil
	}
	if req.LoggedAt == "" {
		req.LoggedAt = repository.now().UTC().Format(core.LoggedAtLayout)
	}
	if req.Version == "" {
		req.Version = repository.version
	}
	if req.ProjectName == "" {
		req.ProjectName = repository.projectName
	}
	return repository.post(ctx, core.FluentdRequest, req)
}

func (repository *LogRepository) Name() string {
	return string(core.MirrorFluentd)
}

// Mirror 實作 submission.Mirror
func (repository *LogRepository) Mirror(ctx context.Context, entry submission.Entry) error {
	return repository.post(ctx, core.FluentdSubmission, model.SubmissionLog{
		Key:         entry.Key,
		Fields:      entry.Record,
		ProjectName: repository.projectName,
		Version:     repository.version,
		LoggedAt:    repository.now().UTC().Format(core.LoggedAtLayout),
	})
}

// fluent-logger 以 msgpack 編碼 map 最穩定，先轉成 map[string]any
func (repository *LogRepository) post(ctx context.Context, tag core.FluentdSubTag, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var fluentdMessage map[string]any
	if err := json.Unmarshal(b, &fluentdMessage); err != nil {
		return err
	}
	return repository.poster.Post(ctx, string(tag), fluentdMessage)
}
