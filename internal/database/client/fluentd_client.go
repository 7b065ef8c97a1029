package client

import (
	"context"
	"formrelay/config"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
	"go.uber.org/zap"
)

// Poster 方便測試替換
type Poster interface {
	Post(ctx context.Context, tag string, message any) error
}

// FluentdClient implements Poster using fluent-logger-golang.
// 未啟用時 client 為 nil，Post 直接略過
type FluentdClient struct {
	client    *fluent.Fluent
	tagPrefix string
}

func NewFluentdClient(logger *zap.Logger, config *config.Configuration) (*FluentdClient, func(), error) {
	if !config.Fluentd.Enabled {
		return &FluentdClient{}, func() {}, nil
	}
	prefix := config.App.Name
	if config.Fluentd.TagPrefix != "" {
		prefix = config.Fluentd.TagPrefix
	}
	var timeout time.Duration
	if config.Fluentd.Timeout > 0 {
		timeout = time.Duration(config.Fluentd.Timeout) * time.Millisecond
	}

	f, err := fluent.New(fluent.Config{
		FluentHost: config.Fluentd.Host,
		FluentPort: config.Fluentd.Port,
		Timeout:    timeout,
		TagPrefix:  prefix,
		// 連線失敗不阻塞 listener
		Async: true,
	})
	if err != nil {
		logger.Error("failed to create fluentd client", zap.Error(err))
		return nil, nil, err
	}
	logger.Info("Connected to Fluentd", zap.String("host", config.Fluentd.Host), zap.Int("port", config.Fluentd.Port))

	fluentdClient := &FluentdClient{client: f, tagPrefix: prefix}
	cleanup := func() {
		logger.Info("closing the Fluentd resources")
		if err := fluentdClient.Close(); err != nil {
			logger.Error("failed to close Fluentd client", zap.Error(err))
		}
	}
	return fluentdClient, cleanup, nil
}

func (c *FluentdClient) Enabled() bool {
	return c != nil && c.client != nil
}

func (c *FluentdClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Tag builds a tag using the configured TagPrefix and provided suffix.
// e.g. suffix="submission_log" => "formrelay.submission_log"
func (c *FluentdClient) Tag(suffix string) string {
	if c.tagPrefix == "" {
		return suffix
	}
	return c.tagPrefix + "." + suffix
}

// Post sends a record to Fluentd; TagPrefix 由 fluent-logger 自動加上
func (c *FluentdClient) Post(ctx context.Context, tag string, message any) error {
	if c.client == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.client.Post(tag, message)
}
