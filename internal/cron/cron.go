package cron

import (
	"context"
	"fmt"

	"formrelay/config"
	"formrelay/internal/listener"

	"github.com/google/wire"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var ProviderSet = wire.NewSet(NewCron)

type statsSource interface {
	Stats() listener.Stats
}

type Cron struct {
	logger    *zap.Logger
	server    *cron.Cron
	statsSpec string
	source    statsSource
}

// NewCron .
func NewCron(logger *zap.Logger, conf *config.Configuration, l *listener.Listener) *Cron {
	return newCron(logger, conf.Cron.StatsSpec, l)
}

func newCron(logger *zap.Logger, statsSpec string, source statsSource) *Cron {
	server := cron.New(
		cron.WithSeconds(),
	)

	return &Cron{
		logger:    logger.Named("cron"),
		server:    server,
		statsSpec: statsSpec,
		source:    source,
	}
}

func (c *Cron) Run() error {
	if c.statsSpec != "" {
		if _, err := c.server.AddFunc(c.statsSpec, c.ReportStats); err != nil {
			return fmt.Errorf("add stats job %q: %w", c.statsSpec, err)
		}
	}

	c.server.Start()
	return nil
}

// ReportStats 將 listener 累計數寫進 log
func (c *Cron) ReportStats() {
	s := c.source.Stats()
	c.logger.Info("listener stats",
		zap.Uint64("received", s.Received),
		zap.Uint64("stored", s.Stored),
		zap.Uint64("decode_errors", s.DecodeErrors),
		zap.Uint64("storage_errors", s.StorageErrors),
		zap.Uint64("mirror_errors", s.MirrorErrors),
	)
}

func (c *Cron) Stop(ctx context.Context) error {
	done := c.server.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
