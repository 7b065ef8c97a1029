package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"formrelay/config"
	"formrelay/internal/cron"
	"formrelay/internal/handler"
	"formrelay/internal/listener"
	"formrelay/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type App struct {
	conf          *config.Configuration
	logger        *zap.Logger
	server        *http.Server
	listener      *listener.Listener
	cronSrv       *cron.Cron
	healthService *service.HealthService
	version       *handler.VersionHandler

	serveErr chan error
}

func newHttpServer(
	conf *config.Configuration,
	router *gin.Engine,
) *http.Server {
	return &http.Server{
		Addr:              conf.Gateway.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func newApp(
	conf *config.Configuration,
	logger *zap.Logger,
	server *http.Server,
	l *listener.Listener,
	healthService *service.HealthService,
	cronSrv *cron.Cron,
	version *handler.VersionHandler,
) *App {
	return &App{
		conf:          conf,
		logger:        logger,
		server:        server,
		listener:      l,
		healthService: healthService,
		cronSrv:       cronSrv,
		version:       version,
		serveErr:      make(chan error, 1),
	}
}

// Run 依序：確保儲存文件 → 綁定 listener → 綁定並啟動 gateway → cron。
// 任一綁定失敗都直接回傳錯誤。
func (a *App) Run() error {
	info := a.version.Info()
	a.logger.Info("app runtime info",
		zap.String("env", info.Env),
		zap.String("name", info.Name),
		zap.String("version", info.Version),
		zap.String("go_version", info.GoVersion),
		zap.Time("start_at", info.StartAt),
	)

	if err := a.listener.Prepare(); err != nil {
		return fmt.Errorf("prepare storage: %w", err)
	}
	if err := a.listener.Start(); err != nil {
		return err
	}
	a.healthService.SetListenerReady(true)

	ln, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return fmt.Errorf("listen tcp %s: %w", a.server.Addr, err)
	}
	go func() {
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.serveErr <- err
		}
		close(a.serveErr)
	}()
	a.healthService.SetGatewayReady(true)
	a.logger.Info("gateway started", zap.String("address", ln.Addr().String()))

	if err := a.cronSrv.Run(); err != nil {
		return err
	}
	a.logger.Info("cron server started")

	return nil
}

// Done 在 gateway 意外結束時收到錯誤
func (a *App) Done() <-chan error {
	return a.serveErr
}

// Stop 依序關閉 gateway、listener、cron
func (a *App) Stop(ctx context.Context) error {
	a.healthService.SetReady(false)

	var errs []error
	if err := a.server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown gateway: %w", err))
	}
	a.logger.Info("gateway has been stop")

	if err := a.listener.Stop(); err != nil && !errors.Is(err, listener.ErrNotStarted) {
		errs = append(errs, fmt.Errorf("stop listener: %w", err))
	}

	if err := a.cronSrv.Stop(ctx); err != nil {
		errs = append(errs, fmt.Errorf("stop cron: %w", err))
	}
	a.logger.Info("cron server has been stop")

	return errors.Join(errs...)
}
