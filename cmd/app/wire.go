//go:build wireinject
// +build wireinject

package main

import (
	"formrelay/config"
	"formrelay/internal/command"
	"formrelay/internal/cron"
	"formrelay/internal/database"
	"formrelay/internal/handler"
	"formrelay/internal/listener"
	"formrelay/internal/middleware"
	"formrelay/internal/relay"
	"formrelay/internal/router"
	"formrelay/internal/service"
	"formrelay/internal/telemetry"

	"github.com/google/wire"
	"go.uber.org/zap"
)

// wireApp init application.
func wireApp(*config.Configuration, *zap.Logger) (*App, func(), error) {
	panic(
		wire.Build(
			database.ProviderSet,
			service.ProviderSet,
			handler.ProviderSet,
			middleware.ProviderSet,
			router.ProviderSet,
			relay.ProviderSet,
			listener.ProviderSet,
			cron.ProviderSet,
			telemetry.ProviderSet,
			wire.Bind(new(handler.Sender), new(*relay.Sender)),
			newHttpServer,
			newApp,
		),
	)
}

// wireCommand init command.
func wireCommand(*config.Configuration, *zap.Logger) (*command.Command, func(), error) {
	panic(
		wire.Build(
			command.ProviderSet,
			relay.ProviderSet,
			telemetry.ProviderSet,
		),
	)
}
