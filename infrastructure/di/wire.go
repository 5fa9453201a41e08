//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"nodetree/application/bus"
	"nodetree/infrastructure/config"
	"nodetree/pkg/observability"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideTracer,
	ProvideMetrics,
	ProvideEventPublisher,
	ProvideTreeStore,
	ProvideHealthChecker,
	ProvideCommandBus,
	ProvideQueryBus,
	ProvideErrorHandler,
	ProvideRouter,
	wire.Bind(new(bus.Metrics), new(*observability.Metrics)),
	wire.Bind(new(bus.Tracer), new(*observability.Tracer)),
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, func(), error) {
	wire.Build(SuperSet)
	return nil, nil, nil
}
