// Package di assembles the application from its providers with google/wire.
package di

import (
	"go.uber.org/zap"

	"nodetree/application/bus"
	"nodetree/application/ports"
	"nodetree/infrastructure/config"
	"nodetree/interfaces/http/rest"
	"nodetree/pkg/observability"
)

//go:generate go run -mod=mod github.com/google/wire/cmd/wire

// Container holds all application dependencies
type Container struct {
	Config     *config.Config
	Logger     *zap.Logger
	Store      ports.TreeStore
	Publisher  ports.EventPublisher
	CommandBus *bus.CommandBus
	QueryBus   *bus.QueryBus
	Metrics    *observability.Metrics
	Tracer     *observability.Tracer
	Router     *rest.Router
}
