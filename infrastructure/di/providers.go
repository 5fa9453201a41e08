package di

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-xray-sdk-go/instrumentation/awsv2"
	"go.uber.org/zap"

	"nodetree/application/bus"
	"nodetree/application/commands"
	"nodetree/application/ports"
	"nodetree/application/queries"
	"nodetree/infrastructure/config"
	"nodetree/infrastructure/messaging/eventbridge"
	"nodetree/infrastructure/persistence/dynamodb"
	"nodetree/infrastructure/persistence/memory"
	"nodetree/infrastructure/persistence/postgres"
	"nodetree/interfaces/http/rest"
	"nodetree/interfaces/http/rest/middleware"
	pkgerrors "nodetree/pkg/errors"
	"nodetree/pkg/observability"
)

const serviceName = "nodetree"

// ProvideLogger creates a new logger instance at the configured level
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	zapCfg := zap.NewDevelopmentConfig()
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	}
	if err := zapCfg.Level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	return zapCfg.Build(zap.Fields(zap.String("service", serviceName)))
}

// ProvideAWSConfig loads the default AWS configuration. With tracing enabled
// every AWS client call is recorded as an X-Ray subsegment.
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	if cfg.EnableTracing {
		awsv2.AWSV2Instrumentor(&awsCfg.APIOptions)
	}
	return awsCfg, nil
}

func endpoint(cfg *config.Config) *string {
	if cfg.AWSEndpoint == "" {
		return nil
	}
	return aws.String(cfg.AWSEndpoint)
}

// ProvideTracer creates the X-Ray tracer
func ProvideTracer(cfg *config.Config) (*observability.Tracer, error) {
	return observability.NewTracer(serviceName, cfg.EnableTracing)
}

// ProvideMetrics creates the CloudWatch metrics sink, or a no-op sink when
// metrics are disabled
func ProvideMetrics(cfg *config.Config, awsCfg aws.Config, logger *zap.Logger) *observability.Metrics {
	if !cfg.EnableMetrics {
		return observability.NewNopMetrics()
	}
	client := awscloudwatch.NewFromConfig(awsCfg, func(o *awscloudwatch.Options) {
		o.BaseEndpoint = endpoint(cfg)
	})
	namespace := fmt.Sprintf("%s/%s", cfg.MetricsNamespace, cfg.Environment)
	return observability.NewMetrics(namespace, client, logger)
}

// ProvideEventPublisher publishes to EventBridge when a bus is configured and
// to the log otherwise
func ProvideEventPublisher(cfg *config.Config, awsCfg aws.Config, logger *zap.Logger) ports.EventPublisher {
	if cfg.EventBusName == "" {
		return eventbridge.NewLogPublisher(logger)
	}
	client := awseventbridge.NewFromConfig(awsCfg, func(o *awseventbridge.Options) {
		o.BaseEndpoint = endpoint(cfg)
	})
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideTreeStore opens the configured store. The cleanup function releases
// its connections.
func ProvideTreeStore(ctx context.Context, cfg *config.Config, awsCfg aws.Config, logger *zap.Logger) (ports.TreeStore, func(), error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
		if err != nil {
			return nil, nil, err
		}
		if cfg.AutoMigrate {
			if err := postgres.Migrate(ctx, pool, postgres.MigrateUp, logger); err != nil {
				pool.Close()
				return nil, nil, err
			}
		}
		return postgres.NewStore(pool), pool.Close, nil

	case config.StoreDynamoDB:
		client := awsdynamodb.NewFromConfig(awsCfg, func(o *awsdynamodb.Options) {
			o.BaseEndpoint = endpoint(cfg)
		})
		store := dynamodb.NewStore(client, cfg.TableName, logger)
		if cfg.AutoMigrate {
			if err := store.EnsureTable(ctx); err != nil {
				return nil, nil, err
			}
		}
		return store, func() {}, nil

	default:
		return memory.New(), func() {}, nil
	}
}

// ProvideHealthChecker returns the store when it can report its health
func ProvideHealthChecker(store ports.TreeStore) ports.HealthChecker {
	if hc, ok := store.(ports.HealthChecker); ok {
		return hc
	}
	return nil
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(
	store ports.TreeStore,
	publisher ports.EventPublisher,
	metrics bus.Metrics,
	tracer bus.Tracer,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus(
		bus.LoggingMiddleware(logger, "command"),
		bus.TracingMiddleware(tracer, "command"),
		bus.MetricsMiddleware(metrics, "command"),
		bus.ValidationMiddleware(),
	)

	createNode := commands.NewCreateNodeHandler(store.Nodes(), store.Properties(), publisher, logger)
	if err := bus.RegisterCommand(commandBus, commands.CreateNodeCommand{}, createNode); err != nil {
		return nil, err
	}

	createProperty := commands.NewCreateNodePropertyHandler(store.Nodes(), store.Properties(), publisher, logger)
	if err := bus.RegisterCommand(commandBus, commands.CreateNodePropertyCommand{}, createProperty); err != nil {
		return nil, err
	}

	return commandBus, nil
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(
	store ports.TreeStore,
	metrics bus.Metrics,
	tracer bus.Tracer,
	logger *zap.Logger,
) (*bus.QueryBus, error) {
	queryBus := bus.NewQueryBus(
		bus.LoggingMiddleware(logger, "query"),
		bus.TracingMiddleware(tracer, "query"),
		bus.MetricsMiddleware(metrics, "query"),
		bus.ValidationMiddleware(),
	)

	if err := bus.RegisterQuery(queryBus, queries.GetNodeSubtreeQuery{}, queries.NewGetNodeSubtreeHandler(store)); err != nil {
		return nil, err
	}
	listProps := queries.NewListNodePropertiesHandler(store.Nodes(), store.Properties())
	if err := bus.RegisterQuery(queryBus, queries.ListNodePropertiesQuery{}, listProps); err != nil {
		return nil, err
	}

	return queryBus, nil
}

// ProvideErrorHandler creates the HTTP error handler
func ProvideErrorHandler(logger *zap.Logger) *pkgerrors.ErrorHandler {
	return pkgerrors.NewErrorHandler(logger)
}

// ProvideRouter creates the HTTP router
func ProvideRouter(
	cfg *config.Config,
	commandBus *bus.CommandBus,
	queryBus *bus.QueryBus,
	health ports.HealthChecker,
	errorHandler *pkgerrors.ErrorHandler,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *rest.Router {
	router := rest.NewRouter(commandBus, queryBus, health, errorHandler, tracer, cfg.CORSAllowedOrigins, logger)
	if cfg.RateLimitPerMinute > 0 {
		router.WithRateLimiter(middleware.NewPerMinuteLimiter(cfg.RateLimitPerMinute))
	}
	return router
}
