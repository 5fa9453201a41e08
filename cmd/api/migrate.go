package main

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/spf13/cobra"

	"nodetree/infrastructure/config"
	"nodetree/infrastructure/di"
	"nodetree/infrastructure/persistence/dynamodb"
	"nodetree/infrastructure/persistence/postgres"
)

func runMigrate(cmd *cobra.Command, args []string) error {
	direction := postgres.MigrateUp
	if len(args) == 1 {
		direction = args[0]
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := di.ProvideLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()
	switch cfg.StoreDriver {
	case config.StorePostgres:
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
		if err != nil {
			return err
		}
		defer pool.Close()
		return postgres.Migrate(ctx, pool, direction, logger)

	case config.StoreDynamoDB:
		if direction != postgres.MigrateUp {
			return fmt.Errorf("dynamodb supports only %q", postgres.MigrateUp)
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return err
		}
		client := awsdynamodb.NewFromConfig(awsCfg, func(o *awsdynamodb.Options) {
			if cfg.AWSEndpoint != "" {
				o.BaseEndpoint = aws.String(cfg.AWSEndpoint)
			}
		})
		return dynamodb.NewStore(client, cfg.TableName, logger).EnsureTable(ctx)

	default:
		logger.Info("Memory store needs no migrations")
		return nil
	}
}
