package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/shenikar/animal_rescue_dispatch/internal/config"
	"github.com/shenikar/animal_rescue_dispatch/pkg/postgres"
	redisclient "github.com/shenikar/animal_rescue_dispatch/pkg/redis"
)

const defaultMigrationsSource = "file://migrations"

// RootCommand собирает дерево команд rescuectl
func RootCommand(log *logrus.Logger) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "rescuectl",
		Short:         "Administration CLI for the animal rescue dispatch service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		migrateCommand(log),
		seedCommand(log),
		respondersCommand(),
		alertsCommand(),
	)
	return rootCmd
}

// connectDB загружает конфигурацию и открывает пул соединений
func connectDB(ctx context.Context) (*config.Config, *pgxpool.Pool, error) {
	cfg, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, nil, err
	}
	pool, err := postgres.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	return cfg, pool, nil
}

// connectCache подключает Redis; при недоступности возвращает nil и команда работает без кэша
func connectCache(ctx context.Context, cfg *config.Config, log *logrus.Logger) *redis.Client {
	client, err := redisclient.NewRedisClient(ctx, redisclient.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPass,
		DB:           cfg.RedisDB,
		PingAttempts: 1,
		PingInterval: time.Second,
	})
	if err != nil {
		log.WithError(err).Warn("Redis is unavailable, roster cache will not be invalidated")
		return nil
	}
	return client
}
