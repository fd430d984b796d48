package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options - параметры подключения к Redis
type Options struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
	// PingAttempts - сколько раз проверять соединение при старте
	PingAttempts int
	PingInterval time.Duration
}

// NewRedisClient создает клиент Redis и ждёт, пока сервер ответит на PING
func NewRedisClient(ctx context.Context, opts Options) (*redis.Client, error) {
	if opts.PoolSize <= 0 {
		opts.PoolSize = 10
	}
	if opts.PingAttempts <= 0 {
		opts.PingAttempts = 1
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
		PoolSize: opts.PoolSize,
	})

	var err error
	for attempt := 1; attempt <= opts.PingAttempts; attempt++ {
		if err = rdb.Ping(ctx).Err(); err == nil {
			return rdb, nil
		}
		if attempt == opts.PingAttempts {
			break
		}
		select {
		case <-ctx.Done():
			_ = rdb.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", ctx.Err())
		case <-time.After(opts.PingInterval):
		}
	}

	_ = rdb.Close()
	return nil, fmt.Errorf("failed to connect to Redis after %d attempts: %w", opts.PingAttempts, err)
}
