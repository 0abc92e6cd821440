package redis

import (
	"context"
	"crypto/tls"

	"loanbook-worker/internal/pkg/config"
	"loanbook-worker/internal/pkg/logger"

	goredis "github.com/redis/go-redis/v9"
)

type RedisClient struct {
	Client *goredis.Client
}

type RedisConnector interface {
	Connect(ctx context.Context, opts *goredis.Options) (*goredis.Client, error)
}

type DefaultRedisConnector struct{}

func (d *DefaultRedisConnector) Connect(ctx context.Context, opts *goredis.Options) (*goredis.Client, error) {
	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return client, nil
}

// ConnectToRedis dials Redis using the provided connector; pass nil for
// the production connector.
func ConnectToRedis(ctx context.Context, cfg config.RedisConfig, connector RedisConnector) (*RedisClient, error) {
	if connector == nil {
		connector = &DefaultRedisConnector{}
	}

	opts := &goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.ConnectTimeout,
	}
	if cfg.EnableTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client, err := connector.Connect(ctx, opts)
	if err != nil {
		logger.CtxError(ctx, "Failed to connect to Redis", err)
		return nil, err
	}

	logger.CtxInfo(ctx, "Successfully connected to Redis")
	return &RedisClient{Client: client}, nil
}

func Disconnect(client *goredis.Client) error {
	return client.Close()
}
