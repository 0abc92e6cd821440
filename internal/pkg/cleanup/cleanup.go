package cleanup

import (
	"context"
	"net/http"
	"time"

	mongodb "loanbook-worker/internal/pkg/db/mongo"
	"loanbook-worker/internal/pkg/db/redis"
	"loanbook-worker/internal/pkg/kafka"
	"loanbook-worker/internal/pkg/log_messages"
	"loanbook-worker/internal/pkg/logger"
)

func CleanupResources(
	ctx context.Context,
	pubsubPublisher interface{ Close() error },
	kafkaProducer *kafka.KafkaProducer,
	mongoClient *mongodb.MongoClient,
	redisClient *redis.RedisClient,
	server *http.Server,
) {
	logger.CtxInfo(ctx, log_messages.CleanupStarted)

	cleanupPubSubResource(pubsubPublisher, "PubSub publisher", ctx)
	cleanupKafkaResource(kafkaProducer, ctx)
	cleanupMongoResource(mongoClient, ctx)
	cleanupRedisResource(redisClient, ctx)
	cleanupHTTPServer(server, ctx)

	logger.CtxInfo(ctx, log_messages.CleanupCompleted)
}

func cleanupPubSubResource(resource interface{ Close() error }, resourceName string, ctx context.Context) {
	if resource == nil {
		return
	}
	if err := resource.Close(); err != nil {
		logger.CtxError(ctx, "Failed to close "+resourceName, err)
	} else {
		logger.CtxInfo(ctx, resourceName+" closed successfully")
	}
}

func cleanupKafkaResource(kafkaProducer *kafka.KafkaProducer, ctx context.Context) {
	if kafkaProducer == nil {
		return
	}
	if err := kafkaProducer.Close(); err != nil {
		logger.CtxError(ctx, "Failed to close Kafka producer", err)
	} else {
		logger.CtxInfo(ctx, "Kafka producer closed successfully")
	}
}

func cleanupMongoResource(mongoClient *mongodb.MongoClient, ctx context.Context) {
	if mongoClient == nil || mongoClient.Client == nil {
		return
	}
	mongoCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Client.Disconnect(mongoCtx); err != nil {
		logger.CtxError(mongoCtx, "Failed to disconnect MongoDB client", err)
	} else {
		logger.CtxInfo(mongoCtx, "MongoDB client disconnected successfully")
	}
}

func cleanupRedisResource(redisClient *redis.RedisClient, ctx context.Context) {
	if redisClient == nil || redisClient.Client == nil {
		return
	}
	if err := redis.Disconnect(redisClient.Client); err != nil {
		logger.CtxError(ctx, "Failed to close Redis client", err)
	} else {
		logger.CtxInfo(ctx, "Redis client closed successfully")
	}
}

func cleanupHTTPServer(server *http.Server, ctx context.Context) {
	if server == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 8*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.CtxError(ctx, "Failed to shutdown HTTP server", err)
	} else {
		logger.CtxInfo(ctx, "HTTP server shutdown successfully")
	}
}
