package runtime

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"loanbook-worker/internal/app/router"
	"loanbook-worker/internal/pkg/cleanup"
	"loanbook-worker/internal/pkg/config"
	mongodb "loanbook-worker/internal/pkg/db/mongo"
	"loanbook-worker/internal/pkg/db/redis"
	"loanbook-worker/internal/pkg/kafka"
	"loanbook-worker/internal/pkg/log_messages"
	"loanbook-worker/internal/pkg/logger"
	"loanbook-worker/internal/pkg/pubsub"
	"loanbook-worker/internal/pkg/scheduler"
	"loanbook-worker/internal/pkg/store/impl/runmarker"
	"loanbook-worker/internal/service/interest"
	"loanbook-worker/internal/service/interfaces"
)

var (
	connectMongoDB = mongodb.ConnectToMongoDB
	connectRedisDB = func(ctx context.Context, cfg config.RedisConfig) (*redis.RedisClient, error) {
		return redis.ConnectToRedis(ctx, cfg, nil)
	}
	newKafkaProducer   = kafka.NewKafkaProducer
	newPubSubPublisher = pubsub.NewPubSubPublisher
)

// PubSubPublisher defines the contract for any PubSub publisher.
type PubSubPublisher interface {
	Close() error
	Publish(ctx context.Context, topic string, msg []byte) error
}

// App encapsulates application resources and lifecycle.
type App struct {
	Cfg             *config.AppConfig
	PubSubPublisher PubSubPublisher
	KafkaProducer   *kafka.KafkaProducer
	ChargeProducer  interfaces.ChargeEventProducerInterface
	MongoClient     *mongodb.MongoClient
	RedisClient     *redis.RedisClient
	RunMarker       interfaces.RunMarkerInterface
	HTTPServer      *http.Server
	Scheduler       *scheduler.InterestScheduler
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.LoadFromConfig()
	if err != nil {
		logger.CtxError(ctx, log_messages.FailedLoadingConfiguration, err)
		return nil, err
	}
	logger.Init(cfg.Logging.LogLevel)

	app := &App{Cfg: cfg}

	if cfg.PubSub.Enabled {
		pubsubPublisher, err := newPubSubPublisher(ctx, cfg.PubSub.ProjectID)
		if err != nil {
			logger.CtxError(ctx, "Failure in PubSub publisher creation", err)
			return nil, err
		}
		app.PubSubPublisher = pubsubPublisher
	}

	kafkaProducer, err := newKafkaProducer(cfg.Kafka)
	if err != nil {
		logger.CtxError(ctx, "Failure in Kafka producer creation", err)
		return nil, err
	}
	app.KafkaProducer = kafkaProducer
	app.ChargeProducer = kafka.NewChargeEventProducer(kafkaProducer)

	mClient, err := connectMongoDB(ctx, cfg.Mongo)
	if err != nil {
		logger.CtxError(ctx, "Failed to connect to MongoDB", err)
		return nil, err
	}
	app.MongoClient = mClient

	rClient, err := connectRedisDB(ctx, cfg.Redis)
	if err != nil {
		logger.CtxError(ctx, "Failed to connect to Redis", err)
		return nil, err
	}
	app.RedisClient = rClient
	app.RunMarker = runmarker.NewRunMarkerRepository(rClient)

	return app, nil
}

// Run starts the scheduler and HTTP server, then blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	var summaryPublisher interfaces.RuntimePubSubPublisher
	if a.PubSubPublisher != nil {
		summaryPublisher = a.PubSubPublisher
	}

	if a.Cfg.Interest.SchedulerEnabled {
		interestService := interest.NewQuarterlyInterestService(a.MongoClient,
			a.ChargeProducer, summaryPublisher, a.RunMarker, a.Cfg.Interest, a.Cfg.PubSub)
		interestScheduler, err := scheduler.NewInterestScheduler(a.Cfg.Interest.CronSpec, func() {
			if _, err := interestService.RunQuarterlyInterest(context.Background(), time.Now()); err != nil {
				logger.Error("Scheduled quarterly interest run failed", err)
			}
		})
		if err != nil {
			logger.CtxError(ctx, "Failed to create interest scheduler", err)
			return err
		}
		a.Scheduler = interestScheduler
		a.Scheduler.Start()
	}

	engine := router.SetupRouter(ctx, a.MongoClient, a.ChargeProducer,
		summaryPublisher, a.RunMarker, a.Cfg)
	a.HTTPServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", a.Cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := a.HTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.CtxError(ctx, log_messages.ServerStartFailure, err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	a.Shutdown(ctx)
	logger.CtxInfo(ctx, log_messages.ServerExiting)
	return nil
}

// Shutdown gracefully closes all resources with bounded timeouts.
func (a *App) Shutdown(ctx context.Context) {
	if a.Scheduler != nil {
		<-a.Scheduler.Stop().Done()
	}
	cleanup.CleanupResources(ctx,
		a.PubSubPublisher,
		a.KafkaProducer,
		a.MongoClient,
		a.RedisClient,
		a.HTTPServer,
	)
}
