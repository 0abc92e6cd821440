package router

import (
	"context"

	"loanbook-worker/internal/app/handlers"
	"loanbook-worker/internal/pkg/config"
	mongodb "loanbook-worker/internal/pkg/db/mongo"
	"loanbook-worker/internal/pkg/store/impl/installments"
	"loanbook-worker/internal/pkg/store/impl/loans"
	"loanbook-worker/internal/service/interest"
	"loanbook-worker/internal/service/interfaces"
	"loanbook-worker/internal/service/loanstatus"

	"github.com/gin-gonic/gin"
)

func SetupRouter(ctx context.Context, mongoClient *mongodb.MongoClient,
	chargeProducer interfaces.ChargeEventProducerInterface,
	summaryPublisher interfaces.RuntimePubSubPublisher,
	runMarker interfaces.RunMarkerInterface,
	cfg *config.AppConfig) *gin.Engine {
	server := gin.Default()

	healthCheckHandler := handlers.NewHealthCheckHandler()
	server.GET("/loanbook/health", healthCheckHandler.HealthCheck)

	interestService := interest.NewQuarterlyInterestService(mongoClient, chargeProducer,
		summaryPublisher, runMarker, cfg.Interest, cfg.PubSub)
	interestHandler := handlers.NewQuarterlyInterestHandler(interestService, cfg.Interest)
	// Trigger is POST-only: running the batch is a state change, not a read.
	server.POST("/internal/interest/quarterly", interestHandler.TriggerQuarterlyInterest)

	loanStatusService := loanstatus.NewLoanStatusService(
		loans.NewLoansRepository(mongoClient),
		installments.NewInstallmentsRepository(mongoClient))
	loanStatusHandler := handlers.NewLoanStatusHandler(loanStatusService)
	server.GET("/loans/:id/status", loanStatusHandler.GetLoanStatus)

	return server
}
