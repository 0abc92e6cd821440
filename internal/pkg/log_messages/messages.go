package log_messages

const (
	FailedLoadingConfiguration = "Failed to load configuration: %v"
	ServerStartFailure         = "failed to start server: %v"
	ServerExiting              = "Server exiting"
	CleanupStarted             = "Starting cleanup of resources..."
	CleanupCompleted           = "All resources cleaned up successfully"

	// Quarterly interest run
	InterestRunStarted           = "Quarterly interest run started"
	InterestRunCompleted         = "Quarterly interest run completed"
	InterestRunNoCustomers       = "No active customers found for quarterly interest run"
	InterestRunAlreadyInProgress = "Quarterly interest run marker already present, possible duplicate trigger"
	ErrorListingCustomers        = "Failed to list active customers"
	ErrorApplyingInterest        = "Failed to apply quarterly interest for customer"
	ErrorCustomerTimedOut        = "Quarterly interest application timed out for customer"
	ErrorInsertingNotification   = "Failed to insert run summary notification"
	ErrorPublishingSummary       = "Failed to publish run summary to Pub/Sub"
	ErrorPublishingChargeEvent   = "Failed to publish interest charge event to Kafka"
	ErrorSettingRunMarker        = "Failed to set duplicate-trigger marker in Redis"

	// Messaging lifecycle
	KafkaProducerCreated   = "Kafka producer created"
	PubSubPublisherCreated = "PubSub publisher created"

	// Loan status
	ErrorFetchingLoan         = "Failed to fetch loan"
	ErrorFetchingInstallments = "Failed to fetch installments for loan"
	ErrorComputingLoanStatus  = "Failed to compute loan status"

	// Trigger authentication
	ErrorMissingTriggerSecret    = "Trigger secret is not configured; refusing to run outside non-production"
	ErrorUnauthorizedTrigger     = "Rejected quarterly interest trigger with missing or invalid credential"
	UnauthorizedTriggerResponse  = "missing or invalid trigger credential"
	TriggerSecretMissingResponse = "trigger secret not configured"
)
