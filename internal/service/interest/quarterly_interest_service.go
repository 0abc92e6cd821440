package interest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"loanbook-worker/internal/pkg/config"
	"loanbook-worker/internal/pkg/consts"
	"loanbook-worker/internal/pkg/fiscal"
	"loanbook-worker/internal/pkg/log_messages"
	"loanbook-worker/internal/pkg/logger"
	"loanbook-worker/internal/pkg/models"
	"loanbook-worker/internal/pkg/money"
	"loanbook-worker/internal/pkg/store/impl/customers"
	"loanbook-worker/internal/pkg/store/impl/notifications"
	"loanbook-worker/internal/pkg/store/impl/subscriptions"
	"loanbook-worker/internal/service/interfaces"

	mongodb "loanbook-worker/internal/pkg/db/mongo"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// runMarkerTTL keeps the advisory duplicate-trigger marker around long
// enough to cover a full quarter of accidental re-fires.
const runMarkerTTL = 92 * 24 * time.Hour

type QuarterlyInterestServiceInterface interface {
	RunQuarterlyInterest(ctx context.Context, now time.Time) (*models.RunResult, error)
}

// QuarterlyInterestService applies one quarter of interest to every
// active customer's subscription balance and records exactly one
// summary notification per run. Per-customer failures are isolated:
// one bad customer never aborts the loop.
type QuarterlyInterestService struct {
	customersRepo     interfaces.CustomersRepoInterface
	subscriptionsRepo interfaces.SubscriptionsRepoInterface
	notificationsRepo interfaces.NotificationsRepoInterface
	chargeProducer    interfaces.ChargeEventProducerInterface
	summaryPublisher  interfaces.RuntimePubSubPublisher
	runMarker         interfaces.RunMarkerInterface
	interestConfig    config.InterestConfig
	pubSubConfig      config.PubSubConfig
}

func NewQuarterlyInterestService(client *mongodb.MongoClient,
	chargeProducer interfaces.ChargeEventProducerInterface,
	summaryPublisher interfaces.RuntimePubSubPublisher,
	runMarker interfaces.RunMarkerInterface,
	interestConfig config.InterestConfig,
	pubSubConfig config.PubSubConfig) *QuarterlyInterestService {
	return &QuarterlyInterestService{
		customersRepo:     customers.NewCustomersRepository(client),
		subscriptionsRepo: subscriptions.NewSubscriptionsRepository(client),
		notificationsRepo: notifications.NewNotificationsRepository(client),
		chargeProducer:    chargeProducer,
		summaryPublisher:  summaryPublisher,
		runMarker:         runMarker,
		interestConfig:    interestConfig,
		pubSubConfig:      pubSubConfig,
	}
}

func NewQuarterlyInterestServiceWithDeps(
	customersRepo interfaces.CustomersRepoInterface,
	subscriptionsRepo interfaces.SubscriptionsRepoInterface,
	notificationsRepo interfaces.NotificationsRepoInterface,
	chargeProducer interfaces.ChargeEventProducerInterface,
	summaryPublisher interfaces.RuntimePubSubPublisher,
	runMarker interfaces.RunMarkerInterface,
	interestConfig config.InterestConfig,
	pubSubConfig config.PubSubConfig,
) *QuarterlyInterestService {
	return &QuarterlyInterestService{
		customersRepo:     customersRepo,
		subscriptionsRepo: subscriptionsRepo,
		notificationsRepo: notificationsRepo,
		chargeProducer:    chargeProducer,
		summaryPublisher:  summaryPublisher,
		runMarker:         runMarker,
		interestConfig:    interestConfig,
		pubSubConfig:      pubSubConfig,
	}
}

// RunQuarterlyInterest executes one full interest run for the quarter
// containing now. A non-nil error means the run could not start at all;
// per-customer failures are folded into the returned result instead.
func (s *QuarterlyInterestService) RunQuarterlyInterest(ctx context.Context,
	now time.Time) (*models.RunResult, error) {
	runID := uuid.NewString()
	ctx = logger.WithTraceID(ctx, runID)

	quarter := fiscal.Resolve(now)
	quarterKey := quarter.Key(now)
	fiscalYearLabel := fiscal.FiscalYearLabel(now)

	logger.CtxInfo(ctx, log_messages.InterestRunStarted,
		slog.String("run_id", runID),
		slog.String("quarter", quarterKey),
		slog.String("rate", s.interestConfig.QuarterlyRate))

	s.markRunAdvisory(ctx, quarterKey)

	activeCustomers, err := s.customersRepo.ListActiveCustomers(ctx)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorListingCustomers, err)
		s.insertNotification(ctx, models.Notification{
			Type:    consts.NotificationTypeQuarterlyInterest,
			Status:  consts.NotificationStatusError,
			Message: fmt.Sprintf("Quarterly interest run %s for %s could not start: %v", runID, quarterKey, err),
			Metadata: map[string]interface{}{
				"run_id":  runID,
				"quarter": quarterKey,
			},
		})
		return nil, fmt.Errorf("listing active customers: %w", err)
	}

	result := &models.RunResult{
		Status:          models.RunCompleted,
		RunID:           runID,
		Quarter:         quarter,
		FiscalYearLabel: fiscalYearLabel,
		Timestamp:       now.UTC(),
		TotalInterest:   money.Zero,
	}

	if len(activeCustomers) == 0 {
		logger.CtxInfo(ctx, log_messages.InterestRunNoCustomers)
		result.SummaryStatus = consts.NotificationStatusPending
		s.finishRun(ctx, result, quarterKey)
		return result, nil
	}

	outcomes := s.applyToAllCustomers(ctx, activeCustomers, quarterKey, runID)

	for _, outcome := range outcomes {
		switch outcome.Status {
		case consts.OutcomeSuccess:
			result.Totals.Success++
			result.TotalInterest = result.TotalInterest.Add(outcome.InterestCharged)
		case consts.OutcomeSkipped:
			result.Totals.Skipped++
		default:
			result.Totals.Errors++
		}
	}
	result.Details = outcomes
	result.SummaryStatus = runStatus(result.Totals)

	s.finishRun(ctx, result, quarterKey)

	logger.CtxInfo(ctx, log_messages.InterestRunCompleted,
		slog.String("status", result.SummaryStatus),
		slog.Int("success", result.Totals.Success),
		slog.Int("skipped", result.Totals.Skipped),
		slog.Int("errors", result.Totals.Errors),
		slog.String("total_interest", result.TotalInterest.String()))

	return result, nil
}

// runStatus maps fold totals to the summary status: any error wins,
// a run that charged nobody stays Pending.
func runStatus(totals models.RunTotals) string {
	switch {
	case totals.Errors > 0:
		return consts.NotificationStatusWarning
	case totals.Success == 0:
		return consts.NotificationStatusPending
	default:
		return consts.NotificationStatusSuccess
	}
}

func (s *QuarterlyInterestService) applyToAllCustomers(ctx context.Context,
	activeCustomers []models.Customer, quarterKey, runID string) []models.CustomerOutcome {
	workerCount := s.interestConfig.WorkerCount
	if workerCount <= 0 {
		workerCount = 1
	}
	bufferSize := s.interestConfig.BufferSize
	if bufferSize <= 0 {
		bufferSize = len(activeCustomers)
	}

	customerChan := make(chan models.Customer, bufferSize)
	outcomeChan := make(chan models.CustomerOutcome, bufferSize)
	rate := s.interestConfig.QuarterlyRateDecimal()

	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for customer := range customerChan {
				outcomeChan <- s.applyForCustomer(ctx, customer, quarterKey, runID, rate)
			}
		}()
	}

	go func() {
		defer close(customerChan)
		for _, customer := range activeCustomers {
			select {
			case customerChan <- customer:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomeChan)
	}()

	outcomes := make([]models.CustomerOutcome, 0, len(activeCustomers))
	for outcome := range outcomeChan {
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

// applyForCustomer performs the single-customer store operation under
// its own deadline, converting panics and timeouts into error outcomes
// so the rest of the batch keeps going.
func (s *QuarterlyInterestService) applyForCustomer(ctx context.Context,
	customer models.Customer, quarterKey, runID string,
	rate decimal.Decimal) (outcome models.CustomerOutcome) {
	outcome = models.CustomerOutcome{
		CustomerID:        customer.ID,
		CustomerName:      customer.Name,
		InterestCharged:   money.Zero,
		SubscriptionTotal: money.Zero,
	}

	defer func() {
		if r := recover(); r != nil {
			logger.CtxError(ctx, log_messages.ErrorApplyingInterest,
				fmt.Errorf("panic: %v", r), slog.String("customer_id", customer.ID))
			outcome.Status = consts.OutcomeError
			outcome.Error = fmt.Sprintf("panic: %v", r)
		}
	}()

	customerCtx, cancel := context.WithTimeout(ctx, s.interestConfig.PerCustomerTimeout)
	defer cancel()

	application, err := s.subscriptionsRepo.ApplyQuarterlyInterest(
		customerCtx, customer.ID, quarterKey, runID, rate)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			logger.CtxError(ctx, log_messages.ErrorCustomerTimedOut, err,
				slog.String("customer_id", customer.ID))
		} else {
			logger.CtxError(ctx, log_messages.ErrorApplyingInterest, err,
				slog.String("customer_id", customer.ID))
		}
		outcome.Status = consts.OutcomeError
		outcome.Error = err.Error()
		return outcome
	}

	outcome.Status = application.Status
	outcome.InterestCharged = application.InterestCharged
	outcome.SubscriptionTotal = application.SubscriptionTotal
	outcome.Reason = application.Reason

	if application.Status == consts.OutcomeSuccess {
		s.publishChargeEvent(ctx, customer.ID, quarterKey, runID, application)
	}
	return outcome
}

// publishChargeEvent is best-effort: the balance is already committed,
// a broker outage must not turn a charged customer into an error row.
func (s *QuarterlyInterestService) publishChargeEvent(ctx context.Context,
	customerID, quarterKey, runID string, application models.InterestApplication) {
	if s.chargeProducer == nil {
		return
	}
	event := models.InterestChargeEvent{
		RunID:             runID,
		CustomerID:        customerID,
		QuarterKey:        quarterKey,
		InterestCharged:   application.InterestCharged,
		SubscriptionTotal: application.SubscriptionTotal,
		ChargedAt:         time.Now().UTC(),
	}
	if err := s.chargeProducer.PublishChargeEvent(ctx, event); err != nil {
		logger.CtxError(ctx, log_messages.ErrorPublishingChargeEvent, err,
			slog.String("customer_id", customerID))
	}
}

// markRunAdvisory flags the quarter in Redis so duplicate scheduler
// fires show up in the logs. The store-level quarter check is what
// actually prevents double charging.
func (s *QuarterlyInterestService) markRunAdvisory(ctx context.Context, quarterKey string) {
	if s.runMarker == nil {
		return
	}
	first, err := s.runMarker.TryMarkRun(ctx, "interest:run:"+quarterKey, runMarkerTTL)
	if err != nil {
		logger.CtxWarn(ctx, log_messages.ErrorSettingRunMarker, slog.String("error", err.Error()))
		return
	}
	if !first {
		logger.CtxWarn(ctx, log_messages.InterestRunAlreadyInProgress,
			slog.String("quarter", quarterKey))
	}
}

// finishRun writes the single summary notification and publishes the
// run result to the ops topic. Both are best-effort; the run's outcome
// is already decided.
func (s *QuarterlyInterestService) finishRun(ctx context.Context,
	result *models.RunResult, quarterKey string) {
	s.insertNotification(ctx, s.buildSummaryNotification(result, quarterKey))
	s.publishSummary(ctx, result)
}

func (s *QuarterlyInterestService) buildSummaryNotification(result *models.RunResult,
	quarterKey string) models.Notification {
	message := fmt.Sprintf(
		"Quarterly interest run for %s (%s): %d charged, %d skipped, %d failed, total interest %s",
		quarterKey, result.FiscalYearLabel,
		result.Totals.Success, result.Totals.Skipped, result.Totals.Errors,
		result.TotalInterest.StringFixed(2))
	if result.Totals.Success+result.Totals.Skipped+result.Totals.Errors == 0 {
		message = fmt.Sprintf("Quarterly interest run for %s (%s): no active customers",
			quarterKey, result.FiscalYearLabel)
	}

	metadata := map[string]interface{}{
		"run_id":         result.RunID,
		"quarter":        result.Quarter.Label,
		"quarter_key":    quarterKey,
		"fiscal_year":    result.FiscalYearLabel,
		"period_start":   result.Quarter.Start.Format(time.RFC3339),
		"period_end":     result.Quarter.End.Format(time.RFC3339),
		"success":        result.Totals.Success,
		"skipped":        result.Totals.Skipped,
		"errors":         result.Totals.Errors,
		"total_interest": result.TotalInterest.StringFixed(2),
	}

	successSample, skippedSample, errorSample := sampleOutcomes(result.Details)
	if len(successSample) > 0 {
		metadata["success_sample"] = successSample
	}
	if len(skippedSample) > 0 {
		metadata["skipped_sample"] = skippedSample
	}
	if len(errorSample) > 0 {
		metadata["error_sample"] = errorSample
	}

	return models.Notification{
		Type:     consts.NotificationTypeQuarterlyInterest,
		Status:   result.SummaryStatus,
		Message:  message,
		Metadata: metadata,
	}
}

// sampleOutcomes keeps the notification payload bounded: at most
// OutcomeSampleLimit entries per category regardless of customer count.
func sampleOutcomes(details []models.CustomerOutcome) (successSample, skippedSample []map[string]interface{}, errorSample []map[string]interface{}) {
	for _, outcome := range details {
		switch outcome.Status {
		case consts.OutcomeSuccess:
			if len(successSample) < consts.OutcomeSampleLimit {
				successSample = append(successSample, map[string]interface{}{
					"customer_id":        outcome.CustomerID,
					"interest_charged":   outcome.InterestCharged.StringFixed(2),
					"subscription_total": outcome.SubscriptionTotal.StringFixed(2),
				})
			}
		case consts.OutcomeSkipped:
			if len(skippedSample) < consts.OutcomeSampleLimit {
				skippedSample = append(skippedSample, map[string]interface{}{
					"customer_id": outcome.CustomerID,
					"reason":      outcome.Reason,
				})
			}
		default:
			if len(errorSample) < consts.OutcomeSampleLimit {
				errorSample = append(errorSample, map[string]interface{}{
					"customer_id": outcome.CustomerID,
					"error":       outcome.Error,
				})
			}
		}
	}
	return successSample, skippedSample, errorSample
}

func (s *QuarterlyInterestService) insertNotification(ctx context.Context,
	notification models.Notification) {
	if err := s.notificationsRepo.Insert(ctx, notification); err != nil {
		logger.CtxError(ctx, log_messages.ErrorInsertingNotification, err)
	}
}

func (s *QuarterlyInterestService) publishSummary(ctx context.Context, result *models.RunResult) {
	if s.summaryPublisher == nil || !s.pubSubConfig.Enabled {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorPublishingSummary, err)
		return
	}
	if err := s.summaryPublisher.Publish(ctx, s.pubSubConfig.NotificationTopic, payload); err != nil {
		logger.CtxError(ctx, log_messages.ErrorPublishingSummary, err)
	}
}
