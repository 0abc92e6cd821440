package models

import (
	"time"

	"loanbook-worker/internal/pkg/fiscal"
	"loanbook-worker/internal/pkg/money"
)

// CustomerOutcome is the tagged result of one customer's interest
// application: exactly one of success, skipped, or error.
type CustomerOutcome struct {
	CustomerID        string      `json:"customerId"`
	CustomerName      string      `json:"customerName"`
	Status            string      `json:"status"`
	InterestCharged   money.Money `json:"interestCharged"`
	SubscriptionTotal money.Money `json:"subscriptionTotal"`
	Reason            string      `json:"reason,omitempty"`
	Error             string      `json:"error,omitempty"`
}

// InterestApplication is the data store's answer for one customer:
// either the charge was applied now (success) or it was already applied
// for this quarter / nothing to charge (skipped). Failures surface as
// ordinary errors.
type InterestApplication struct {
	Status            string
	InterestCharged   money.Money
	SubscriptionTotal money.Money
	Reason            string
}

type RunTotals struct {
	Success int `json:"success"`
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
}

// RunCompleted is the status of every RunResult that reaches a caller.
// Runs that fail before the per-customer loop return an error instead
// of a result, so there is no other value.
const RunCompleted = "completed"

// RunResult is the structured outcome of one quarterly interest run,
// returned to the HTTP or scheduler layer and summarized into exactly
// one Notification. Status says the run finished; SummaryStatus says
// how well it went (Success/Pending/Warning).
type RunResult struct {
	Status          string            `json:"status"`
	SummaryStatus   string            `json:"summaryStatus"`
	RunID           string            `json:"runId"`
	Quarter         fiscal.Quarter    `json:"quarter"`
	FiscalYearLabel string            `json:"fiscalYearLabel"`
	Timestamp       time.Time         `json:"timestamp"`
	Totals          RunTotals         `json:"totals"`
	TotalInterest   money.Money       `json:"totalInterest"`
	Details         []CustomerOutcome `json:"details"`
}

// InterestChargeEvent is the Kafka payload emitted for each successful
// interest charge.
type InterestChargeEvent struct {
	RunID             string      `json:"runId"`
	CustomerID        string      `json:"customerId"`
	QuarterKey        string      `json:"quarterKey"`
	InterestCharged   money.Money `json:"interestCharged"`
	SubscriptionTotal money.Money `json:"subscriptionTotal"`
	ChargedAt         time.Time   `json:"chargedAt"`
}
