package interfaces

import (
	"context"

	"loanbook-worker/internal/pkg/models"

	"github.com/shopspring/decimal"
)

// SubscriptionsRepoInterface is the atomic per-customer interest
// operation. Implementations must be idempotent per (customer, quarter):
// a repeat invocation returns a skipped application, never a second
// charge.
type SubscriptionsRepoInterface interface {
	ApplyQuarterlyInterest(ctx context.Context, customerID, quarterKey, runID string,
		rate decimal.Decimal) (models.InterestApplication, error)
}
