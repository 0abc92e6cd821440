package subscriptions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"loanbook-worker/internal/pkg/consts"
	mongodb "loanbook-worker/internal/pkg/db/mongo"
	"loanbook-worker/internal/pkg/logger"
	"loanbook-worker/internal/pkg/models"
	"loanbook-worker/internal/pkg/money"
	storemodels "loanbook-worker/internal/pkg/store/models"
	"loanbook-worker/internal/pkg/store/repository"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// maxCASAttempts bounds retries when a concurrent writer bumps the
// subscription version between our read and conditional update.
const maxCASAttempts = 3

var ErrConcurrentUpdate = errors.New("subscription update lost the version race repeatedly")

type SubscriptionStore interface {
	FindOne(ctx context.Context, filter interface{},
		opts ...*options.FindOneOptions) (storemodels.Subscriptions, error)
	UpdateOneWithResult(ctx context.Context, filter interface{},
		update interface{}) (*mongo.UpdateResult, error)
}

type ChargeStore interface {
	Create(ctx context.Context, document interface{}) (*mongo.InsertOneResult, error)
}

type SubscriptionsRepository struct {
	subs    SubscriptionStore
	charges ChargeStore
}

func NewSubscriptionsRepository(client *mongodb.MongoClient) *SubscriptionsRepository {
	subsCollection := client.Database.Collection(consts.SubscriptionsCollection)
	chargesCollection := client.Database.Collection(consts.InterestChargesCollection)
	return &SubscriptionsRepository{
		subs:    repository.NewMongoRepository[storemodels.Subscriptions](subsCollection),
		charges: repository.NewMongoRepository[storemodels.InterestCharges](chargesCollection),
	}
}

func NewSubscriptionsRepositoryWithStores(subs SubscriptionStore, charges ChargeStore) *SubscriptionsRepository {
	return &SubscriptionsRepository{subs: subs, charges: charges}
}

// ApplyQuarterlyInterest charges one quarter's compounding interest to a
// customer's subscription balance, at most once per (customer, quarter).
//
// The subscription document is its own idempotency ledger: the
// conditional update only matches while lastInterestQuarter differs from
// the quarter key and the version is the one we read, so concurrent or
// repeated invocations collapse to exactly one applied charge; every
// other caller observes the recorded quarter and reports skipped.
func (sr *SubscriptionsRepository) ApplyQuarterlyInterest(ctx context.Context,
	customerID, quarterKey, runID string, rate decimal.Decimal) (models.InterestApplication, error) {

	customerOID, err := primitive.ObjectIDFromHex(customerID)
	if err != nil {
		return models.InterestApplication{}, fmt.Errorf("invalid customer id %q: %w", customerID, err)
	}

	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		sub, err := sr.subs.FindOne(ctx, bson.M{"customerId": customerOID})
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return models.InterestApplication{
					Status: consts.OutcomeSkipped,
					Reason: "no subscription balance on record",
				}, nil
			}
			return models.InterestApplication{}, err
		}

		if sub.LastInterestQuarter == quarterKey {
			return models.InterestApplication{
				Status: consts.OutcomeSkipped,
				Reason: "quarter already processed",
			}, nil
		}

		balance, err := money.FromDecimal128(sub.Balance)
		if err != nil {
			return models.InterestApplication{}, fmt.Errorf(
				"subscription %s: stored balance is not a decimal: %w", sub.ID.Hex(), err)
		}

		interest := balance.Mul(rate).Round(2)
		newBalance := balance.Add(interest)

		newBalance128, err := newBalance.ToDecimal128()
		if err != nil {
			return models.InterestApplication{}, err
		}

		filter := bson.M{
			"_id":                 sub.ID,
			"version":             sub.Version,
			"lastInterestQuarter": bson.M{"$ne": quarterKey},
		}
		update := bson.M{
			"$set": bson.M{
				"balance":             newBalance128,
				"lastInterestQuarter": quarterKey,
				"updatedAt":           time.Now().UTC(),
			},
			"$inc": bson.M{"version": 1},
		}

		result, err := sr.subs.UpdateOneWithResult(ctx, filter, update)
		if err != nil {
			return models.InterestApplication{}, err
		}

		if result.ModifiedCount == 1 {
			sr.recordCharge(ctx, customerOID, quarterKey, runID, interest, newBalance)
			return models.InterestApplication{
				Status:            consts.OutcomeSuccess,
				InterestCharged:   interest,
				SubscriptionTotal: newBalance,
			}, nil
		}

		// Matched nothing: either another invocation already recorded
		// this quarter, or we lost a pure version race. Re-read decides.
		logger.CtxDebug(ctx, "Subscription CAS missed, re-reading",
			slog.String("customer_id", customerID), slog.Int("attempt", attempt+1))
	}

	return models.InterestApplication{}, ErrConcurrentUpdate
}

// recordCharge appends the audit row for an applied charge. The CAS has
// already guaranteed at-most-once application, so a failed audit insert
// is logged rather than unwinding the charge.
func (sr *SubscriptionsRepository) recordCharge(ctx context.Context, customerOID primitive.ObjectID,
	quarterKey, runID string, interest, newBalance money.Money) {

	interest128, err := interest.ToDecimal128()
	if err != nil {
		logger.CtxError(ctx, "Failed to encode interest charge amount", err)
		return
	}
	newBalance128, err := newBalance.ToDecimal128()
	if err != nil {
		logger.CtxError(ctx, "Failed to encode subscription total", err)
		return
	}

	charge := storemodels.InterestCharges{
		CustomerID:        customerOID,
		QuarterKey:        quarterKey,
		RunID:             runID,
		InterestCharged:   interest128,
		SubscriptionTotal: newBalance128,
		CreatedAt:         time.Now().UTC(),
	}

	if _, err := sr.charges.Create(ctx, charge); err != nil {
		logger.CtxError(ctx, "Failed to record interest charge audit row", err,
			slog.String("customer_id", customerOID.Hex()), slog.String("quarter_key", quarterKey))
	}
}
