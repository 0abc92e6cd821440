package subscriptions

import (
	"context"
	"testing"

	"loanbook-worker/internal/pkg/consts"
	storemodels "loanbook-worker/internal/pkg/store/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MockSubscriptionStore struct {
	mock.Mock
}

func (m *MockSubscriptionStore) FindOne(ctx context.Context, filter interface{},
	opts ...*options.FindOneOptions) (storemodels.Subscriptions, error) {
	args := m.Called(ctx, filter, opts)
	return args.Get(0).(storemodels.Subscriptions), args.Error(1)
}

func (m *MockSubscriptionStore) UpdateOneWithResult(ctx context.Context, filter interface{},
	update interface{}) (*mongo.UpdateResult, error) {
	args := m.Called(ctx, filter, update)
	return args.Get(0).(*mongo.UpdateResult), args.Error(1)
}

type MockChargeStore struct {
	mock.Mock
}

func (m *MockChargeStore) Create(ctx context.Context, document interface{}) (*mongo.InsertOneResult, error) {
	args := m.Called(ctx, document)
	return args.Get(0).(*mongo.InsertOneResult), args.Error(1)
}

func dec128(t *testing.T, s string) primitive.Decimal128 {
	t.Helper()
	d, err := primitive.ParseDecimal128(s)
	require.NoError(t, err)
	return d
}

func TestApplyQuarterlyInterestSuccess(t *testing.T) {
	subs := new(MockSubscriptionStore)
	charges := new(MockChargeStore)
	repo := NewSubscriptionsRepositoryWithStores(subs, charges)

	customerID := primitive.NewObjectID()
	sub := storemodels.Subscriptions{
		ID:                  primitive.NewObjectID(),
		CustomerID:          customerID,
		Balance:             dec128(t, "1000.00"),
		LastInterestQuarter: "2025-26-Q2",
		Version:             3,
	}

	subs.On("FindOne", mock.Anything, mock.Anything, mock.Anything).Return(sub, nil)
	subs.On("UpdateOneWithResult", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)
	charges.On("Create", mock.Anything, mock.Anything).Return(&mongo.InsertOneResult{}, nil)

	result, err := repo.ApplyQuarterlyInterest(context.Background(),
		customerID.Hex(), "2025-26-Q3", "run-1", decimal.RequireFromString("0.025"))

	require.NoError(t, err)
	assert.Equal(t, consts.OutcomeSuccess, result.Status)
	assert.Equal(t, "25", result.InterestCharged.String())
	assert.Equal(t, "1025", result.SubscriptionTotal.String())
	subs.AssertExpectations(t)
	charges.AssertExpectations(t)
}

func TestApplyQuarterlyInterestAlreadyProcessed(t *testing.T) {
	subs := new(MockSubscriptionStore)
	charges := new(MockChargeStore)
	repo := NewSubscriptionsRepositoryWithStores(subs, charges)

	customerID := primitive.NewObjectID()
	sub := storemodels.Subscriptions{
		ID:                  primitive.NewObjectID(),
		CustomerID:          customerID,
		Balance:             dec128(t, "1025.00"),
		LastInterestQuarter: "2025-26-Q3",
		Version:             4,
	}

	subs.On("FindOne", mock.Anything, mock.Anything, mock.Anything).Return(sub, nil)

	result, err := repo.ApplyQuarterlyInterest(context.Background(),
		customerID.Hex(), "2025-26-Q3", "run-2", decimal.RequireFromString("0.025"))

	require.NoError(t, err)
	assert.Equal(t, consts.OutcomeSkipped, result.Status)
	assert.Equal(t, "quarter already processed", result.Reason)
	subs.AssertNotCalled(t, "UpdateOneWithResult", mock.Anything, mock.Anything, mock.Anything)
	charges.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestApplyQuarterlyInterestNoSubscription(t *testing.T) {
	subs := new(MockSubscriptionStore)
	charges := new(MockChargeStore)
	repo := NewSubscriptionsRepositoryWithStores(subs, charges)

	subs.On("FindOne", mock.Anything, mock.Anything, mock.Anything).
		Return(storemodels.Subscriptions{}, mongo.ErrNoDocuments)

	result, err := repo.ApplyQuarterlyInterest(context.Background(),
		primitive.NewObjectID().Hex(), "2025-26-Q3", "run-3", decimal.RequireFromString("0.025"))

	require.NoError(t, err)
	assert.Equal(t, consts.OutcomeSkipped, result.Status)
	assert.Equal(t, "no subscription balance on record", result.Reason)
}

func TestApplyQuarterlyInterestLostRaceBecomesSkipped(t *testing.T) {
	subs := new(MockSubscriptionStore)
	charges := new(MockChargeStore)
	repo := NewSubscriptionsRepositoryWithStores(subs, charges)

	customerID := primitive.NewObjectID()
	before := storemodels.Subscriptions{
		ID:                  primitive.NewObjectID(),
		CustomerID:          customerID,
		Balance:             dec128(t, "1000.00"),
		LastInterestQuarter: "2025-26-Q2",
		Version:             3,
	}
	// A concurrent invocation applied the quarter between our read and
	// our conditional update.
	after := before
	after.Balance = dec128(t, "1025.00")
	after.LastInterestQuarter = "2025-26-Q3"
	after.Version = 4

	subs.On("FindOne", mock.Anything, mock.Anything, mock.Anything).Return(before, nil).Once()
	subs.On("UpdateOneWithResult", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 0, ModifiedCount: 0}, nil).Once()
	subs.On("FindOne", mock.Anything, mock.Anything, mock.Anything).Return(after, nil).Once()

	result, err := repo.ApplyQuarterlyInterest(context.Background(),
		customerID.Hex(), "2025-26-Q3", "run-4", decimal.RequireFromString("0.025"))

	require.NoError(t, err)
	assert.Equal(t, consts.OutcomeSkipped, result.Status)
	charges.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestApplyQuarterlyInterestExhaustsRetries(t *testing.T) {
	subs := new(MockSubscriptionStore)
	charges := new(MockChargeStore)
	repo := NewSubscriptionsRepositoryWithStores(subs, charges)

	customerID := primitive.NewObjectID()
	sub := storemodels.Subscriptions{
		ID:                  primitive.NewObjectID(),
		CustomerID:          customerID,
		Balance:             dec128(t, "1000.00"),
		LastInterestQuarter: "2025-26-Q2",
		Version:             3,
	}

	subs.On("FindOne", mock.Anything, mock.Anything, mock.Anything).Return(sub, nil)
	subs.On("UpdateOneWithResult", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 0, ModifiedCount: 0}, nil)

	_, err := repo.ApplyQuarterlyInterest(context.Background(),
		customerID.Hex(), "2025-26-Q3", "run-5", decimal.RequireFromString("0.025"))

	assert.ErrorIs(t, err, ErrConcurrentUpdate)
}

func TestApplyQuarterlyInterestInvalidCustomerID(t *testing.T) {
	repo := NewSubscriptionsRepositoryWithStores(new(MockSubscriptionStore), new(MockChargeStore))

	_, err := repo.ApplyQuarterlyInterest(context.Background(),
		"not-a-hex-id", "2025-26-Q3", "run-6", decimal.RequireFromString("0.025"))

	assert.Error(t, err)
}
