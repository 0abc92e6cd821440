package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"loanbook-worker/internal/pkg/consts"
	"loanbook-worker/internal/pkg/models"
	storemodels "loanbook-worker/internal/pkg/store/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/mongo"
)

type MockNotificationStore struct {
	mock.Mock
}

func (m *MockNotificationStore) Create(ctx context.Context, document interface{}) (*mongo.InsertOneResult, error) {
	args := m.Called(ctx, document)
	return args.Get(0).(*mongo.InsertOneResult), args.Error(1)
}

func TestInsertNotification(t *testing.T) {
	store := new(MockNotificationStore)
	repo := NewNotificationsRepositoryWithStore(store)

	store.On("Create", mock.Anything, mock.MatchedBy(func(doc interface{}) bool {
		n, ok := doc.(storemodels.Notifications)
		return ok && n.Type == consts.NotificationTypeQuarterlyInterest &&
			n.Status == consts.NotificationStatusSuccess
	})).Return(&mongo.InsertOneResult{}, nil)

	err := repo.Insert(context.Background(), models.Notification{
		Type:      consts.NotificationTypeQuarterlyInterest,
		Status:    consts.NotificationStatusSuccess,
		Message:   "Q3 2025-26: charged 125.00 across 5 customers",
		Metadata:  map[string]interface{}{"success": 5},
		CreatedAt: time.Now().UTC(),
	})

	assert.NoError(t, err)
	store.AssertExpectations(t)
}

func TestInsertNotificationRejectsInvalidStatus(t *testing.T) {
	store := new(MockNotificationStore)
	repo := NewNotificationsRepositoryWithStore(store)

	err := repo.Insert(context.Background(), models.Notification{
		Type:    consts.NotificationTypeQuarterlyInterest,
		Status:  "NotAStatus",
		Message: "bad",
	})

	assert.Error(t, err)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInsertNotificationStoreError(t *testing.T) {
	store := new(MockNotificationStore)
	repo := NewNotificationsRepositoryWithStore(store)

	store.On("Create", mock.Anything, mock.Anything).
		Return(&mongo.InsertOneResult{}, errors.New("write concern timeout"))

	err := repo.Insert(context.Background(), models.Notification{
		Type:    consts.NotificationTypeQuarterlyInterest,
		Status:  consts.NotificationStatusWarning,
		Message: "partial run",
	})

	assert.Error(t, err)
}
