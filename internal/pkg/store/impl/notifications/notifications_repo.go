package notifications

import (
	"context"
	"fmt"
	"time"

	"loanbook-worker/internal/pkg/consts"
	mongodb "loanbook-worker/internal/pkg/db/mongo"
	"loanbook-worker/internal/pkg/logger"
	"loanbook-worker/internal/pkg/models"
	storemodels "loanbook-worker/internal/pkg/store/models"
	"loanbook-worker/internal/pkg/store/repository"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var validate = validator.New()

type NotificationStore interface {
	Create(ctx context.Context, document interface{}) (*mongo.InsertOneResult, error)
}

// NotificationsRepository is the append-only sink for run summaries.
// Rows are only ever inserted.
type NotificationsRepository struct {
	repo NotificationStore
}

func NewNotificationsRepository(client *mongodb.MongoClient) *NotificationsRepository {
	collection := client.Database.Collection(consts.NotificationsCollection)
	return &NotificationsRepository{repo: repository.NewMongoRepository[storemodels.Notifications](collection)}
}

func NewNotificationsRepositoryWithStore(store NotificationStore) *NotificationsRepository {
	return &NotificationsRepository{repo: store}
}

func (nr *NotificationsRepository) Insert(ctx context.Context, notification models.Notification) error {
	if err := validate.Struct(notification); err != nil {
		return fmt.Errorf("invalid notification payload: %w", err)
	}

	doc := storemodels.Notifications{
		Type:      notification.Type,
		Status:    notification.Status,
		Message:   notification.Message,
		Metadata:  bson.M(notification.Metadata),
		CreatedAt: notification.CreatedAt,
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	if _, err := nr.repo.Create(ctx, doc); err != nil {
		logger.CtxError(ctx, "Error inserting notification", err)
		return err
	}
	return nil
}
