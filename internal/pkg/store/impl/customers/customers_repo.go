package customers

import (
	"context"
	"log/slog"

	"loanbook-worker/internal/pkg/consts"
	mongodb "loanbook-worker/internal/pkg/db/mongo"
	"loanbook-worker/internal/pkg/logger"
	"loanbook-worker/internal/pkg/models"
	storemodels "loanbook-worker/internal/pkg/store/models"
	"loanbook-worker/internal/pkg/store/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CustomerStore interface {
	Find(ctx context.Context, filter interface{},
		opts ...*options.FindOptions) ([]storemodels.Customers, error)
}

type CustomersRepository struct {
	repo CustomerStore
}

func NewCustomersRepository(client *mongodb.MongoClient) *CustomersRepository {
	collection := client.Database.Collection(consts.CustomersCollection)
	return &CustomersRepository{repo: repository.NewMongoRepository[storemodels.Customers](collection)}
}

func NewCustomersRepositoryWithStore(store CustomerStore) *CustomersRepository {
	return &CustomersRepository{repo: store}
}

// ListActiveCustomers returns every customer that has not been
// soft-deleted.
func (cr *CustomersRepository) ListActiveCustomers(ctx context.Context) ([]models.Customer, error) {
	filter := bson.M{"isDeleted": bson.M{"$ne": true}}

	docs, err := cr.repo.Find(ctx, filter)
	if err != nil {
		logger.CtxError(ctx, "Error fetching active customers", err)
		return nil, err
	}

	customers := make([]models.Customer, 0, len(docs))
	for _, doc := range docs {
		customers = append(customers, models.Customer{
			ID:    doc.ID.Hex(),
			Name:  doc.Name,
			Phone: doc.Phone,
		})
	}

	logger.CtxDebug(ctx, "Fetched active customers", slog.Int("count", len(customers)))
	return customers, nil
}
