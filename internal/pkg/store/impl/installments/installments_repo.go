package installments

import (
	"context"
	"fmt"
	"log/slog"

	"loanbook-worker/internal/pkg/consts"
	mongodb "loanbook-worker/internal/pkg/db/mongo"
	"loanbook-worker/internal/pkg/logger"
	"loanbook-worker/internal/pkg/models"
	"loanbook-worker/internal/pkg/money"
	storemodels "loanbook-worker/internal/pkg/store/models"
	"loanbook-worker/internal/pkg/store/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type InstallmentStore interface {
	Find(ctx context.Context, filter interface{},
		opts ...*options.FindOptions) ([]storemodels.Installments, error)
}

type InstallmentsRepository struct {
	repo InstallmentStore
}

func NewInstallmentsRepository(client *mongodb.MongoClient) *InstallmentsRepository {
	collection := client.Database.Collection(consts.InstallmentsCollection)
	return &InstallmentsRepository{repo: repository.NewMongoRepository[storemodels.Installments](collection)}
}

func NewInstallmentsRepositoryWithStore(store InstallmentStore) *InstallmentsRepository {
	return &InstallmentsRepository{repo: store}
}

// ListByLoanID returns the loan's installments ordered by installment
// number.
func (ir *InstallmentsRepository) ListByLoanID(ctx context.Context, loanID string) ([]models.Installment, error) {
	objectID, err := primitive.ObjectIDFromHex(loanID)
	if err != nil {
		logger.CtxError(ctx, "Invalid ObjectID for loan", err, slog.String("loan_id", loanID))
		return nil, fmt.Errorf("invalid loan id %q: %w", loanID, err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "installmentNumber", Value: 1}})
	docs, err := ir.repo.Find(ctx, bson.M{"loanId": objectID}, opts)
	if err != nil {
		logger.CtxError(ctx, "Error fetching installments", err, slog.String("loan_id", loanID))
		return nil, err
	}

	installments := make([]models.Installment, 0, len(docs))
	for _, doc := range docs {
		installment, err := toDomainInstallment(doc)
		if err != nil {
			return nil, err
		}
		installments = append(installments, installment)
	}

	logger.CtxDebug(ctx, "Fetched installments",
		slog.String("loan_id", loanID), slog.Int("count", len(installments)))
	return installments, nil
}

func toDomainInstallment(doc storemodels.Installments) (models.Installment, error) {
	amount, err := money.FromDecimal128(doc.Amount)
	if err != nil {
		return models.Installment{}, fmt.Errorf(
			"installment %s: stored amount is not a decimal: %w", doc.ID.Hex(), err)
	}

	installment := models.Installment{
		ID:                doc.ID.Hex(),
		LoanID:            doc.LoanID.Hex(),
		InstallmentNumber: int(doc.InstallmentNumber),
		Amount:            amount,
		Date:              doc.Date,
		ReceiptNumber:     doc.ReceiptNumber,
	}

	if doc.LateFee != nil {
		lateFee, err := money.FromDecimal128(*doc.LateFee)
		if err != nil {
			return models.Installment{}, fmt.Errorf(
				"installment %s: stored lateFee is not a decimal: %w", doc.ID.Hex(), err)
		}
		installment.LateFee = &lateFee
	}

	return installment, nil
}
