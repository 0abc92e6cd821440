package loans

import (
	"context"
	"errors"
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
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrLoanNotFound = errors.New("loan not found")

type LoanStore interface {
	FindOne(ctx context.Context, filter interface{},
		opts ...*options.FindOneOptions) (storemodels.Loans, error)
}

type LoansRepository struct {
	repo LoanStore
}

func NewLoansRepository(client *mongodb.MongoClient) *LoansRepository {
	collection := client.Database.Collection(consts.LoansCollection)
	return &LoansRepository{repo: repository.NewMongoRepository[storemodels.Loans](collection)}
}

func NewLoansRepositoryWithStore(store LoanStore) *LoansRepository {
	return &LoansRepository{repo: store}
}

func (lr *LoansRepository) GetLoanByID(ctx context.Context, id string) (*models.Loan, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		logger.CtxError(ctx, "Invalid ObjectID for loan", err, slog.String("loan_id", id))
		return nil, fmt.Errorf("invalid loan id %q: %w", id, err)
	}

	doc, err := lr.repo.FindOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			logger.CtxWarn(ctx, "No loan found", slog.String("loan_id", id))
			return nil, ErrLoanNotFound
		}
		logger.CtxError(ctx, "Error finding loan", err, slog.String("loan_id", id))
		return nil, err
	}

	return toDomainLoan(doc)
}

func toDomainLoan(doc storemodels.Loans) (*models.Loan, error) {
	originalAmount, err := money.FromDecimal128(doc.OriginalAmount)
	if err != nil {
		return nil, fmt.Errorf("loan %s: stored originalAmount is not a decimal: %w", doc.ID.Hex(), err)
	}
	interestAmount, err := money.FromDecimal128(doc.InterestAmount)
	if err != nil {
		return nil, fmt.Errorf("loan %s: stored interestAmount is not a decimal: %w", doc.ID.Hex(), err)
	}

	return &models.Loan{
		ID:                doc.ID.Hex(),
		CustomerID:        doc.CustomerID.Hex(),
		OriginalAmount:    originalAmount,
		InterestAmount:    interestAmount,
		TotalInstallments: int(doc.TotalInstallments),
		PaymentDate:       doc.PaymentDate,
	}, nil
}
