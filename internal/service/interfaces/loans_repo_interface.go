package interfaces

import (
	"context"

	"loanbook-worker/internal/pkg/models"
)

type LoansRepoInterface interface {
	GetLoanByID(ctx context.Context, id string) (*models.Loan, error)
}

type InstallmentsRepoInterface interface {
	ListByLoanID(ctx context.Context, loanID string) ([]models.Installment, error)
}
