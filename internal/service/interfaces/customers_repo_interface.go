package interfaces

import (
	"context"

	"loanbook-worker/internal/pkg/models"
)

type CustomersRepoInterface interface {
	ListActiveCustomers(ctx context.Context) ([]models.Customer, error)
}
