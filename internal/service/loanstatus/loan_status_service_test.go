package loanstatus

import (
	"context"
	"errors"
	"testing"
	"time"

	"loanbook-worker/internal/pkg/models"
	"loanbook-worker/internal/pkg/money"
	"loanbook-worker/internal/service/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func makeLoan(original, interest string, totalInstallments int) models.Loan {
	return models.Loan{
		ID:                "loan-1",
		CustomerID:        "cust-1",
		OriginalAmount:    money.MustFromString(original),
		InterestAmount:    money.MustFromString(interest),
		TotalInstallments: totalInstallments,
		PaymentDate:       time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC),
	}
}

func makeInstallments(amounts ...string) []models.Installment {
	installments := make([]models.Installment, 0, len(amounts))
	for i, amount := range amounts {
		installments = append(installments, models.Installment{
			ID:                "inst-" + amount,
			LoanID:            "loan-1",
			InstallmentNumber: i + 1,
			Amount:            money.MustFromString(amount),
		})
	}
	return installments
}

func repeatInstallments(amount string, n int) []models.Installment {
	amounts := make([]string, n)
	for i := range amounts {
		amounts[i] = amount
	}
	return makeInstallments(amounts...)
}

func TestComputePaidOff(t *testing.T) {
	// 10000 principal + 1200 interest over 12 monthly installments.
	loan := makeLoan("10000", "1200", 12)

	status, err := Compute(loan, repeatInstallments("933.33", 11))
	require.NoError(t, err)
	assert.Equal(t, models.LoanStatusInProgress, status.Status)
	assert.False(t, status.HasReachedInstallmentTarget)
	assert.False(t, status.IsPaidOff)
	assert.Equal(t, "11200", status.TotalRepayable.String())
	assert.Equal(t, "10266.63", status.Paid.String())

	installments := append(repeatInstallments("933.33", 11), makeInstallments("933.37")...)
	status, err = Compute(loan, installments)
	require.NoError(t, err)
	assert.Equal(t, models.LoanStatusPaidOff, status.Status)
	assert.True(t, status.HasReachedInstallmentTarget)
	assert.True(t, status.IsPaidOff)
	assert.Equal(t, "11200", status.Paid.String())
}

func TestComputeFullAmountInFewerInstallmentsStaysInProgress(t *testing.T) {
	// The full repayable amount arrived, but in fewer installments than
	// contracted. Payoff is a conjunction of count and amount.
	loan := makeLoan("10000", "1200", 12)

	status, err := Compute(loan, makeInstallments("6000", "5200"))
	require.NoError(t, err)
	assert.True(t, status.Paid.GreaterThanOrEqual(status.TotalRepayable))
	assert.False(t, status.HasReachedInstallmentTarget)
	assert.False(t, status.IsPaidOff)
	assert.Equal(t, models.LoanStatusInProgress, status.Status)
}

func TestComputeEnoughInstallmentsButShortOnAmount(t *testing.T) {
	loan := makeLoan("1000", "100", 2)

	status, err := Compute(loan, makeInstallments("500", "500"))
	require.NoError(t, err)
	assert.True(t, status.HasReachedInstallmentTarget)
	assert.False(t, status.IsPaidOff)
	assert.Equal(t, models.LoanStatusInProgress, status.Status)
}

func TestComputeOverpaymentIsPaidOff(t *testing.T) {
	loan := makeLoan("1000", "100", 2)

	status, err := Compute(loan, makeInstallments("600", "600"))
	require.NoError(t, err)
	assert.True(t, status.IsPaidOff)
	assert.Equal(t, "1200", status.Paid.String())
}

func TestComputeNoInstallments(t *testing.T) {
	loan := makeLoan("1000", "100", 2)

	status, err := Compute(loan, nil)
	require.NoError(t, err)
	assert.True(t, status.Paid.IsZero())
	assert.False(t, status.IsPaidOff)
	assert.Equal(t, models.LoanStatusInProgress, status.Status)
}

func TestComputeExactDecimalAccumulation(t *testing.T) {
	// 0.1 + 0.2 must equal 0.3 exactly, never 0.30000000000000004.
	loan := makeLoan("0.25", "0.05", 2)

	status, err := Compute(loan, makeInstallments("0.1", "0.2"))
	require.NoError(t, err)
	assert.Equal(t, "0.3", status.Paid.String())
	assert.True(t, status.IsPaidOff)
}

func TestComputeInvalidLoanData(t *testing.T) {
	testCases := []struct {
		name         string
		loan         models.Loan
		installments []models.Installment
	}{
		{
			name: "zero totalInstallments",
			loan: makeLoan("1000", "100", 0),
		},
		{
			name: "negative totalInstallments",
			loan: makeLoan("1000", "100", -3),
		},
		{
			name: "negative originalAmount",
			loan: makeLoan("-1000", "100", 2),
		},
		{
			name: "negative interestAmount",
			loan: makeLoan("1000", "-100", 2),
		},
		{
			name:         "negative installment amount",
			loan:         makeLoan("1000", "100", 2),
			installments: makeInstallments("500", "-200"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compute(tc.loan, tc.installments)
			require.Error(t, err)

			var configErr *models.ConfigurationError
			assert.ErrorAs(t, err, &configErr)
			assert.Equal(t, "loan-1", configErr.LoanID)
		})
	}
}

type MockLoansRepo struct {
	mock.Mock
}

func (m *MockLoansRepo) GetLoanByID(ctx context.Context, loanID string) (*models.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Loan), args.Error(1)
}

type MockInstallmentsRepo struct {
	mock.Mock
}

func (m *MockInstallmentsRepo) ListByLoanID(ctx context.Context, loanID string) ([]models.Installment, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Installment), args.Error(1)
}

var _ interfaces.LoansRepoInterface = (*MockLoansRepo)(nil)
var _ interfaces.InstallmentsRepoInterface = (*MockInstallmentsRepo)(nil)

func TestGetLoanStatus(t *testing.T) {
	loansRepo := new(MockLoansRepo)
	installmentsRepo := new(MockInstallmentsRepo)
	service := NewLoanStatusService(loansRepo, installmentsRepo)

	loan := makeLoan("1000", "100", 2)
	loansRepo.On("GetLoanByID", mock.Anything, "loan-1").Return(&loan, nil)
	installmentsRepo.On("ListByLoanID", mock.Anything, "loan-1").
		Return(makeInstallments("550", "550"), nil)

	status, err := service.GetLoanStatus(context.Background(), "loan-1")

	require.NoError(t, err)
	assert.True(t, status.IsPaidOff)
	assert.Equal(t, "1100", status.Paid.String())
	loansRepo.AssertExpectations(t)
	installmentsRepo.AssertExpectations(t)
}

func TestGetLoanStatusLoanLookupFails(t *testing.T) {
	loansRepo := new(MockLoansRepo)
	installmentsRepo := new(MockInstallmentsRepo)
	service := NewLoanStatusService(loansRepo, installmentsRepo)

	loansRepo.On("GetLoanByID", mock.Anything, "loan-404").
		Return(nil, errors.New("loan not found"))

	_, err := service.GetLoanStatus(context.Background(), "loan-404")

	assert.Error(t, err)
	installmentsRepo.AssertNotCalled(t, "ListByLoanID", mock.Anything, mock.Anything)
}

func TestGetLoanStatusSurfacesConfigurationError(t *testing.T) {
	loansRepo := new(MockLoansRepo)
	installmentsRepo := new(MockInstallmentsRepo)
	service := NewLoanStatusService(loansRepo, installmentsRepo)

	badLoan := makeLoan("1000", "100", 0)
	loansRepo.On("GetLoanByID", mock.Anything, "loan-1").Return(&badLoan, nil)
	installmentsRepo.On("ListByLoanID", mock.Anything, "loan-1").
		Return([]models.Installment{}, nil)

	_, err := service.GetLoanStatus(context.Background(), "loan-1")

	var configErr *models.ConfigurationError
	assert.ErrorAs(t, err, &configErr)
}
