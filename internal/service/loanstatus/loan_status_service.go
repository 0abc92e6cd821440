package loanstatus

import (
	"context"
	"errors"
	"log/slog"

	"loanbook-worker/internal/pkg/log_messages"
	"loanbook-worker/internal/pkg/logger"
	"loanbook-worker/internal/pkg/models"
	"loanbook-worker/internal/pkg/money"
	"loanbook-worker/internal/service/interfaces"
)

// Compute derives a loan's financial status from its installment
// history. Pure: no I/O, no retries, callers re-invoke on every data
// change.
//
// Payoff requires both the contracted number of installments and the
// full repayable amount. A loan that collected enough money in fewer
// installments than contracted stays InProgress; payoff is defined by
// installment completion, not amount alone.
func Compute(loan models.Loan, installments []models.Installment) (models.LoanStatus, error) {
	if loan.TotalInstallments <= 0 {
		return models.LoanStatus{}, models.NewConfigurationError(loan.ID,
			"totalInstallments must be a positive integer, got %d", loan.TotalInstallments)
	}
	if loan.OriginalAmount.IsNegative() {
		return models.LoanStatus{}, models.NewConfigurationError(loan.ID,
			"originalAmount must be non-negative, got %s", loan.OriginalAmount)
	}
	if loan.InterestAmount.IsNegative() {
		return models.LoanStatus{}, models.NewConfigurationError(loan.ID,
			"interestAmount must be non-negative, got %s", loan.InterestAmount)
	}

	amounts := make([]money.Money, 0, len(installments))
	for i, installment := range installments {
		if installment.Amount.IsNegative() {
			return models.LoanStatus{}, models.NewConfigurationError(loan.ID,
				"installment at position %d (id %s) has negative amount %s",
				i, installment.ID, installment.Amount)
		}
		amounts = append(amounts, installment.Amount)
	}

	totalRepayable := loan.OriginalAmount.Add(loan.InterestAmount)
	paid := money.Sum(amounts...)

	hasReachedInstallmentTarget := len(installments) >= loan.TotalInstallments
	isPaidOff := hasReachedInstallmentTarget && paid.GreaterThanOrEqual(totalRepayable)

	status := models.LoanStatusInProgress
	if isPaidOff {
		status = models.LoanStatusPaidOff
	}

	return models.LoanStatus{
		Paid:                        paid,
		TotalRepayable:              totalRepayable,
		RequiredInstallments:        loan.TotalInstallments,
		HasReachedInstallmentTarget: hasReachedInstallmentTarget,
		IsPaidOff:                   isPaidOff,
		Status:                      status,
	}, nil
}

// LoanStatusService loads a loan and its installments and evaluates the
// pure calculator for display.
type LoanStatusService struct {
	loansRepo        interfaces.LoansRepoInterface
	installmentsRepo interfaces.InstallmentsRepoInterface
}

func NewLoanStatusService(loansRepo interfaces.LoansRepoInterface,
	installmentsRepo interfaces.InstallmentsRepoInterface) *LoanStatusService {
	return &LoanStatusService{
		loansRepo:        loansRepo,
		installmentsRepo: installmentsRepo,
	}
}

func (s *LoanStatusService) GetLoanStatus(ctx context.Context, loanID string) (*models.LoanStatus, error) {
	loan, err := s.loansRepo.GetLoanByID(ctx, loanID)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorFetchingLoan, err, slog.String("loan_id", loanID))
		return nil, err
	}

	installments, err := s.installmentsRepo.ListByLoanID(ctx, loanID)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorFetchingInstallments, err, slog.String("loan_id", loanID))
		return nil, err
	}

	status, err := Compute(*loan, installments)
	if err != nil {
		// Configuration errors propagate untouched: displaying a wrong
		// monetary figure is worse than displaying nothing.
		var configErr *models.ConfigurationError
		if errors.As(err, &configErr) {
			logger.CtxError(ctx, log_messages.ErrorComputingLoanStatus, err, slog.String("loan_id", loanID))
		}
		return nil, err
	}

	return &status, nil
}
