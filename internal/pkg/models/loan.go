package models

import (
	"time"

	"loanbook-worker/internal/pkg/money"
)

// Loan terms as recorded at availment. The status calculator treats this
// as read-only input; only explicit edit operations mutate amounts.
type Loan struct {
	ID                string      `json:"id"`
	CustomerID        string      `json:"customerId"`
	OriginalAmount    money.Money `json:"originalAmount"`
	InterestAmount    money.Money `json:"interestAmount"`
	TotalInstallments int         `json:"totalInstallments"`
	PaymentDate       time.Time   `json:"paymentDate"`
}

// Installment is one discrete payment applied against a loan.
type Installment struct {
	ID                string       `json:"id"`
	LoanID            string       `json:"loanId"`
	InstallmentNumber int          `json:"installmentNumber"`
	Amount            money.Money  `json:"amount"`
	Date              time.Time    `json:"date"`
	LateFee           *money.Money `json:"lateFee,omitempty"`
	ReceiptNumber     string       `json:"receiptNumber"`
}

type LoanStatusLabel string

const (
	LoanStatusPaidOff    LoanStatusLabel = "PaidOff"
	LoanStatusInProgress LoanStatusLabel = "InProgress"
)

// LoanStatus is derived fresh on every evaluation and never persisted;
// installments can arrive concurrently from the UI layer, so a cached
// status would go stale.
type LoanStatus struct {
	Paid                        money.Money     `json:"paid"`
	TotalRepayable              money.Money     `json:"totalRepayable"`
	RequiredInstallments        int             `json:"requiredInstallments"`
	HasReachedInstallmentTarget bool            `json:"hasReachedInstallmentTarget"`
	IsPaidOff                   bool            `json:"isPaidOff"`
	Status                      LoanStatusLabel `json:"status"`
}
