package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Customers struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Phone     string             `bson:"phone"`
	IsDeleted bool               `bson:"isDeleted"`
	CreatedAt time.Time          `bson:"createdAt"`
}

type Loans struct {
	ID                primitive.ObjectID   `bson:"_id,omitempty"`
	CustomerID        primitive.ObjectID   `bson:"customerId"`
	OriginalAmount    primitive.Decimal128 `bson:"originalAmount"`
	InterestAmount    primitive.Decimal128 `bson:"interestAmount"`
	TotalInstallments int32                `bson:"totalInstallments"`
	PaymentDate       time.Time            `bson:"paymentDate"`
	CreatedAt         time.Time            `bson:"createdAt"`
}

type Installments struct {
	ID                primitive.ObjectID    `bson:"_id,omitempty"`
	LoanID            primitive.ObjectID    `bson:"loanId"`
	InstallmentNumber int32                 `bson:"installmentNumber"`
	Amount            primitive.Decimal128  `bson:"amount"`
	Date              time.Time             `bson:"date"`
	LateFee           *primitive.Decimal128 `bson:"lateFee,omitempty"`
	ReceiptNumber     string                `bson:"receiptNumber"`
}

// Subscriptions carries the balance interest is applied to. The document
// itself is the idempotency ledger: lastInterestQuarter plus the version
// counter make the quarterly charge a single-document check-and-set.
type Subscriptions struct {
	ID                  primitive.ObjectID   `bson:"_id,omitempty"`
	CustomerID          primitive.ObjectID   `bson:"customerId"`
	Balance             primitive.Decimal128 `bson:"balance"`
	LastInterestQuarter string               `bson:"lastInterestQuarter"`
	Version             int32                `bson:"version"`
	UpdatedAt           time.Time            `bson:"updatedAt"`
}

type InterestCharges struct {
	ID                primitive.ObjectID   `bson:"_id,omitempty"`
	CustomerID        primitive.ObjectID   `bson:"customerId"`
	QuarterKey        string               `bson:"quarterKey"`
	RunID             string               `bson:"runId"`
	InterestCharged   primitive.Decimal128 `bson:"interestCharged"`
	SubscriptionTotal primitive.Decimal128 `bson:"subscriptionTotal"`
	CreatedAt         time.Time            `bson:"createdAt"`
}

type Notifications struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Type      string             `bson:"type"`
	Status    string             `bson:"status"`
	Message   string             `bson:"message"`
	Metadata  bson.M             `bson:"metadata"`
	CreatedAt time.Time          `bson:"createdAt"`
}
