package consts

const (
	CustomersCollection       = "Customers"
	LoansCollection           = "Loans"
	InstallmentsCollection    = "Installments"
	SubscriptionsCollection   = "Subscriptions"
	InterestChargesCollection = "InterestCharges"
	NotificationsCollection   = "Notifications"
)
