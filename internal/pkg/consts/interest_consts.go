package consts

// Per-customer outcome statuses for the quarterly interest run.
const (
	OutcomeSuccess = "success"
	OutcomeSkipped = "skipped"
	OutcomeError   = "error"
)

// Notification statuses surfaced to administrators.
const (
	NotificationStatusPending = "Pending"
	NotificationStatusSuccess = "Success"
	NotificationStatusWarning = "Warning"
	NotificationStatusError   = "Error"
)

// Notification types written by this service.
const (
	NotificationTypeQuarterlyInterest = "quarterly_interest"
)

// OutcomeSampleLimit bounds how many per-category details are embedded in
// the summary notification, so a large customer base cannot produce an
// unbounded payload.
const OutcomeSampleLimit = 5

const (
	EnvironmentProduction = "production"
)
