package models

import "time"

// Notification is the append-only audit record administrators review.
// The service only ever inserts these, never updates or deletes.
type Notification struct {
	Type      string                 `json:"type" validate:"required"`
	Status    string                 `json:"status" validate:"required,oneof=Pending Success Warning Error"`
	Message   string                 `json:"message" validate:"required"`
	Metadata  map[string]interface{} `json:"metadata"`
	CreatedAt time.Time              `json:"createdAt"`
}
