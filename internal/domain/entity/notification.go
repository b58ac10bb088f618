package entity

import "time"

// Notification status constants
const (
	NotificationStatusPending = "PENDING"
	NotificationStatusSent    = "SENT"
	NotificationStatusFailed  = "FAILED"
)

// Notification records one decision email owed to HR. Delivery is
// best-effort: a failed send marks the row FAILED but never fails the
// transition that produced it.
type Notification struct {
	ID            int64      `json:"id"`
	ApplicationID string     `json:"application_id"`
	Recipient     string     `json:"recipient"`
	Subject       string     `json:"subject"`
	Body          string     `json:"body"`
	Status        string     `json:"status"`
	ErrorMsg      string     `json:"error_msg,omitempty"`
	SentAt        *time.Time `json:"sent_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}
