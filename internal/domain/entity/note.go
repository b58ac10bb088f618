package entity

import "time"

// NotePlaceholderText is stored when an actor submits an empty note.
const NotePlaceholderText = "No comment provided."

// Audit tags written outside the five transition actions.
const (
	TagApplicationSubmitted = "APPLICATION_SUBMITTED"
)

// Note is one immutable audit entry on an application. Notes are only
// ever appended; insertion order is chronological order.
type Note struct {
	ID            int64     `json:"id"`
	ApplicationID string    `json:"application_id"`
	ActorName     string    `json:"actor_name"`
	Text          string    `json:"text"`
	ActionTag     string    `json:"action_tag"`
	NoteDate      time.Time `json:"date"`
	CreatedAt     time.Time `json:"created_at"`
}
