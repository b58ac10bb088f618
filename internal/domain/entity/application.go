package entity

import (
	"time"

	"github.com/yusufkoc/hr-intake/internal/domain/approval"
)

// Status constants for Application. They mirror the workflow state
// machine's states; the entity keeps plain strings because that is
// what the storage layer round-trips.
const (
	StatusPending           = "Pending"
	StatusApproved          = "Approved"
	StatusRejected          = "Rejected"
	StatusRevisionRequested = "RevisionRequested"
)

// Application represents one candidate's submission moving through the
// approval pipeline.
type Application struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`

	// Flattened preference labels derived from the nested intake form.
	Branches    []string `json:"branches"`
	Areas       []string `json:"areas"`
	Departments []string `json:"departments"`
	Positions   []string `json:"positions"`

	Status string         `json:"status"`
	Stage  approval.Stage `json:"approval_stage"`

	// ReviseRequestedBy records the raw (non-normalized) role of the
	// actor who most recently requested a revision. Empty unless
	// Status is RevisionRequested.
	ReviseRequestedBy approval.Role `json:"revise_requested_by,omitempty"`

	// FormData is the raw submitted intake form, kept as JSON.
	FormData string `json:"form_data,omitempty"`

	// Version guards against concurrent transitions: every mutation
	// increments it and updates are conditional on the loaded value.
	Version int64 `json:"version"`

	Notes []Note `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep copy so callers can never mutate store-owned
// slices through a returned application.
func (a *Application) Clone() *Application {
	if a == nil {
		return nil
	}
	dup := *a
	dup.Branches = append([]string(nil), a.Branches...)
	dup.Areas = append([]string(nil), a.Areas...)
	dup.Departments = append([]string(nil), a.Departments...)
	dup.Positions = append([]string(nil), a.Positions...)
	dup.Notes = append([]Note(nil), a.Notes...)
	return &dup
}
